package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// scrape pulls lyrics off the song's page. The site keys pages by slugged
// artist and title, so no search round trip is needed.
func (c *Client) scrape(ctx context.Context, artist, title string) (string, error) {
	url := fmt.Sprintf("%s/lyrics/%s/%s.html", c.scrapeBase, artistSlug(artist), slug(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	// Set realistic User-Agent to avoid blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	log.Tracef("Fetching lyrics page: %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	return extractLyrics(doc)
}

// extractLyrics finds the lyrics block. The page never labels it; it is the
// one unclassed div inside the main column, so take the longest candidate.
func extractLyrics(doc *goquery.Document) (string, error) {
	var lyrics string

	doc.Find("div.col-xs-12.col-lg-8 div").Each(func(i int, s *goquery.Selection) {
		if _, hasClass := s.Attr("class"); hasClass {
			return
		}
		if _, hasID := s.Attr("id"); hasID {
			return
		}
		if text := strings.TrimSpace(s.Text()); len(text) > len(lyrics) {
			lyrics = text
		}
	})

	if lyrics == "" {
		return "", errors.New("no lyrics block on page")
	}
	return lyrics, nil
}

// slug lowercases and strips everything but letters and digits, matching
// the site's URL scheme.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// artistSlug is slug with the site's quirk of dropping a leading "the".
func artistSlug(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = strings.TrimPrefix(lower, "the ")
	return slug(lower)
}
