// Package lyrics fetches song lyrics, preferring the lrclib API and falling
// back to scraping a lyrics site when it comes up empty.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned when neither source has the song.
var ErrNotFound = errors.New("no lyrics found")

type searchResult struct {
	ID           int    `json:"id"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

type Client struct {
	httpClient *http.Client
	apiBase    string
	scrapeBase string
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiBase:    "https://lrclib.net/api",
		scrapeBase: "https://www.azlyrics.com",
	}
}

// Lyrics returns the lyrics for a song, trying the API first and the
// scraper second.
func (c *Client) Lyrics(ctx context.Context, artist, title string) (string, error) {
	span := sentry.StartSpan(ctx, "lyrics.fetch")
	span.Description = artist + " - " + title
	defer span.Finish()

	logger := log.WithFields(log.Fields{
		"module": "lyrics",
		"method": "Lyrics",
	})

	lyrics, err := c.searchAPI(span.Context(), artist+" "+title)
	if err != nil {
		logger.Warnf("lyrics API lookup failed: %v", err)
	}
	if lyrics != "" {
		span.Status = sentry.SpanStatusOK
		return lyrics, nil
	}

	logger.Debugf("no API result for %s - %s, trying the scraper", artist, title)
	lyrics, err = c.scrape(span.Context(), artist, title)
	if err != nil {
		logger.Debugf("scrape failed: %v", err)
		span.Status = sentry.SpanStatusNotFound
		return "", ErrNotFound
	}

	span.Status = sentry.SpanStatusOK
	return lyrics, nil
}

var syncedTimestamps = regexp.MustCompile(`\[\d+:\d+\.\d+\] ?`)

// searchAPI queries lrclib and returns the best hit's lyrics, or "" when
// there is no usable match.
func (c *Client) searchAPI(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s/search?q=%s", c.apiBase, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics API returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	res := results[0]
	if res.PlainLyrics != "" {
		return res.PlainLyrics, nil
	}
	if res.SyncedLyrics != "" {
		return strings.TrimSpace(syncedTimestamps.ReplaceAllString(res.SyncedLyrics, "")), nil
	}
	return "", nil
}
