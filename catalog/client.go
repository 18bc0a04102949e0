// Package catalog talks to the mobile streaming catalog API. It resolves
// searches, artist and album detail lookups, and signed stream URLs, and
// hands the raw records over to models for entity construction.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/ftxrc/gpymusic/config"
	"github.com/ftxrc/gpymusic/models"
)

const (
	defaultBaseURL   = "https://mclients.googleapis.com/sj/v2.5/"
	defaultStreamURL = "https://mclients.googleapis.com/music/mplay"
)

// Client is an authenticated catalog API client. Construct it with NewClient.
type Client struct {
	http      *http.Client
	stream    *http.Client
	baseURL   string
	streamURL string
	deviceID  string
	logger    *log.Entry
}

// NewClient wires up an authenticated client from the environment
// configuration. The returned client refreshes its own access tokens.
func NewClient(ctx context.Context) (*Client, error) {
	ts, err := newTokenSource(ctx, config.Config.Catalog)
	if err != nil {
		return nil, err
	}

	deviceID := config.Config.Catalog.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
		log.WithFields(log.Fields{
			"module": "catalog",
		}).Warnf("DEVICE_ID not set, using ephemeral device id %s", deviceID)
	}

	api := oauth2.NewClient(ctx, ts)
	api.Timeout = 15 * time.Second

	// The stream endpoint answers with a redirect to the actual media host.
	// We want the Location header, not the media bytes, so this client never
	// follows it.
	stream := &http.Client{
		Transport: api.Transport,
		Timeout:   15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		http:      api,
		stream:    stream,
		baseURL:   defaultBaseURL,
		streamURL: defaultStreamURL,
		deviceID:  deviceID,
		logger:    log.WithFields(log.Fields{"module": "catalog"}),
	}, nil
}

type searchEntry struct {
	Type   string        `json:"type"`
	Track  models.Record `json:"track"`
	Artist models.Record `json:"artist"`
	Album  models.Record `json:"album"`
}

type searchResponse struct {
	Entries []searchEntry `json:"entries"`
}

// Search queries the catalog and returns up to maxResults hits per kind,
// already promoted into entities. Entries the API mangles are skipped.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (models.Collection, error) {
	span := sentry.StartSpan(ctx, "catalog.search")
	span.Description = query
	defer span.Finish()

	logger := c.logger.WithFields(log.Fields{"method": "Search"})
	logger.Debugf("searching catalog for %q", query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("max-results", fmt.Sprintf("%d", maxResults))
	params.Set("ct", "1,2,3")

	var resp searchResponse
	if err := c.getJSON(span.Context(), "query", params, &resp); err != nil {
		span.Status = sentry.SpanStatusInternalError
		return models.Collection{}, err
	}

	var results models.Collection
	for _, entry := range resp.Entries {
		switch entry.Type {
		case "1":
			song, err := models.SongFromAPI(entry.Track)
			if err != nil {
				logger.Warnf("skipping search result: %v", err)
				continue
			}
			results.Songs = append(results.Songs, song)
		case "2":
			artist, err := models.ArtistFromAPI(entry.Artist)
			if err != nil {
				logger.Warnf("skipping search result: %v", err)
				continue
			}
			results.Artists = append(results.Artists, artist)
		case "3":
			album, err := models.AlbumFromAPI(entry.Album)
			if err != nil {
				logger.Warnf("skipping search result: %v", err)
				continue
			}
			results.Albums = append(results.Albums, album)
		}
	}

	span.Status = sentry.SpanStatusOK
	logger.Debugf("search returned %d songs, %d artists, %d albums",
		len(results.Songs), len(results.Artists), len(results.Albums))
	return results, nil
}

// ArtistInfo fetches the full record for an artist, including its albums and
// up to maxTopTracks of its most played songs.
func (c *Client) ArtistInfo(ctx context.Context, id string, maxTopTracks int) (models.Record, error) {
	span := sentry.StartSpan(ctx, "catalog.fetchartist")
	span.SetTag("artist_id", id)
	defer span.Finish()

	params := url.Values{}
	params.Set("nid", id)
	params.Set("include-albums", "true")
	params.Set("num-top-tracks", fmt.Sprintf("%d", maxTopTracks))
	params.Set("num-related-artists", "0")

	var rec models.Record
	if err := c.getJSON(span.Context(), "fetchartist", params, &rec); err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	span.Status = sentry.SpanStatusOK
	return rec, nil
}

// AlbumInfo fetches the full record for an album, tracks included.
func (c *Client) AlbumInfo(ctx context.Context, id string) (models.Record, error) {
	span := sentry.StartSpan(ctx, "catalog.fetchalbum")
	span.SetTag("album_id", id)
	defer span.Finish()

	params := url.Values{}
	params.Set("nid", id)
	params.Set("include-tracks", "true")

	var rec models.Record
	if err := c.getJSON(span.Context(), "fetchalbum", params, &rec); err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	span.Status = sentry.SpanStatusOK
	return rec, nil
}

// LookupFor adapts the client into the lookup capability entities fill
// themselves with. Songs arrive full and never look anything up.
func (c *Client) LookupFor(ctx context.Context, kind models.Kind) models.Lookup {
	switch kind {
	case models.KindArtist:
		return func(id string, limit int) (models.Record, error) {
			return c.ArtistInfo(ctx, id, limit)
		}
	case models.KindAlbum:
		return func(id string, _ int) (models.Record, error) {
			return c.AlbumInfo(ctx, id)
		}
	default:
		return func(id string, _ int) (models.Record, error) {
			return nil, fmt.Errorf("no catalog lookup for kind %q", kind)
		}
	}
}

// getJSON performs an authenticated GET against a catalog endpoint and
// decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("alt", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Device-ID", c.deviceID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf("catalog request to %s failed: %v", endpoint, err)
		sentry.CaptureException(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("catalog %s returned status %d", endpoint, resp.StatusCode)
		c.logger.Error(err)
		sentry.CaptureException(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding catalog %s response: %w", endpoint, err)
	}
	return nil
}
