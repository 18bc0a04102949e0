package catalog

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// The stream endpoint authenticates requests with an HMAC-SHA1 signature
// over the song id and a millisecond timestamp salt. The key is derived by
// XORing these two well-known service constants together.
const (
	streamKeyPart1 = "VzeC4H4h+T2f0VI180nVX8x+Mb5HiTtGnKgH52Otj8ZCGDz9jRWyHb6QXK0JskSiOgzQfwTY5xgLLSdUSreaLVMsVVWfxfa8Rw=="
	streamKeyPart2 = "ZAPnhUkYwQ6y5DdQxWThbvhJHN8msQ1iZaKmmV9dCGcFWngxVXeXNG5jIjJh2B5h8jKjL3RY7trU3EHyqyUZ3mhd9Yfnw5fQj/rU"
)

func streamKey() ([]byte, error) {
	p1, err := base64.StdEncoding.DecodeString(streamKeyPart1)
	if err != nil {
		return nil, err
	}
	p2, err := base64.StdEncoding.DecodeString(streamKeyPart2)
	if err != nil {
		return nil, err
	}

	n := len(p1)
	if len(p2) < n {
		n = len(p2)
	}
	key := make([]byte, n)
	for i := 0; i < n; i++ {
		key[i] = p1[i] ^ p2[i]
	}
	return key, nil
}

func signStreamRequest(songID, salt string) (string, error) {
	key, err := streamKey()
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(songID + salt))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// StreamURL resolves a song id into a playable media URL. The endpoint
// answers with a redirect; the Location header is the stream.
func (c *Client) StreamURL(ctx context.Context, songID string) (string, error) {
	span := sentry.StartSpan(ctx, "catalog.mplay")
	span.SetTag("song_id", songID)
	defer span.Finish()

	logger := c.logger.WithFields(log.Fields{"method": "StreamURL"})

	salt := fmt.Sprintf("%d", time.Now().UnixMilli())
	sig, err := signStreamRequest(songID, salt)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}

	params := url.Values{}
	// Store track ids carry a T prefix and go in a different parameter than
	// uploaded library tracks.
	if strings.HasPrefix(songID, "T") {
		params.Set("mjck", songID)
	} else {
		params.Set("songid", songID)
	}
	params.Set("opt", "hi")
	params.Set("net", "mob")
	params.Set("pt", "e")
	params.Set("slt", salt)
	params.Set("sig", sig)

	req, err := http.NewRequestWithContext(span.Context(), http.MethodGet, c.streamURL+"?"+params.Encode(), nil)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}
	req.Header.Set("X-Device-ID", c.deviceID)

	resp, err := c.stream.Do(req)
	if err != nil {
		logger.Errorf("stream request failed: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusMovedPermanently {
		err := fmt.Errorf("stream endpoint returned status %d for song %s", resp.StatusCode, songID)
		logger.Error(err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}

	location := resp.Header.Get("Location")
	if location == "" {
		err := fmt.Errorf("stream endpoint redirect for song %s has no location", songID)
		logger.Error(err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}

	span.Status = sentry.SpanStatusOK
	logger.Tracef("resolved stream for %s", songID)
	return location, nil
}
