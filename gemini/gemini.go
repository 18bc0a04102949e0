// Package gemini asks a language model for listening suggestions seeded by
// the play history.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/ftxrc/gpymusic/config"
)

// ErrDisabled is returned when suggestions are turned off or no API key is
// configured.
var ErrDisabled = errors.New("suggestions are not enabled")

const model = "gemini-2.0-flash"

// Suggest returns up to count suggestions based on recently played songs.
// Each seed and each suggestion is an "Artist - Title" line.
func Suggest(ctx context.Context, recent []string, count int) ([]string, error) {
	if !config.Config.Gemini.SuggestionsEnabled() {
		return nil, ErrDisabled
	}
	if len(recent) == 0 {
		return nil, errors.New("no play history to seed suggestions with")
	}

	span := sentry.StartSpan(ctx, "gemini.suggest")
	defer span.Finish()

	logger := log.WithFields(log.Fields{
		"module": "gemini",
		"method": "Suggest",
	})

	client, err := genai.NewClient(span.Context(), &genai.ClientConfig{
		APIKey:  config.Config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Errorf("failed to create client: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	resp, err := client.Models.GenerateContent(span.Context(), model,
		genai.Text(suggestionPrompt(recent, count)), nil)
	if err != nil {
		logger.Errorf("failed to generate suggestions: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	suggestions := parseSuggestions(resp.Text(), count)
	if len(suggestions) == 0 {
		return nil, errors.New("the model returned no usable suggestions")
	}

	span.Status = sentry.SpanStatusOK
	logger.Debugf("got %d suggestions", len(suggestions))
	return suggestions, nil
}

func suggestionPrompt(recent []string, count int) string {
	return fmt.Sprintf(`
Instructions: You are the recommendation engine inside a terminal music player.
Given the songs a listener played recently, suggest %d more songs they are likely to enjoy.
Lean toward the same genres and eras, but never repeat a song already in the list.
Respond with exactly one suggestion per line, formatted as Artist - Title.
No numbering, no markdown, no commentary.
Recently played:
%s`, count, strings.Join(recent, "\n"))
}

// parseSuggestions pulls "Artist - Title" lines out of a model response,
// tolerating the numbering and bullets models add anyway.
func parseSuggestions(text string, count int) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789. ")
		line = strings.Trim(line, "*`")
		if line == "" || !strings.Contains(line, " - ") {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == count {
			break
		}
	}
	return suggestions
}
