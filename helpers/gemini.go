// Package helpers bridges the play history and the suggestion model.
package helpers

import (
	"context"
	"strings"

	"github.com/ftxrc/gpymusic/database"
	"github.com/ftxrc/gpymusic/gemini"
)

// seedLimit caps how much history one prompt carries.
const seedLimit = 20

// SeedLine formats one history row the way the suggestion prompt expects.
func SeedLine(r database.PlayRecord) string {
	return r.Artist + " - " + r.Title
}

// Seeds formats history rows into prompt seed lines, newest first, with
// repeat plays collapsed to one line.
func Seeds(records []database.PlayRecord, max int) []string {
	seen := make(map[string]bool, len(records))
	var seeds []string
	for _, r := range records {
		line := SeedLine(r)
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		seeds = append(seeds, line)
		if len(seeds) == max {
			break
		}
	}
	return seeds
}

// Suggestions asks the model for count new songs seeded by the listener's
// recent plays.
func Suggestions(ctx context.Context, db *database.Database, count int) ([]string, error) {
	records, err := db.RecentPlays(seedLimit)
	if err != nil {
		return nil, err
	}
	return gemini.Suggest(ctx, Seeds(records, seedLimit), count)
}
