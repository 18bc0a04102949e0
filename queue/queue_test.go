package queue

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/ftxrc/gpymusic/models"
)

func testSong(t *testing.T, n int) *models.Song {
	t.Helper()
	song, err := models.SongFromAPI(models.Record{
		"storeId":        fmt.Sprintf("T%d", n),
		"title":          fmt.Sprintf("Song %d", n),
		"artist":         "Fixture Artist",
		"artistId":       "Afixture",
		"album":          "Fixture Album",
		"albumId":        "Bfixture",
		"durationMillis": float64(60000 + n*1000),
	})
	if err != nil {
		t.Fatalf("building fixture song: %v", err)
	}
	return song
}

func fullAlbumRecord(tracks int) models.Record {
	trackRecords := make([]interface{}, 0, tracks)
	for i := 1; i <= tracks; i++ {
		trackRecords = append(trackRecords, map[string]interface{}{
			"storeId":        fmt.Sprintf("Talbum%d", i),
			"title":          fmt.Sprintf("Track %d", i),
			"artist":         "Fixture Artist",
			"artistId":       "Afixture",
			"album":          "Fixture Album",
			"albumId":        "Bfixture",
			"durationMillis": float64(200000),
		})
	}
	return models.Record{
		"albumId":  "Bfixture",
		"name":     "Fixture Album",
		"artistId": "Afixture",
		"artist":   "Fixture Artist",
		"tracks":   trackRecords,
	}
}

func noLookup(t *testing.T) models.Lookup {
	return func(id string, limit int) (models.Record, error) {
		t.Fatalf("unexpected lookup for %s", id)
		return nil, nil
	}
}

func TestAppendSong(t *testing.T) {
	q := New()

	added, err := q.Append(testSong(t, 1), noLookup(t), 20)
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if added != 1 || q.Len() != 1 {
		t.Errorf("expected 1 song queued, got added=%d len=%d", added, q.Len())
	}
}

func TestAppendPartialAlbumFillsFirst(t *testing.T) {
	album, err := models.AlbumFromAPI(models.Record{
		"albumId":  "Bfixture",
		"name":     "Fixture Album",
		"artistId": "Afixture",
		"artist":   "Fixture Artist",
	})
	if err != nil {
		t.Fatalf("building fixture album: %v", err)
	}

	calls := 0
	lookup := func(id string, limit int) (models.Record, error) {
		calls++
		if id != "Bfixture" {
			t.Errorf("expected lookup for Bfixture, got %s", id)
		}
		return fullAlbumRecord(3), nil
	}

	q := New()
	added, err := q.Append(album, lookup, 20)
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one lookup, got %d", calls)
	}
	if added != 3 || q.Len() != 3 {
		t.Errorf("expected 3 tracks queued, got added=%d len=%d", added, q.Len())
	}

	songs := q.Songs()
	if songs[0].Name() != "Track 1" || songs[2].Name() != "Track 3" {
		t.Errorf("tracks queued out of order: %v", songs)
	}
}

func TestAppendAlbumLookupError(t *testing.T) {
	album, err := models.AlbumFromAPI(models.Record{
		"albumId":  "Bfixture",
		"name":     "Fixture Album",
		"artistId": "Afixture",
		"artist":   "Fixture Artist",
	})
	if err != nil {
		t.Fatalf("building fixture album: %v", err)
	}

	lookupErr := errors.New("catalog unavailable")
	q := New()
	if _, err := q.Append(album, func(string, int) (models.Record, error) {
		return nil, lookupErr
	}, 20); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("queue should stay empty after a failed append, got %d", q.Len())
	}
}

func TestAppendRejectsArtists(t *testing.T) {
	artist, err := models.ArtistFromAPI(models.Record{
		"artistId": "Afixture",
		"name":     "Fixture Artist",
	})
	if err != nil {
		t.Fatalf("building fixture artist: %v", err)
	}

	q := New()
	if _, err := q.Append(artist, noLookup(t), 20); !errors.Is(err, ErrNotQueueable) {
		t.Fatalf("expected ErrNotQueueable, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	q := New()
	for i := 1; i <= 3; i++ {
		q.Append(testSong(t, i), noLookup(t), 20)
	}

	removed, ok := q.Remove(2)
	if !ok || removed.Name() != "Song 2" {
		t.Fatalf("expected to remove Song 2, got %v (%v)", removed, ok)
	}
	if q.Len() != 2 {
		t.Errorf("expected 2 songs left, got %d", q.Len())
	}

	songs := q.Songs()
	if songs[0].Name() != "Song 1" || songs[1].Name() != "Song 3" {
		t.Errorf("unexpected order after remove: %v", songs)
	}

	if _, ok := q.Remove(0); ok {
		t.Error("index 0 should not remove anything")
	}
	if _, ok := q.Remove(3); ok {
		t.Error("index past the end should not remove anything")
	}
}

func TestClear(t *testing.T) {
	q := New()
	q.Append(testSong(t, 1), noLookup(t), 20)
	q.Clear()
	if !q.IsEmpty() {
		t.Errorf("expected empty queue after Clear, got %d", q.Len())
	}
}

func TestShuffleKeepsSongs(t *testing.T) {
	q := New()
	for i := 1; i <= 10; i++ {
		q.Append(testSong(t, i), noLookup(t), 20)
	}

	before := make([]string, 0, 10)
	for _, song := range q.Songs() {
		before = append(before, song.ID())
	}

	q.Shuffle()

	after := make([]string, 0, 10)
	for _, song := range q.Songs() {
		after = append(after, song.ID())
	}

	if len(after) != len(before) {
		t.Fatalf("shuffle changed the queue length: %d != %d", len(after), len(before))
	}

	sortedBefore := append([]string(nil), before...)
	sortedAfter := append([]string(nil), after...)
	sort.Strings(sortedBefore)
	sort.Strings(sortedAfter)
	for i := range sortedBefore {
		if sortedBefore[i] != sortedAfter[i] {
			t.Fatalf("shuffle changed the queue contents: %v != %v", before, after)
		}
	}
}

func TestDropPlayed(t *testing.T) {
	fill := func(q *Queue) {
		q.Clear()
		for i := 1; i <= 3; i++ {
			q.Append(testSong(t, i), noLookup(t), 20)
		}
	}

	q := New()

	fill(q)
	q.DropPlayed(0)
	if !q.IsEmpty() {
		t.Errorf("resume 0 should clear the queue, got %d songs", q.Len())
	}

	fill(q)
	q.DropPlayed(2)
	songs := q.Songs()
	if len(songs) != 2 || songs[0].Name() != "Song 2" {
		t.Errorf("resume 2 should keep songs 2 and 3, got %v", songs)
	}

	fill(q)
	q.DropPlayed(1)
	if q.Len() != 3 {
		t.Errorf("resume 1 should keep everything, got %d songs", q.Len())
	}

	fill(q)
	q.DropPlayed(4)
	if q.Len() != 3 {
		t.Errorf("resume past the end should change nothing, got %d songs", q.Len())
	}
}
