package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func apiArtistRecord(topTracks, albums int) Record {
	rec := Record{
		"artistId": "Aboards",
		"name":     "Boards of Canada",
	}
	if topTracks >= 0 {
		tracks := make([]interface{}, 0, topTracks)
		for i := 0; i < topTracks; i++ {
			tracks = append(tracks, map[string]interface{}{
				"storeId":        "Ttrack" + string(rune('a'+i)),
				"title":          "Track " + string(rune('A'+i)),
				"artist":         "Boards of Canada",
				"artistId":       "Aboards",
				"album":          "Geogaddi",
				"albumId":        "Bgeogaddi",
				"durationMillis": float64(200000 + i*1000),
			})
		}
		rec["topTracks"] = tracks
	}
	if albums >= 0 {
		list := make([]interface{}, 0, albums)
		for i := 0; i < albums; i++ {
			list = append(list, map[string]interface{}{
				"albumId":  "Balbum" + string(rune('a'+i)),
				"name":     "Album " + string(rune('A'+i)),
				"artistId": []interface{}{"Aboards"},
				"artist":   "Boards of Canada",
			})
		}
		rec["albums"] = list
	}
	return rec
}

func TestArtistFromAPI(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(2, 3))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}

	if artist.ID() != "Aboards" || artist.Name() != "Boards of Canada" {
		t.Errorf("identity = %q/%q; want Aboards/Boards of Canada", artist.ID(), artist.Name())
	}
	if artist.Kind() != KindArtist {
		t.Errorf("Kind() = %q; want %q", artist.Kind(), KindArtist)
	}
	if artist.IsFull() {
		t.Error("API-built artists start partial")
	}
	if len(artist.Songs) != 2 || len(artist.Albums) != 3 {
		t.Errorf("nested lists = %d songs, %d albums; want 2, 3", len(artist.Songs), len(artist.Albums))
	}
}

func TestArtistFromAPIOptionalListsAbsent(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(-1, -1))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}
	if len(artist.Songs) != 0 || len(artist.Albums) != 0 {
		t.Error("absent topTracks/albums must degrade to empty lists, not fail")
	}
}

func TestArtistFromAPIMissingFields(t *testing.T) {
	for _, field := range []string{"artistId", "name"} {
		t.Run(field, func(t *testing.T) {
			rec := apiArtistRecord(-1, -1)
			delete(rec, field)

			_, err := ArtistFromAPI(rec)
			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedRecordError, got %v", err)
			}
			if malformed.Field != field {
				t.Errorf("error field = %q; want %q", malformed.Field, field)
			}
		})
	}
}

func TestArtistFillIdempotent(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(-1, -1))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}

	calls := 0
	lookup := func(id string, limit int) (Record, error) {
		calls++
		if id != "Aboards" {
			t.Errorf("lookup id = %q; want %q", id, "Aboards")
		}
		if limit != 5 {
			t.Errorf("lookup limit = %d; want 5", limit)
		}
		return apiArtistRecord(2, 1), nil
	}

	if err := artist.Fill(lookup, 5); err != nil {
		t.Fatalf("Fill() error: %v", err)
	}
	if !artist.IsFull() {
		t.Error("Fill() must mark the artist full")
	}
	if len(artist.Songs) != 2 || len(artist.Albums) != 1 {
		t.Errorf("after fill: %d songs, %d albums; want 2, 1", len(artist.Songs), len(artist.Albums))
	}

	before := artist.ToRecord()
	if err := artist.Fill(lookup, 5); err != nil {
		t.Fatalf("second Fill() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("lookup called %d times; want 1 (second fill is a no-op)", calls)
	}
	if !reflect.DeepEqual(before, artist.ToRecord()) {
		t.Error("second Fill() changed observable state")
	}
}

func TestArtistFillEmptyRecordStillFull(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(-1, -1))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}

	lookup := func(string, int) (Record, error) {
		return apiArtistRecord(-1, -1), nil
	}
	if err := artist.Fill(lookup, 20); err != nil {
		t.Fatalf("Fill() error: %v", err)
	}
	if !artist.IsFull() {
		t.Error("an artist with genuinely no tracks or albums still becomes full")
	}
	if len(artist.Songs) != 0 || len(artist.Albums) != 0 {
		t.Error("empty nested lists must stay empty")
	}
}

func TestArtistCollectTruncation(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(5, 4))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}

	tests := []struct {
		name       string
		limit      int
		wantSongs  int
		wantAlbums int
	}{
		{"under_both", 3, 3, 3},
		{"between", 4, 4, 4},
		{"over_both", 20, 5, 4},
		{"zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := artist.Collect(tt.limit)
			if len(col.Songs) != tt.wantSongs {
				t.Errorf("len(Songs) = %d; want %d", len(col.Songs), tt.wantSongs)
			}
			if len(col.Albums) != tt.wantAlbums {
				t.Errorf("len(Albums) = %d; want %d", len(col.Albums), tt.wantAlbums)
			}
			if len(col.Artists) != 1 || col.Artists[0] != artist {
				t.Error("Collect() must return the artist itself")
			}
		})
	}

	if len(artist.Songs) != 5 || len(artist.Albums) != 4 {
		t.Error("Collect() mutated the artist's own lists")
	}
}

func TestArtistCollectDoesNotFill(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(-1, -1))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}

	col := artist.Collect(20)
	if len(col.Songs) != 0 || len(col.Albums) != 0 {
		t.Error("Collect() on a partial artist reports only what is materialized")
	}
	if artist.IsFull() {
		t.Error("Collect() must never transition an entity to full")
	}
}

func TestVerifyArtist(t *testing.T) {
	artist, err := ArtistFromAPI(apiArtistRecord(1, 1))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}
	rec := artist.ToRecord()

	if !VerifyArtist(rec) {
		t.Error("VerifyArtist must accept records produced by ToRecord")
	}
	for key := range rec {
		broken := Record{}
		for k, v := range rec {
			broken[k] = v
		}
		delete(broken, key)
		if VerifyArtist(broken) {
			t.Errorf("VerifyArtist accepted a record without %q", key)
		}
	}
}

// Serializing an artist to JSON and reparsing it must reproduce the same
// entity tree, nested songs and albums included.
func TestArtistJSONRoundTrip(t *testing.T) {
	built, err := ArtistFromAPI(apiArtistRecord(2, 2))
	if err != nil {
		t.Fatalf("ArtistFromAPI() error: %v", err)
	}
	first, err := ArtistFromRecord(built.ToRecord())
	if err != nil {
		t.Fatalf("ArtistFromRecord() error: %v", err)
	}

	data, err := json.Marshal(first.ToRecord())
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	second, err := ArtistFromRecord(decoded)
	if err != nil {
		t.Fatalf("ArtistFromRecord() after JSON error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("JSON round trip drifted:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}
