package models

import "fmt"

// Song is a single playable track. Songs carry no lazy nested data, so they
// are always full from the moment they are constructed. The nested Artist
// and Album are minimal owned copies (id and name only), never references
// back to a full parent object.
type Song struct {
	entity
	Artist *Artist
	Album  *Album
	Time   string
}

// SongFromAPI builds a Song from a raw API track record.
func SongFromAPI(rec Record) (*Song, error) {
	id, ok := rec.str("storeId")
	if !ok {
		return nil, missingField(KindSong, "storeId")
	}
	title, ok := rec.str("title")
	if !ok {
		return nil, missingField(KindSong, "title")
	}
	artistName, ok := rec.str("artist")
	if !ok {
		return nil, missingField(KindSong, "artist")
	}
	artistID, ok := rec.artistID("artistId")
	if !ok {
		return nil, missingField(KindSong, "artistId")
	}
	albumName, ok := rec.str("album")
	if !ok {
		return nil, missingField(KindSong, "album")
	}
	albumID, ok := rec.str("albumId")
	if !ok {
		return nil, missingField(KindSong, "albumId")
	}
	ms, ok := rec.millis("durationMillis")
	if !ok {
		return nil, missingField(KindSong, "durationMillis")
	}

	return &Song{
		entity: entity{id: id, name: title, full: true},
		Artist: minimalArtist(artistID, artistName),
		Album:  minimalAlbum(albumID, albumName, artistID, artistName),
		Time:   TimeFromMS(ms),
	}, nil
}

// SongFromRecord builds a Song from a persisted record.
func SongFromRecord(rec Record) (*Song, error) {
	id, ok := rec.str("id")
	if !ok {
		return nil, missingField(KindSong, "id")
	}
	name, ok := rec.str("name")
	if !ok {
		return nil, missingField(KindSong, "name")
	}
	artistRec, ok := rec.record("artist")
	if !ok {
		return nil, missingField(KindSong, "artist")
	}
	artist, err := ArtistFromRecord(artistRec)
	if err != nil {
		return nil, err
	}
	albumRec, ok := rec.record("album")
	if !ok {
		return nil, missingField(KindSong, "album")
	}
	album, err := AlbumFromRecord(albumRec)
	if err != nil {
		return nil, err
	}
	songTime, ok := rec.str("time")
	if !ok {
		return nil, missingField(KindSong, "time")
	}

	return &Song{
		entity: entity{id: id, name: name, full: true},
		Artist: artist,
		Album:  album,
		Time:   songTime,
	}, nil
}

// VerifySong reports whether rec has every key a persisted song requires.
// Presence only; values are not type checked.
func VerifySong(rec Record) bool {
	return hasKeys(rec, "id", "name", "kind", "full", "artist", "album", "time")
}

func (s *Song) Kind() Kind { return KindSong }

func (s *Song) String() string {
	return fmt.Sprintf("%s - %s", s.name, s.Artist.Name())
}

// Fill is a no-op: songs never carry unpopulated nested data.
func (s *Song) Fill(Lookup, int) error { return nil }

func (s *Song) Collect(int) Collection {
	return Collection{
		Songs:   []*Song{s},
		Artists: []*Artist{s.Artist},
		Albums:  []*Album{s.Album},
	}
}

func (s *Song) ToRecord() Record {
	return Record{
		"id":     s.id,
		"name":   s.name,
		"kind":   string(KindSong),
		"full":   s.full,
		"artist": s.Artist.ToRecord(),
		"album":  s.Album.ToRecord(),
		"time":   s.Time,
	}
}
