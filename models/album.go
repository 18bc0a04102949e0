package models

import "fmt"

// Album is a release with an owning artist and a track list. The nested
// Artist is a minimal owned copy known only by id and name; it is never
// filled through the album. The track list may be absent until Fill runs.
type Album struct {
	entity
	Artist *Artist
	Songs  []*Song
}

// minimalAlbum builds the partial album a song embeds, carrying just enough
// to identify the release and its artist.
func minimalAlbum(id, name, artistID, artistName string) *Album {
	return &Album{
		entity: entity{id: id, name: name},
		Artist: minimalArtist(artistID, artistName),
	}
}

// AlbumFromAPI builds an Album from a raw API album record. A record
// without a tracks list yields a partial album with no songs.
func AlbumFromAPI(rec Record) (*Album, error) {
	id, ok := rec.str("albumId")
	if !ok {
		return nil, missingField(KindAlbum, "albumId")
	}
	name, ok := rec.str("name")
	if !ok {
		return nil, missingField(KindAlbum, "name")
	}
	artistID, ok := rec.artistID("artistId")
	if !ok {
		return nil, missingField(KindAlbum, "artistId")
	}
	artistName, ok := rec.str("artist")
	if !ok {
		return nil, missingField(KindAlbum, "artist")
	}

	album := &Album{
		entity: entity{id: id, name: name},
		Artist: minimalArtist(artistID, artistName),
	}

	if tracks, ok := rec.records("tracks"); ok {
		album.Songs = make([]*Song, 0, len(tracks))
		for _, t := range tracks {
			song, err := SongFromAPI(t)
			if err != nil {
				return nil, err
			}
			album.Songs = append(album.Songs, song)
		}
	}

	return album, nil
}

// AlbumFromRecord builds an Album from a persisted record.
func AlbumFromRecord(rec Record) (*Album, error) {
	id, ok := rec.str("id")
	if !ok {
		return nil, missingField(KindAlbum, "id")
	}
	name, ok := rec.str("name")
	if !ok {
		return nil, missingField(KindAlbum, "name")
	}
	full, ok := rec.flag("full")
	if !ok {
		return nil, missingField(KindAlbum, "full")
	}
	artistRec, ok := rec.record("artist")
	if !ok {
		return nil, missingField(KindAlbum, "artist")
	}
	artist, err := ArtistFromRecord(artistRec)
	if err != nil {
		return nil, err
	}
	songRecs, ok := rec.records("songs")
	if !ok {
		return nil, missingField(KindAlbum, "songs")
	}

	album := &Album{
		entity: entity{id: id, name: name, full: full},
		Artist: artist,
		Songs:  make([]*Song, 0, len(songRecs)),
	}
	for _, sr := range songRecs {
		song, err := SongFromRecord(sr)
		if err != nil {
			return nil, err
		}
		album.Songs = append(album.Songs, song)
	}

	return album, nil
}

// VerifyAlbum reports whether rec has every key a persisted album requires.
func VerifyAlbum(rec Record) bool {
	return hasKeys(rec, "id", "name", "kind", "full", "artist", "songs")
}

func (a *Album) Kind() Kind { return KindAlbum }

func (a *Album) String() string {
	return fmt.Sprintf("%s - %s", a.name, a.Artist.Name())
}

// Fill fetches the complete track list once. The limit is ignored; albums
// always materialize every track. Only the track list changes; the nested
// artist stays the minimal copy it was built with.
func (a *Album) Fill(lookup Lookup, limit int) error {
	if a.full {
		return nil
	}
	rec, err := lookup(a.id, limit)
	if err != nil {
		return err
	}
	fresh, err := AlbumFromAPI(rec)
	if err != nil {
		return err
	}
	a.Songs = fresh.Songs
	a.full = true
	return nil
}

func (a *Album) Collect(limit int) Collection {
	return Collection{
		Songs:   truncateSongs(a.Songs, limit),
		Artists: []*Artist{a.Artist},
		Albums:  []*Album{a},
	}
}

func (a *Album) ToRecord() Record {
	songs := make([]interface{}, 0, len(a.Songs))
	for _, s := range a.Songs {
		songs = append(songs, s.ToRecord())
	}
	return Record{
		"id":     a.id,
		"name":   a.name,
		"kind":   string(KindAlbum),
		"full":   a.full,
		"artist": a.Artist.ToRecord(),
		"songs":  songs,
	}
}
