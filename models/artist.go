package models

// Artist is a catalog artist with top tracks and albums. Both lists may be
// absent until Fill materializes them from the API; a minimal artist nested
// inside a song or album never has either.
type Artist struct {
	entity
	Songs  []*Song
	Albums []*Album
}

// minimalArtist builds the partial artist reference embedded in songs and
// albums.
func minimalArtist(id, name string) *Artist {
	return &Artist{entity: entity{id: id, name: name}}
}

// ArtistFromAPI builds an Artist from a raw API artist record. The
// topTracks and albums lists are optional; a record without them yields a
// partial artist with empty lists.
func ArtistFromAPI(rec Record) (*Artist, error) {
	id, ok := rec.str("artistId")
	if !ok {
		return nil, missingField(KindArtist, "artistId")
	}
	name, ok := rec.str("name")
	if !ok {
		return nil, missingField(KindArtist, "name")
	}

	artist := &Artist{entity: entity{id: id, name: name}}

	if tracks, ok := rec.records("topTracks"); ok {
		artist.Songs = make([]*Song, 0, len(tracks))
		for _, t := range tracks {
			song, err := SongFromAPI(t)
			if err != nil {
				return nil, err
			}
			artist.Songs = append(artist.Songs, song)
		}
	}
	if albums, ok := rec.records("albums"); ok {
		artist.Albums = make([]*Album, 0, len(albums))
		for _, a := range albums {
			album, err := AlbumFromAPI(a)
			if err != nil {
				return nil, err
			}
			artist.Albums = append(artist.Albums, album)
		}
	}

	return artist, nil
}

// ArtistFromRecord builds an Artist from a persisted record.
func ArtistFromRecord(rec Record) (*Artist, error) {
	id, ok := rec.str("id")
	if !ok {
		return nil, missingField(KindArtist, "id")
	}
	name, ok := rec.str("name")
	if !ok {
		return nil, missingField(KindArtist, "name")
	}
	full, ok := rec.flag("full")
	if !ok {
		return nil, missingField(KindArtist, "full")
	}
	songRecs, ok := rec.records("songs")
	if !ok {
		return nil, missingField(KindArtist, "songs")
	}
	albumRecs, ok := rec.records("albums")
	if !ok {
		return nil, missingField(KindArtist, "albums")
	}

	artist := &Artist{
		entity: entity{id: id, name: name, full: full},
		Songs:  make([]*Song, 0, len(songRecs)),
		Albums: make([]*Album, 0, len(albumRecs)),
	}
	for _, sr := range songRecs {
		song, err := SongFromRecord(sr)
		if err != nil {
			return nil, err
		}
		artist.Songs = append(artist.Songs, song)
	}
	for _, ar := range albumRecs {
		album, err := AlbumFromRecord(ar)
		if err != nil {
			return nil, err
		}
		artist.Albums = append(artist.Albums, album)
	}

	return artist, nil
}

// VerifyArtist reports whether rec has every key a persisted artist
// requires.
func VerifyArtist(rec Record) bool {
	return hasKeys(rec, "id", "name", "kind", "full", "songs", "albums")
}

func (a *Artist) Kind() Kind { return KindArtist }

func (a *Artist) String() string { return a.name }

// Fill fetches top tracks and albums once, with limit bounding the number
// of top tracks the API returns. Both lists are replaced wholesale; the
// identity fields never change.
func (a *Artist) Fill(lookup Lookup, limit int) error {
	if a.full {
		return nil
	}
	rec, err := lookup(a.id, limit)
	if err != nil {
		return err
	}
	fresh, err := ArtistFromAPI(rec)
	if err != nil {
		return err
	}
	a.Songs = fresh.Songs
	a.Albums = fresh.Albums
	a.full = true
	return nil
}

func (a *Artist) Collect(limit int) Collection {
	return Collection{
		Songs:   truncateSongs(a.Songs, limit),
		Artists: []*Artist{a},
		Albums:  truncateAlbums(a.Albums, limit),
	}
}

func (a *Artist) ToRecord() Record {
	songs := make([]interface{}, 0, len(a.Songs))
	for _, s := range a.Songs {
		songs = append(songs, s.ToRecord())
	}
	albums := make([]interface{}, 0, len(a.Albums))
	for _, al := range a.Albums {
		albums = append(albums, al.ToRecord())
	}
	return Record{
		"id":     a.id,
		"name":   a.name,
		"kind":   string(KindArtist),
		"full":   a.full,
		"songs":  songs,
		"albums": albums,
	}
}
