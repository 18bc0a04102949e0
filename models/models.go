// Package models holds the catalog entity types shared by the whole client:
// songs, albums and artists, normalized from either the streaming API's raw
// records or from this client's own persisted records.
package models

import (
	"fmt"
	"hash/fnv"
)

type Kind string

const (
	KindSong   Kind = "song"
	KindArtist Kind = "artist"
	KindAlbum  Kind = "album"
)

// Lookup fetches the raw API record for an entity id. The limit bounds how
// many top tracks are returned for artist lookups; album and song lookups
// ignore it.
type Lookup func(id string, limit int) (Record, error)

// MusicObject is the capability set shared by Song, Album and Artist.
// Callers that only need to display or queue entities work against this
// interface and never switch on the concrete kind.
type MusicObject interface {
	ID() string
	Name() string
	Kind() Kind
	// IsFull reports whether nested song/album lists have been populated.
	// Songs are always full; artists and albums may start partial.
	IsFull() bool
	// Fill hydrates a partial entity through the given lookup, exactly
	// once. Calling Fill on an already-full entity is a no-op.
	Fill(lookup Lookup, limit int) error
	// Collect projects the entity into parallel song/artist/album lists,
	// each truncated to limit items. It never triggers a Fill.
	Collect(limit int) Collection
	// ToRecord emits the persisted record shape, recursively.
	ToRecord() Record
	Hash() uint64
	fmt.Stringer
}

// Collection is the uniform cross-kind projection produced by Collect.
type Collection struct {
	Songs   []*Song
	Artists []*Artist
	Albums  []*Album
}

// entity carries the identity fields every kind shares. Equality and
// hashing go by id alone, never by name or kind.
type entity struct {
	id   string
	name string
	full bool
}

func (e *entity) ID() string   { return e.id }
func (e *entity) Name() string { return e.name }
func (e *entity) IsFull() bool { return e.full }

func (e *entity) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(e.id))
	return h.Sum64()
}

// Equal reports whether two entities refer to the same catalog item.
func Equal(a, b MusicObject) bool {
	return a.ID() == b.ID()
}

// TimeFromMS renders a millisecond duration as mm:ss. Minutes are not
// wrapped into hours, so a one hour track reads "60:00".
func TimeFromMS(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func truncateSongs(songs []*Song, limit int) []*Song {
	if limit < 0 {
		limit = 0
	}
	if limit > len(songs) {
		limit = len(songs)
	}
	out := make([]*Song, limit)
	copy(out, songs[:limit])
	return out
}

func truncateAlbums(albums []*Album, limit int) []*Album {
	if limit < 0 {
		limit = 0
	}
	if limit > len(albums) {
		limit = len(albums)
	}
	out := make([]*Album, limit)
	copy(out, albums[:limit])
	return out
}
