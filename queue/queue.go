// Package queue holds the play queue and persists it between sessions.
package queue

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/models"
)

// ErrNotQueueable is returned when something other than a song or an album
// is appended. Artists are browsed, not queued.
var ErrNotQueueable = errors.New("only songs and albums can be queued")

// Item is one queued song with the time it was added.
type Item struct {
	Song    *models.Song
	AddedAt time.Time
}

// Queue is an ordered list of songs waiting to play. All methods are safe
// for concurrent use.
type Queue struct {
	mutex sync.Mutex
	items []*Item
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Append adds an entity's songs to the queue. A song is appended as itself.
// An album is filled through lookup first if it is still partial, then all
// of its tracks are appended. Anything else is rejected. It returns how
// many songs were added.
func (q *Queue) Append(obj models.MusicObject, lookup models.Lookup, limit int) (int, error) {
	var songs []*models.Song

	switch v := obj.(type) {
	case *models.Song:
		songs = []*models.Song{v}
	case *models.Album:
		if err := v.Fill(lookup, limit); err != nil {
			return 0, err
		}
		songs = v.Songs
	default:
		return 0, ErrNotQueueable
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	now := time.Now()
	for _, song := range songs {
		q.items = append(q.items, &Item{Song: song, AddedAt: now})
	}

	log.WithFields(log.Fields{
		"module": "queue",
		"method": "Append",
	}).Tracef("added %d songs, queue now holds %d", len(songs), len(q.items))
	return len(songs), nil
}

// Remove drops the song at the 1-based index and returns it.
func (q *Queue) Remove(index int) (*models.Song, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if index < 1 || index > len(q.items) {
		return nil, false
	}

	removed := q.items[index-1]
	q.items = append(q.items[:index-1], q.items[index:]...)
	return removed.Song, true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.items = nil
	log.WithFields(log.Fields{"module": "queue"}).Debug("queue cleared")
}

// Shuffle reorders the queue randomly.
func (q *Queue) Shuffle() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// DropPlayed removes the songs a finished playback session got through.
// resume carries the player's result: 0 means everything played, otherwise
// it is the 1-based index of the song to keep for next time.
func (q *Queue) DropPlayed(resume int) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if resume < 1 {
		q.items = nil
		return
	}
	if resume > len(q.items) {
		return
	}
	q.items = q.items[resume-1:]
}

// Len reports how many songs are queued.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.items)
}

// IsEmpty reports whether the queue has no songs.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Songs returns a snapshot of the queued songs in play order.
func (q *Queue) Songs() []*models.Song {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	songs := make([]*models.Song, len(q.items))
	for i, item := range q.items {
		songs[i] = item.Song
	}
	return songs
}
