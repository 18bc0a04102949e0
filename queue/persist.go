package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/models"
)

// Write saves the queue to path as a JSON list of song records.
func (q *Queue) Write(path string) error {
	q.mutex.Lock()
	records := make([]models.Record, len(q.items))
	for i, item := range q.items {
		records[i] = item.Song.ToRecord()
	}
	q.mutex.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding queue: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing queue file: %w", err)
	}

	log.WithFields(log.Fields{
		"module": "queue",
		"method": "Write",
	}).Debugf("wrote %d songs to %s", len(records), path)
	return nil
}

// Restore replaces the queue with the songs saved at path. Records that do
// not verify as songs are skipped. It returns how many songs were restored
// and how many were skipped.
func (q *Queue) Restore(path string) (restored, skipped int, err error) {
	logger := log.WithFields(log.Fields{
		"module": "queue",
		"method": "Restore",
	})

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading queue file: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, 0, fmt.Errorf("decoding queue file: %w", err)
	}

	now := time.Now()
	items := make([]*Item, 0, len(records))
	for _, rec := range records {
		if !models.VerifySong(rec) {
			skipped++
			continue
		}
		song, err := models.SongFromRecord(rec)
		if err != nil {
			skipped++
			continue
		}
		items = append(items, &Item{Song: song, AddedAt: now})
	}

	q.mutex.Lock()
	q.items = items
	q.mutex.Unlock()

	if skipped > 0 {
		logger.Warnf("skipped %d unverifiable records in %s", skipped, path)
	}
	logger.Debugf("restored %d songs from %s", len(items), path)
	return len(items), skipped, nil
}
