package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/ftxrc/gpymusic/config"
	"github.com/ftxrc/gpymusic/models"
)

type Database struct {
	db *sql.DB
}

type PlayRecord struct {
	ID       int64
	SongID   string
	Title    string
	Artist   string
	Album    string
	Duration string
	PlayedAt time.Time
}

type MostPlayedRecord struct {
	SongID     string
	Title      string
	Artist     string
	PlayCount  int
	LastPlayed time.Time
}

// New opens the play history database. The path comes from DB_PATH, or
// history.db inside the user's config directory when unset.
func New() (*Database, error) {
	dbPath := config.Config.Options.DBPath
	if dbPath == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		dbPath = filepath.Join(dir, "history.db")
	}

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infof("Play history database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS play_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			song_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			played_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_play_history_played_at ON play_history(played_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_play_history_song_id ON play_history(song_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// playedAtFormat is RFC 3339 with a fixed-width fraction so the stored
// strings sort chronologically under SQLite's text comparison.
const playedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RecordPlay inserts a history row for a song that just played.
func (d *Database) RecordPlay(song *models.Song) error {
	_, err := d.db.Exec(
		`INSERT INTO play_history (song_id, title, artist, album, duration, played_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		song.ID(), song.Name(), song.Artist.Name(), song.Album.Name(), song.Time,
		time.Now().UTC().Format(playedAtFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// RecentPlays returns the most recent plays, newest first.
func (d *Database) RecentPlays(limit int) ([]PlayRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.db.Query(
		`SELECT id, song_id, title, artist, album, duration, played_at
		 FROM play_history
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []PlayRecord
	for rows.Next() {
		var r PlayRecord
		var playedAt string
		if err := rows.Scan(&r.ID, &r.SongID, &r.Title, &r.Artist, &r.Album,
			&r.Duration, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.PlayedAt = parsePlayedAt(playedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MostPlayed returns the songs with the most history rows.
func (d *Database) MostPlayed(limit int) ([]MostPlayedRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.db.Query(
		`SELECT song_id, title, artist, COUNT(*) as play_count, MAX(played_at) as last_played
		 FROM play_history
		 GROUP BY song_id
		 ORDER BY play_count DESC, last_played DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query most played: %w", err)
	}
	defer rows.Close()

	var records []MostPlayedRecord
	for rows.Next() {
		var r MostPlayedRecord
		var lastPlayed string
		if err := rows.Scan(&r.SongID, &r.Title, &r.Artist, &r.PlayCount, &lastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan most played row: %w", err)
		}
		r.LastPlayed = parsePlayedAt(lastPlayed)
		records = append(records, r)
	}
	return records, rows.Err()
}

// parsePlayedAt handles the timestamp formats SQLite may hand back,
// depending on whether the row was inserted by us or defaulted by the
// engine.
func parsePlayedAt(value string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t
		}
	}
	log.Warnf("failed to parse played_at timestamp '%s' with all known formats", value)
	return time.Now()
}
