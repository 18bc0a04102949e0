// Package commands parses and runs the commands typed at the prompt.
package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/config"
	"github.com/ftxrc/gpymusic/database"
	"github.com/ftxrc/gpymusic/gemini"
	"github.com/ftxrc/gpymusic/helpers"
	"github.com/ftxrc/gpymusic/lyrics"
	"github.com/ftxrc/gpymusic/models"
	"github.com/ftxrc/gpymusic/player"
	"github.com/ftxrc/gpymusic/queue"
	"github.com/ftxrc/gpymusic/sentryhelper"
	"github.com/ftxrc/gpymusic/writer"
)

// Catalog is the slice of the catalog client the command layer needs.
type Catalog interface {
	Search(ctx context.Context, query string, maxResults int) (models.Collection, error)
	LookupFor(ctx context.Context, kind models.Kind) models.Lookup
}

// Deps collects everything a Manager drives.
type Deps struct {
	Catalog Catalog
	Queue   *queue.Queue
	DB      *database.Database
	Player  *player.Player
	Lyrics  *lyrics.Client
	Writer  *writer.Writer
}

// Manager routes typed commands to their handlers. It remembers the last
// listing so commands can pick entities by number.
type Manager struct {
	catalog Catalog
	queue   *queue.Queue
	db      *database.Database
	player  *player.Player
	lyrics  *lyrics.Client
	writer  *writer.Writer
	hints   *Hints

	pager *writer.Pager
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		catalog: deps.Catalog,
		queue:   deps.Queue,
		db:      deps.DB,
		player:  deps.Player,
		lyrics:  deps.Lyrics,
		writer:  deps.Writer,
		hints:   NewHints(),
	}
}

// commandNames maps every alias to its canonical command.
var commandNames = map[string]string{
	"s": "search", "search": "search",
	"i": "info", "info": "info",
	"p": "play", "play": "play",
	"q": "queue", "queue": "queue",
	"w": "write", "write": "write",
	"r": "restore", "restore": "restore",
	"l": "lyrics", "lyrics": "lyrics",
	"g": "suggest", "suggest": "suggest",
	"hi": "history", "history": "history",
	"n": "next", "next": "next",
	"b": "back", "back": "back",
	"h": "help", "help": "help",
	"x": "exit", "exit": "exit", "quit": "exit",
}

// Handle runs one typed line. It reports whether the session should end.
func (m *Manager) Handle(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, ok := commandNames[strings.ToLower(fields[0])]
	if !ok {
		m.handleUnknown(fields[0])
		return false
	}
	args := fields[1:]

	ctx, transaction := sentryhelper.StartCommandTransaction(context.Background(), name)
	defer transaction.Finish()

	sentryhelper.AddBreadcrumb(ctx, &sentry.Breadcrumb{
		Category: "command",
		Message:  line,
		Level:    sentry.LevelInfo,
	})

	// A panic in one command should not take the session down.
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic handling %s: %v", name, r)
			log.Error(err)
			sentryhelper.CaptureException(ctx, err)
			m.writer.Errorf("Something went wrong running that command.")
		}
	}()

	log.Debugf("Received command: %s %v", name, args)

	switch name {
	case "search":
		m.handleSearch(ctx, args)
	case "info":
		m.handleInfo(ctx, args)
	case "play":
		m.handlePlay(ctx, args)
	case "queue":
		m.handleQueue(ctx, args)
	case "write":
		m.handleWrite(args)
	case "restore":
		m.handleRestore(args)
	case "lyrics":
		m.handleLyrics(ctx, args)
	case "suggest":
		m.handleSuggest(ctx)
	case "history":
		m.handleHistory(args)
	case "next":
		m.handleNext()
	case "back":
		m.handleBack()
	case "help":
		m.handleHelp()
	case "exit":
		m.writer.Goodbye("Thanks for listening!")
		return true
	}
	return false
}

func (m *Manager) handleUnknown(token string) {
	if suggestion := nearestCommand(token); suggestion != "" {
		m.writer.Hint(fmt.Sprintf("Unknown command %q. Did you mean %q?", token, suggestion))
		return
	}
	m.writer.Errorf("Unknown command %q. Type h for help.", token)
}

// nearestCommand suggests a canonical command sharing a prefix with the
// typed token.
func nearestCommand(token string) string {
	token = strings.ToLower(token)
	for _, name := range []string{
		"search", "info", "play", "queue", "write", "restore",
		"lyrics", "suggest", "history", "next", "back", "help", "exit",
	} {
		if strings.HasPrefix(name, token) || strings.HasPrefix(token, name) {
			return name
		}
	}
	return ""
}

func (m *Manager) handleSearch(ctx context.Context, args []string) {
	if len(args) == 0 {
		m.writer.Hint("Usage: s <query>")
		return
	}
	query := strings.Join(args, " ")

	results, err := m.catalog.Search(ctx, query, config.Config.Options.ResultCount)
	if err != nil {
		m.writer.Errorf("Search failed: %v", err)
		return
	}

	items := writer.Flatten(results)
	if len(items) == 0 {
		m.writer.Errorf("No results for %q.", query)
		return
	}

	m.pager = writer.NewPager(items, config.Config.Options.PageSize)
	m.writer.Page(m.pager)
	m.showHint()
}

func (m *Manager) handleInfo(ctx context.Context, args []string) {
	obj, ok := m.pick(args, "i <number>")
	if !ok {
		return
	}

	if !obj.IsFull() {
		lookup := m.catalog.LookupFor(ctx, obj.Kind())
		if err := obj.Fill(lookup, config.Config.Options.MaxTopTracks); err != nil {
			sentryhelper.CaptureException(ctx, err)
			m.writer.Errorf("Could not load %s: %v", obj, err)
			return
		}
	}

	items := writer.Flatten(obj.Collect(config.Config.Options.ResultCount))
	m.pager = writer.NewPager(items, config.Config.Options.PageSize)
	m.writer.Page(m.pager)
}

func (m *Manager) handlePlay(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		m.playQueue()
	case args[0] == "s":
		m.queue.Shuffle()
		m.playQueue()
	default:
		obj, ok := m.pick(args, "p [s|<number>]")
		if !ok {
			return
		}
		songs, err := m.expandForPlay(ctx, obj)
		if err != nil {
			sentryhelper.CaptureException(ctx, err)
			m.writer.Errorf("Could not load %s: %v", obj, err)
			return
		}
		if len(songs) == 0 {
			m.writer.Errorf("Nothing to play for %s.", obj)
			return
		}
		m.playSongs(songs)
	}
}

// playQueue plays the queue and drops what finished, so the next p picks
// up where a quit left off.
func (m *Manager) playQueue() {
	songs := m.queue.Songs()
	if len(songs) == 0 {
		m.writer.Errorf("The queue is empty.")
		return
	}
	resume := m.playSongs(songs)
	m.queue.DropPlayed(resume)
}

// playSongs runs the player and records what actually played. It returns
// the player's resume index.
func (m *Manager) playSongs(songs []*models.Song) int {
	resume, err := m.player.Play(songs)
	if err != nil {
		var confErr *player.MissingPlayerConfigError
		if !errors.As(err, &confErr) {
			m.writer.Errorf("Playback failed: %v", err)
		}
		return 0
	}

	played := len(songs)
	if resume > 0 {
		played = resume - 1
	}
	if m.db != nil {
		for _, song := range songs[:played] {
			if err := m.db.RecordPlay(song); err != nil {
				log.Warnf("failed to record play: %v", err)
			}
		}
	}
	return resume
}

// expandForPlay turns a picked entity into the songs the player runs.
// Partial artists and albums are filled first.
func (m *Manager) expandForPlay(ctx context.Context, obj models.MusicObject) ([]*models.Song, error) {
	switch v := obj.(type) {
	case *models.Song:
		return []*models.Song{v}, nil
	case *models.Album:
		if err := v.Fill(m.catalog.LookupFor(ctx, models.KindAlbum), 0); err != nil {
			return nil, err
		}
		return v.Songs, nil
	case *models.Artist:
		if err := v.Fill(m.catalog.LookupFor(ctx, models.KindArtist), config.Config.Options.MaxTopTracks); err != nil {
			return nil, err
		}
		return v.Songs, nil
	default:
		return nil, fmt.Errorf("cannot play a %s", obj.Kind())
	}
}

func (m *Manager) handleQueue(ctx context.Context, args []string) {
	if len(args) == 0 {
		if m.queue.IsEmpty() {
			m.writer.Errorf("The queue is empty.")
			return
		}
		m.pager = writer.NewPager(
			writer.Flatten(models.Collection{Songs: m.queue.Songs()}),
			config.Config.Options.PageSize,
		)
		m.writer.Page(m.pager)
		return
	}

	switch args[0] {
	case "c":
		m.queue.Clear()
		m.writer.Infof("Queue cleared.")
	case "s":
		m.queue.Shuffle()
		m.writer.Infof("Queue shuffled.")
	case "r":
		if len(args) < 2 {
			m.writer.Hint("Usage: q r <number>")
			return
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			m.writer.Errorf("%q is not a queue position.", args[1])
			return
		}
		removed, ok := m.queue.Remove(index)
		if !ok {
			m.writer.Errorf("No song at queue position %d.", index)
			return
		}
		m.writer.Infof("Removed %s.", removed)
	default:
		obj, ok := m.pick(args, "q [c|s|r <number>|<number>]")
		if !ok {
			return
		}
		added, err := m.queue.Append(obj, m.catalog.LookupFor(ctx, obj.Kind()), config.Config.Options.MaxTopTracks)
		if err != nil {
			if errors.Is(err, queue.ErrNotQueueable) {
				m.writer.Errorf("Only songs and albums can be queued.")
				return
			}
			sentryhelper.CaptureException(ctx, err)
			m.writer.Errorf("Could not queue %s: %v", obj, err)
			return
		}
		if added == 1 {
			m.writer.Infof("Added %s to the queue.", obj)
		} else {
			m.writer.Infof("Added %d songs to the queue.", added)
		}
		m.showHint()
	}
}

func (m *Manager) handleWrite(args []string) {
	path, err := m.queueFile(args)
	if err != nil {
		m.writer.Errorf("%v", err)
		return
	}
	if err := m.queue.Write(path); err != nil {
		m.writer.Errorf("Could not write the queue: %v", err)
		return
	}
	m.writer.Infof("Wrote %d songs to %s.", m.queue.Len(), path)
}

func (m *Manager) handleRestore(args []string) {
	path, err := m.queueFile(args)
	if err != nil {
		m.writer.Errorf("%v", err)
		return
	}
	restored, skipped, err := m.queue.Restore(path)
	if err != nil {
		m.writer.Errorf("Could not restore the queue: %v", err)
		return
	}
	if skipped > 0 {
		m.writer.Errorf("Skipped %d entries that did not look like songs.", skipped)
	}
	m.writer.Infof("Restored %d songs from %s.", restored, path)
}

// queueFile resolves the queue file path, defaulting to queue.json in the
// config directory.
func (m *Manager) queueFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("no path given and no config directory: %w", err)
	}
	return filepath.Join(dir, "queue.json"), nil
}

func (m *Manager) handleLyrics(ctx context.Context, args []string) {
	obj, ok := m.pick(args, "l <number>")
	if !ok {
		return
	}
	song, isSong := obj.(*models.Song)
	if !isSong {
		m.writer.Errorf("Lyrics are only available for songs.")
		return
	}

	text, err := m.lyrics.Lyrics(ctx, song.Artist.Name(), song.Name())
	if err != nil {
		if errors.Is(err, lyrics.ErrNotFound) {
			m.writer.Errorf("No lyrics found for %s.", song)
			return
		}
		m.writer.Errorf("Lyrics lookup failed: %v", err)
		return
	}

	m.writer.Infof("%s\n\n%s", song, text)
}

func (m *Manager) handleSuggest(ctx context.Context) {
	if m.db == nil {
		m.writer.Errorf("Play history is unavailable.")
		return
	}
	suggestions, err := helpers.Suggestions(ctx, m.db, config.Config.Options.ResultCount)
	if err != nil {
		if errors.Is(err, gemini.ErrDisabled) {
			m.writer.Hint("Suggestions are not enabled. Set GEMINI_ENABLED=true and GEMINI_API_KEY.")
			return
		}
		m.writer.Errorf("Could not get suggestions: %v", err)
		return
	}

	m.writer.Infof("You might enjoy:")
	for i, s := range suggestions {
		m.writer.Infof("%3d %s", i+1, s)
	}
}

func (m *Manager) handleHistory(args []string) {
	if m.db == nil {
		m.writer.Errorf("Play history is unavailable.")
		return
	}

	top := false
	if len(args) > 0 && args[0] == "top" {
		top = true
		args = args[1:]
	}
	limit := config.Config.Options.ResultCount
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			limit = n
		}
	}

	if top {
		records, err := m.db.MostPlayed(limit)
		if err != nil {
			m.writer.Errorf("Could not read history: %v", err)
			return
		}
		if len(records) == 0 {
			m.writer.Infof("Nothing played yet.")
			return
		}
		for i, r := range records {
			m.writer.Infof("%3d %s - %s (%d plays)", i+1, r.Artist, r.Title, r.PlayCount)
		}
		return
	}

	records, err := m.db.RecentPlays(limit)
	if err != nil {
		m.writer.Errorf("Could not read history: %v", err)
		return
	}
	if len(records) == 0 {
		m.writer.Infof("Nothing played yet.")
		return
	}

	for i, r := range records {
		m.writer.Infof("%3d %s - %s (%s)", i+1, r.Artist, r.Title, r.Duration)
	}
}

func (m *Manager) handleNext() {
	if m.pager == nil {
		m.writer.Hint("Nothing to page through.")
		return
	}
	if !m.pager.Next() {
		m.writer.Hint("Already on the last page.")
		return
	}
	m.writer.Page(m.pager)
}

func (m *Manager) handleBack() {
	if m.pager == nil {
		m.writer.Hint("Nothing to page through.")
		return
	}
	if !m.pager.Back() {
		m.writer.Hint("Already on the first page.")
		return
	}
	m.writer.Page(m.pager)
}

func (m *Manager) handleHelp() {
	m.writer.Infof(`Commands:
  s <query>       search the catalog
  i <number>      expand an artist or album from the last listing
  p               play the queue
  p s             shuffle the queue, then play it
  p <number>      play a song, album or artist from the last listing
  q               show the queue
  q <number>      queue a song or album from the last listing
  q r <number>    remove a song from the queue
  q s             shuffle the queue
  q c             clear the queue
  w [path]        write the queue to a file
  r [path]        restore the queue from a file
  l <number>      show lyrics for a song from the last listing
  g               suggest songs based on your play history
  hi [count]      show recently played songs
  hi top [count]  show your most played songs
  n / b           page forward / back through the last listing
  h               show this help
  x               exit`)
}

// pick resolves a numeric argument against the last listing.
func (m *Manager) pick(args []string, usage string) (models.MusicObject, bool) {
	if len(args) == 0 {
		m.writer.Hint("Usage: " + usage)
		return nil, false
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		m.writer.Errorf("%q is not a listing number.", args[0])
		return nil, false
	}
	if m.pager == nil {
		m.writer.Hint("Search for something first.")
		return nil, false
	}
	obj, ok := m.pager.Item(index)
	if !ok {
		m.writer.Errorf("No entry %d in the last listing.", index)
		return nil, false
	}
	return obj, true
}

func (m *Manager) showHint() {
	if hint, show := m.hints.ShouldShowHint(); show {
		m.writer.Hint(hint)
	}
}
