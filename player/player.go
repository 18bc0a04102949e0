// Package player drives an ordered list of songs through the external mpv
// process, one blocking invocation per song, and turns mpv's quit exit code
// into a resumable queue position.
package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/models"
)

// QuitExitCode is the exit status mpv reports when the user presses the
// quit keybinding defined in mpv_input.conf ("q quit 11"). Any other exit
// code, including ordinary playback errors, moves on to the next song.
const QuitExitCode = 11

// MissingPlayerConfigError means the mpv input configuration file does not
// exist. Playback refuses to start without it.
type MissingPlayerConfigError struct {
	Path string
}

func (e *MissingPlayerConfigError) Error() string {
	return fmt.Sprintf("no mpv input configuration found at %s", e.Path)
}

// Player sequences playback. Every collaborator is an injected func so the
// sequencing logic is testable without a network or a child process.
type Player struct {
	// StreamURL resolves a song id to a playable URL.
	StreamURL func(songID string) (string, error)
	// Run blocks until the player process exits and reports its exit
	// code. The default launches mpv.
	Run func(url, inputConf string) (int, error)
	// NowPlaying receives one progress line per song.
	NowPlaying func(msg string)
	// Goodbye receives the fatal message when the input conf is missing.
	Goodbye func(msg string)
	// InputConf is the path to mpv's input configuration file.
	InputConf string

	logger *log.Entry
}

func New(inputConf string, streamURL func(string) (string, error), nowPlaying, goodbye func(string)) *Player {
	return &Player{
		StreamURL:  streamURL,
		Run:        RunMPV,
		NowPlaying: nowPlaying,
		Goodbye:    goodbye,
		InputConf:  inputConf,
		logger: log.WithFields(log.Fields{
			"module": "player",
		}),
	}
}

// Play runs the songs in order. The returned index is 1-based and marks the
// song to resume from after a mid-run quit; 0 means nothing to resume,
// which covers a full run, an empty list, and a quit on the final song.
//
// The input configuration is checked once, before any lookup or process
// launch. Stream resolution and process launch failures propagate
// unmodified and carry no resume position.
func (p *Player) Play(songs []*models.Song) (int, error) {
	if _, err := os.Stat(p.InputConf); err != nil {
		confErr := &MissingPlayerConfigError{Path: p.InputConf}
		p.logger.Errorf("%v", confErr)
		sentry.CaptureException(confErr)
		p.Goodbye("No mpv_input.conf found.")
		return 0, confErr
	}

	p.logger.Debugf("playing %d songs", len(songs))

	for i, song := range songs {
		url, err := p.StreamURL(song.ID())
		if err != nil {
			p.logger.Errorf("resolving stream for %s: %v", song.ID(), err)
			sentry.CaptureException(err)
			return 0, err
		}

		p.NowPlaying(fmt.Sprintf("(%d/%d) %s (%s)", i+1, len(songs), song, song.Time))

		code, err := p.Run(url, p.InputConf)
		if err != nil {
			p.logger.Errorf("launching player: %v", err)
			sentry.CaptureException(err)
			return 0, err
		}

		if code == QuitExitCode {
			p.logger.Tracef("quit signal on song %d of %d", i+1, len(songs))
			if i+1 < len(songs) {
				return i + 1, nil
			}
			// Quitting on the last song is normal completion.
			return 0, nil
		}
	}

	return 0, nil
}

// RunMPV launches mpv against url with the given input configuration and
// blocks until it exits. The terminal is handed to mpv so its keybindings
// work; a non-zero exit status is reported as the code, not as an error.
func RunMPV(url, inputConf string) (int, error) {
	mpv := exec.Command("mpv", "--really-quiet", "--input-conf", inputConf, url)
	mpv.Stdin = os.Stdin
	mpv.Stdout = os.Stdout
	mpv.Stderr = os.Stderr

	if err := mpv.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}
