package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/catalog"
	"github.com/ftxrc/gpymusic/commands"
	appConfig "github.com/ftxrc/gpymusic/config"
	"github.com/ftxrc/gpymusic/database"
	"github.com/ftxrc/gpymusic/lyrics"
	"github.com/ftxrc/gpymusic/player"
	"github.com/ftxrc/gpymusic/queue"
	"github.com/ftxrc/gpymusic/sentry"
	"github.com/ftxrc/gpymusic/writer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	log.SetFormatter(&nested.Formatter{
		TimestampFormat: time.RFC3339,
		HideKeys:        false,
		FieldsOrder:     []string{"module", "method"},
	})

	appConfig.NewConfig()

	// Logs share the terminal with the prompt, so default to quiet.
	if level, err := log.ParseLevel(appConfig.Config.Options.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	sentry.Init()

	if err := run(context.Background()); err != nil {
		sentry.ReportError(err)
		sentry.Flush()
		log.Fatal(err)
	}
	sentry.Flush()
}

func run(ctx context.Context) error {
	// mpv's quit keybinding is how playback reports a resumable stop, so
	// refuse to start without the input conf.
	inputConf, err := appConfig.MPVInputConf()
	if err != nil {
		return err
	}
	if _, err := os.Stat(inputConf); err != nil {
		return fmt.Errorf("no mpv_input.conf found at %s; create it with a \"q quit 11\" binding", inputConf)
	}

	client, err := catalog.NewClient(ctx)
	if err != nil {
		return err
	}

	db, err := database.New()
	if err != nil {
		log.Warnf("play history disabled: %v", err)
	} else {
		defer db.Close()
	}

	out := writer.New()

	p := player.New(inputConf,
		func(songID string) (string, error) { return client.StreamURL(ctx, songID) },
		out.NowPlaying, out.Goodbye)

	manager := commands.NewManager(commands.Deps{
		Catalog: client,
		Queue:   queue.New(),
		DB:      db,
		Player:  p,
		Lyrics:  lyrics.New(),
		Writer:  out,
	})

	out.Infof("Type h for help.")

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if manager.Handle(scanner.Text()) {
			return nil
		}
		fmt.Print("> ")
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// EOF from Ctrl-D ends the session like a typed exit.
	fmt.Println()
	out.Goodbye("Thanks for listening!")
	return nil
}
