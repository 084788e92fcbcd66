package main

import (
	"flag"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"battlecode-client/internal/client"
	"battlecode-client/internal/version"
	"battlecode-client/pkg/logger"
)

// replayList collects repeated -replay flags.
type replayList []string

func (r *replayList) String() string { return strings.Join(*r, ",") }

func (r *replayList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	var replays replayList
	profile := flag.String("profile", "", "Profile name for separate config (e.g., dev, tournament)")
	server := flag.String("server", "", "Replay server address (saved to config)")
	stream := flag.String("stream", "", "Stream a replay stored on the server by id")
	live := flag.Bool("live", false, "Follow live runs on the server")
	mapFile := flag.String("map", "", "Open a .map23 file in the map editor")
	flag.Var(&replays, "replay", "Replay file to open (repeatable)")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")
	log.WithField("version", version.String()).Info("starting client")

	client.SetProfile(*profile)

	game, err := client.NewGame()
	if err != nil {
		log.WithError(err).Fatal("failed to create game")
	}
	defer game.Close()

	if *server != "" {
		game.Config().ServerURL = *server
	}
	game.CheckForUpdate()

	replays = append(replays, flag.Args()...)
	game.OpenReplays(replays...)

	switch {
	case *stream != "":
		if err := game.StreamReplay(*stream); err != nil {
			log.WithError(err).Error("failed to stream replay")
		}
	case *live:
		if err := game.WatchLive(); err != nil {
			log.WithError(err).Error("failed to watch live runs")
		}
	}
	if *mapFile != "" {
		if err := game.EditMap(*mapFile); err != nil {
			log.WithError(err).Error("failed to open map")
		}
	}

	width, height := client.ScreenWidth, client.ScreenHeight
	if cfg := game.Config(); cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		width, height = cfg.WindowWidth, cfg.WindowHeight
	}
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Battlecode Client")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("client exited")
	}
}
