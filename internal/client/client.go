// Package client is the ebiten replay viewer and map editor.
package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"battlecode-client/internal/app"
	"battlecode-client/internal/client/remote"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/replay"
	"battlecode-client/internal/version"
	"battlecode-client/pkg/logger"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720

	// SidebarWidth is the panel to the right of the board.
	SidebarWidth = 320

	statusDuration = 4 * time.Second

	// Frames applied per tick, so a fast stream cannot stall drawing.
	maxFramesPerTick = 256
)

// Scene represents a game screen/state.
type Scene interface {
	Update() error
	Draw(screen *ebiten.Image)
	OnEnter()
	OnExit()
}

// loadResult carries decoded replay files back to the UI goroutine.
type loadResult struct {
	ticket app.LoadTicket
	games  []*playback.Game
	errs   []error
}

// Game is the main Ebitengine game struct.
type Game struct {
	config   *Config
	network  *remote.NetworkClient
	receiver *remote.Receiver
	log      *logrus.Entry

	// State is owned by the Update goroutine.
	state app.State

	// Current scene
	currentScene Scene
	nextScene    Scene

	playbackScene *PlaybackScene
	editorScene   *EditorScene

	// Async results
	loads   chan loadResult
	updates chan version.Update

	netErr      error
	status      string
	statusUntil time.Time
	streamName  string
	runLine     string
	latest      string
}

// NewGame creates a new game instance.
func NewGame() (*Game, error) {
	log := logger.Component("client")

	config, err := LoadConfig()
	if err != nil {
		log.WithError(err).Warn("failed to load config, using defaults")
	}

	LoadSprites()
	InitClipboard()

	g := &Game{
		config:   config,
		network:  remote.NewNetworkClient(),
		receiver: remote.NewReceiver(),
		log:      log,
		state:    app.New(),
		loads:    make(chan loadResult, 4),
		updates:  make(chan version.Update, 1),
	}

	g.playbackScene = NewPlaybackScene(g)
	g.editorScene = NewEditorScene(g)

	g.currentScene = g.playbackScene
	g.currentScene.OnEnter()

	return g, nil
}

// State returns the current application state.
func (g *Game) State() app.State { return g.state }

// Config returns the client configuration.
func (g *Game) Config() *Config { return g.config }

// SetStatus shows a message in the status line for a few seconds.
func (g *Game) SetStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusUntil = time.Now().Add(statusDuration)
}

// Update handles game logic.
func (g *Game) Update() error {
	g.drainLoads()
	g.drainNetwork()
	g.pollUpdate()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && !g.editorScene.Typing() {
		if g.currentScene == g.editorScene {
			g.SetScene(g.playbackScene)
		} else {
			g.SetScene(g.editorScene)
		}
	}

	// Process scene transition
	if g.nextScene != nil {
		if g.currentScene != nil {
			g.currentScene.OnExit()
		}
		g.currentScene = g.nextScene
		g.nextScene = nil
		g.currentScene.OnEnter()
	}

	if g.currentScene != nil {
		return g.currentScene.Update()
	}
	return nil
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	if g.currentScene != nil {
		g.currentScene.Draw(screen)
	}
	g.drawStatusLine(screen)
}

func (g *Game) drawStatusLine(screen *ebiten.Image) {
	y := ScreenHeight - 20
	DrawPanel(screen, 0, y, ScreenWidth, 20)

	left := g.state.Page.String()
	if g.network.IsConnected() {
		left += " | connected"
		if g.receiver.Streaming() {
			left += " | streaming " + g.streamName
		}
	}
	if g.runLine != "" {
		left += " | " + g.runLine
	}
	DrawText(screen, left, 8, y+2, ColorTextMuted)

	right := version.Version
	if g.latest != "" {
		right = "update available: " + g.latest
	}
	if time.Now().Before(g.statusUntil) {
		right = g.status
	}
	DrawText(screen, right, ScreenWidth-8-len(right)*6, y+2, ColorText)
}

// Layout returns the game's screen dimensions.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// SetScene transitions to a new scene.
func (g *Game) SetScene(scene Scene) {
	g.nextScene = scene
}

// OpenReplays decodes replay files in the background and queues them.
// Starting another load supersedes this one.
func (g *Game) OpenReplays(paths ...string) {
	if len(paths) == 0 {
		return
	}
	var ticket app.LoadTicket
	g.state, ticket = g.state.BeginLoad()
	g.config.LastDir = filepath.Dir(paths[0])
	g.SetStatus("loading %d replay(s)", len(paths))

	go func() {
		res := loadResult{ticket: ticket}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err == nil {
				var pg *playback.Game
				if pg, err = replay.Decode(data); err == nil {
					res.games = append(res.games, pg)
					continue
				}
			}
			res.errs = append(res.errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
		}
		g.loads <- res
	}()
}

func (g *Game) drainLoads() {
	for {
		select {
		case res := <-g.loads:
			g.applyLoad(res)
		default:
			return
		}
	}
}

func (g *Game) applyLoad(res loadResult) {
	for _, err := range res.errs {
		g.log.WithError(err).Warn("failed to load replay")
		g.SetStatus("load failed: %v", err)
	}
	if len(res.games) == 0 {
		return
	}

	state, ok := g.state.CompleteLoad(res.ticket, res.games[0])
	if !ok {
		g.log.Debug("discarding superseded replay load")
		return
	}
	for _, pg := range res.games[1:] {
		state = state.WithGame(pg)
	}
	g.state = state
	g.SetStatus("loaded %d replay(s)", len(res.games))
	g.SetScene(g.playbackScene)
}

// StreamReplay plays a replay stored on the server as it arrives.
func (g *Game) StreamReplay(id string) error {
	addr, err := remote.StreamURL(g.config.ServerURL, id, -1)
	if err != nil {
		return err
	}
	return g.connect(addr)
}

// WatchLive follows the server's live channel, which streams every
// finished run.
func (g *Game) WatchLive() error {
	addr, err := remote.LiveURL(g.config.ServerURL)
	if err != nil {
		return err
	}
	return g.connect(addr)
}

func (g *Game) connect(addr string) error {
	g.receiver = remote.NewReceiver()
	if err := g.network.Connect(context.Background(), addr); err != nil {
		g.SetStatus("connect failed: %v", err)
		return err
	}
	g.log.WithField("addr", addr).Info("connected")
	return nil
}

func (g *Game) drainNetwork() {
	recv := g.network.Recv()
	for i := 0; i < maxFramesPerTick; i++ {
		select {
		case f, ok := <-recv:
			if !ok {
				if err := g.network.Err(); err != nil && err != g.netErr {
					g.netErr = err
					g.SetStatus("disconnected: %v", err)
				}
				return
			}
			g.applyFrame(f)
		default:
			return
		}
	}
}

func (g *Game) applyFrame(f remote.Frame) {
	u, err := g.receiver.Apply(f)
	if err != nil {
		g.log.WithError(err).Warn("stream failed")
		g.SetStatus("stream failed: %v", err)
		return
	}

	switch u.Kind {
	case remote.UpdateWelcome:
		g.SetStatus("server %s", u.Version)
	case remote.UpdateStarted:
		g.streamName = u.ReplayID
		if u.Summary != nil && len(u.Summary.Matches) > 0 {
			g.streamName = u.Summary.Matches[0].Map
		}
		g.SetStatus("receiving replay %s", g.streamName)
	case remote.UpdateFinished:
		g.state = g.state.WithGame(u.Game)
		if u.Match != nil {
			if state, err := g.state.WithActiveMatch(u.Match); err == nil {
				g.state = state
			}
		}
		g.SetStatus("replay %s ready", g.streamName)
		g.SetScene(g.playbackScene)
	case remote.UpdateRunStatus:
		g.SetStatus("run %s %s", u.Run.RunID, u.Run.Status)
		if u.Run.Error != "" {
			g.SetStatus("run %s failed: %s", u.Run.RunID, u.Run.Error)
		}
	case remote.UpdateRunOutput:
		g.runLine = u.Line
	case remote.UpdateServerError:
		g.SetStatus("server error: %v", u.Err)
	}
}

// CheckForUpdate asks the configured server for a newer release in the
// background.
func (g *Game) CheckForUpdate() {
	base, err := remote.HTTPBase(g.config.ServerURL)
	if err != nil {
		return
	}
	go func() {
		g.updates <- version.CheckForUpdate(context.Background(), nil, base)
	}()
}

func (g *Game) pollUpdate() {
	select {
	case u := <-g.updates:
		if u.Available {
			g.latest = u.Latest
		}
	default:
	}
}

// Close releases the connection and saves the config.
func (g *Game) Close() {
	g.network.Disconnect()
	w, h := ebiten.WindowSize()
	g.config.WindowWidth, g.config.WindowHeight = w, h
	if err := g.config.Save(); err != nil {
		g.log.WithError(err).Warn("failed to save config")
	}
}
