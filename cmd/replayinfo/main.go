// Command replayinfo inspects a replay file without a window: it prints the
// game summary and can dump turns, export profiles, recompress the replay
// and extract match maps.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/profiler"
	"battlecode-client/internal/replay"
	"battlecode-client/pkg/logger"
	"battlecode-client/pkg/maps"
)

func main() {
	matchNum := flag.Int("match", 1, "Match number for -dump, -speedscope and -map")
	dump := flag.Int("dump", -1, "Print the map and bodies at this turn")
	speedscope := flag.String("speedscope", "", "Directory to write speedscope profiles to")
	team := flag.String("team", "all", "Team to export profiles for: red, blue or all")
	mapOut := flag.String("map", "", "Write the match's starting map to this .map23 file")
	recompress := flag.String("recompress", "", "Write the replay gzip-compressed to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: replayinfo [flags] <replay.bc23>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Init()
	log := logger.Component("replayinfo")

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.WithError(err).Fatal("failed to read replay")
	}
	g, err := replay.Decode(data)
	if err != nil {
		log.WithError(err).Fatal("failed to decode replay")
	}

	out, err := json.MarshalIndent(replay.Summarize(g), "", "  ")
	if err != nil {
		log.WithError(err).Fatal("failed to encode summary")
	}
	fmt.Println(string(out))

	matches := g.Matches()
	if *matchNum < 1 || *matchNum > len(matches) {
		log.WithField("match", *matchNum).Fatalf("replay has %d match(es)", len(matches))
	}
	m := matches[*matchNum-1]

	if *dump >= 0 {
		m.JumpToTurn(*dump)
		fmt.Print(m.CurrentTurn().String())
	}

	if *speedscope != "" {
		if err := exportProfiles(g, m, *speedscope, *team); err != nil {
			log.WithError(err).Fatal("failed to export profiles")
		}
	}

	if *mapOut != "" {
		initial := m.InitialTurn()
		buf, err := maps.Export(initial.Map, initial.Bodies.Initial(), m.StaticMap().Name())
		if err != nil {
			log.WithError(err).Fatal("failed to export map")
		}
		if err := os.WriteFile(*mapOut, buf, 0644); err != nil {
			log.WithError(err).Fatal("failed to write map")
		}
		log.WithField("path", *mapOut).Info("wrote map")
	}

	if *recompress != "" {
		buf, err := replay.Encode(g, replay.Options{Compress: true})
		if err != nil {
			log.WithError(err).Fatal("failed to encode replay")
		}
		if err := os.WriteFile(*recompress, buf, 0644); err != nil {
			log.WithError(err).Fatal("failed to write replay")
		}
		log.WithField("path", *recompress).WithField("bytes", len(buf)).Info("wrote replay")
	}
}

func exportProfiles(g *playback.Game, m *playback.Match, dir, team string) error {
	if len(m.Profiles) == 0 {
		return fmt.Errorf("match has no profiler data")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, f := range m.Profiles {
		t := game.Teams[i%len(game.Teams)]
		if team != "all" && !strings.EqualFold(team, t.String()) {
			continue
		}
		name := t.String()
		if info, ok := g.Team(t); ok && info.Name != "" {
			name = info.Name
		}
		data, err := profiler.MarshalSpeedscope(f, name)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("profile-match%d-%s.json", g.MatchIndex(m)+1, t))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		logger.Log.WithField("path", path).Info("wrote profile")
	}
	return nil
}
