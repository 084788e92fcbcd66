// Package runner plays matches through the engine scaffold's gradle build.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"battlecode-client/pkg/logger"
)

var (
	ErrInvalidRequest = errors.New("invalid run request")
	ErrNoReplay       = errors.New("run produced no replay")
)

// ReplayExt is the extension of replay files the engine writes.
const ReplayExt = ".bc23"

// Request names the players and maps of one run.
type Request struct {
	TeamA   string   `json:"team_a"`
	TeamB   string   `json:"team_b"`
	Maps    []string `json:"maps"`
	Profile bool     `json:"profile"`
}

// Validate checks that the request names both teams and at least one map.
func (r Request) Validate() error {
	if strings.TrimSpace(r.TeamA) == "" || strings.TrimSpace(r.TeamB) == "" {
		return fmt.Errorf("%w: both teams are required", ErrInvalidRequest)
	}
	if len(r.Maps) == 0 {
		return fmt.Errorf("%w: at least one map is required", ErrInvalidRequest)
	}
	for _, m := range r.Maps {
		if m == "" || strings.ContainsAny(m, ", ") {
			return fmt.Errorf("%w: bad map name %q", ErrInvalidRequest, m)
		}
	}
	return nil
}

// Runner invokes the scaffold. Command defaults to the gradle wrapper in
// ScaffoldPath.
type Runner struct {
	ScaffoldPath string
	Command      string
}

// New returns a runner for the scaffold at path.
func New(path string) *Runner {
	return &Runner{ScaffoldPath: path}
}

func (r *Runner) command() string {
	if r.Command != "" {
		return r.Command
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(r.ScaffoldPath, "gradlew.bat")
	}
	return filepath.Join(r.ScaffoldPath, "gradlew")
}

// Args returns the gradle arguments for a request.
func Args(req Request) []string {
	return []string{
		"run",
		"-PteamA=" + req.TeamA,
		"-PteamB=" + req.TeamB,
		"-Pmaps=" + strings.Join(req.Maps, ","),
		"-PenableProfiler=" + strconv.FormatBool(req.Profile),
	}
}

// Run plays the request and returns the path of the replay it wrote.
// Every output line of the engine is passed to onLine, which may be nil.
// Cancelling ctx kills the engine.
func (r *Runner) Run(ctx context.Context, req Request, onLine func(string)) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	log := logger.Component("runner").WithField("maps", strings.Join(req.Maps, ","))
	started := time.Now()

	cmd := exec.CommandContext(ctx, r.command(), Args(req)...)
	cmd.Dir = r.ScaffoldPath
	cmd.WaitDelay = 2 * time.Second
	out, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	cmd.Stderr = cmd.Stdout

	log.WithField("team_a", req.TeamA).WithField("team_b", req.TeamB).Info("starting match")
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start engine: %w", err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("run cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("engine failed: %w", err)
	}

	path, err := Newest(filepath.Join(r.ScaffoldPath, "matches"), started.Add(-2*time.Second))
	if err != nil {
		return "", err
	}
	log.WithField("replay", path).WithField("took", time.Since(started).Round(time.Millisecond)).Info("match finished")
	return path, nil
}

// Newest returns the most recently modified replay under dir that was
// written at or after since.
func Newest(dir string, since time.Time) (string, error) {
	var best string
	var bestTime time.Time
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ReplayExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if mt := info.ModTime(); !mt.Before(since) && (best == "" || mt.After(bestTime)) {
			best, bestTime = path, mt
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("%w in %s", ErrNoReplay, dir)
	}
	return best, nil
}
