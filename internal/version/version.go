// Package version reports the build version and checks a server for a
// newer client release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"battlecode-client/internal/game"
	"battlecode-client/pkg/logger"
)

// Set with -ldflags "-X battlecode-client/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// CheckTimeout bounds the update check.
const CheckTimeout = 5 * time.Second

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildDate   string `json:"build_date"`
	SpecVersion string `json:"spec_version"`
}

// Info returns the build information.
func Info() BuildInfo {
	return BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, SpecVersion: game.SpecVersion}
}

// String formats the build information on one line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, replay format %s)", Version, Commit, BuildDate, game.SpecVersion)
}

// Update is the result of an update check.
type Update struct {
	Available bool
	Latest    string
}

// CheckForUpdate asks the server at baseURL for its version. Any failure is
// logged at debug level and reported as no update.
func CheckForUpdate(ctx context.Context, client *http.Client, baseURL string) Update {
	latest, err := fetch(ctx, client, baseURL)
	if err != nil {
		logger.Log.WithError(err).Debug("update check failed")
		return Update{}
	}
	return Update{Available: Newer(latest, Version), Latest: latest}
}

func fetch(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/version", nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("version endpoint returned %s", resp.Status)
	}

	var info BuildInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}
	if info.Version == "" {
		return "", fmt.Errorf("version endpoint returned no version")
	}
	return info.Version, nil
}

// Newer reports whether version a is a release later than b. Versions are
// dotted numbers with an optional leading "v"; anything else, including
// "dev", never compares as newer.
func Newer(a, b string) bool {
	pa, ok := parse(a)
	if !ok {
		return false
	}
	pb, ok := parse(b)
	if !ok {
		return true
	}
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			return x > y
		}
	}
	return false
}

func parse(v string) ([]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
