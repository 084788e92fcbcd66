package client

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"battlecode-client/internal/game"
	"battlecode-client/pkg/logger"
)

// spriteKey identifies one body sprite.
type spriteKey struct {
	team game.Team
	typ  game.BodyType
}

// Sprites holds the loaded body sprites.
var Sprites = make(map[spriteKey]*ebiten.Image)

// LoadSprites loads body sprites named like "carrier_red.png" from the
// first assets directory found. Missing files fall back to placeholders.
func LoadSprites() {
	log := logger.Component("assets")
	defer createPlaceholderSprites()

	dirs := []string{
		"internal/client/assets/bodies",
		"assets/bodies",
		"data/bodies",
	}
	var baseDir string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			baseDir = dir
			break
		}
	}
	if baseDir == "" {
		log.Debug("no sprite directory found, using placeholders")
		return
	}

	for _, typ := range game.BodyTypes {
		for _, team := range game.Teams {
			name := strings.ToLower(typ.String()) + "_" + strings.ToLower(team.String()) + ".png"
			data, err := os.ReadFile(filepath.Join(baseDir, name))
			if err != nil {
				continue
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				log.WithError(err).WithField("sprite", name).Warn("failed to decode sprite")
				continue
			}
			Sprites[spriteKey{team, typ}] = ebiten.NewImageFromImage(img)
		}
	}
	log.WithField("count", len(Sprites)).Info("loaded sprites")
}

// Sprite returns the sprite of a body, or nil when none was loaded.
func Sprite(team game.Team, typ game.BodyType) *ebiten.Image {
	return Sprites[spriteKey{team, typ}]
}

// createPlaceholderSprites fills in a team-colored square for every sprite
// that did not load.
func createPlaceholderSprites() {
	for _, typ := range game.BodyTypes {
		for _, team := range game.Teams {
			key := spriteKey{team, typ}
			if Sprites[key] == nil {
				Sprites[key] = createColoredSquare(placeholderSize, TeamColors[team])
			}
		}
	}
}

const placeholderSize = 16

func createColoredSquare(size int, c color.RGBA) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(c)
	return img
}
