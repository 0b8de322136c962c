package description

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/sprite"
)

// SpriteIDFile names the file holding a tile directory's sprite chunk id.
const SpriteIDFile = "sprite id.json"

// TilesDir returns the directory holding the split sprite tiles of an object
// variant. An empty variant names the base object.
func TilesDir(sourceDir, object, variant string) string {
	name := object
	if variant != "" {
		name += " - " + variant
	}
	return filepath.Join(sourceDir, name+" - sprites")
}

// ImportSpriteTiles replaces sprites with the tiles found under tilesDir.
// Each subdirectory is one modern sprite named after the directory, whose id
// is read from its sprite id file. Frames are the zoom and rotation pairs
// that have an image description; their channel paths are stored relative
// to sourceDir. Imported sprites replace sprites with the same id and the
// sprite list is left sorted by id.
func (d *Description) ImportSpriteTiles(sourceDir, tilesDir string) (int, error) {
	entries, err := os.ReadDir(tilesDir)
	if err != nil {
		return 0, fmt.Errorf("read sprite tiles: %w", err)
	}

	imported := make(map[iff.ChunkID]bool)
	var sprites []Sprite
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		s, err := buildTileSprite(sourceDir, filepath.Join(tilesDir, e.Name()))
		if err != nil {
			return 0, err
		}
		if imported[s.ID] {
			return 0, fmt.Errorf("%w: sprite tiles share chunk id %d", ErrInvalid, s.ID)
		}
		imported[s.ID] = true
		sprites = append(sprites, s)
	}

	d.Sprites = slices.DeleteFunc(d.Sprites, func(s Sprite) bool { return imported[s.ID] })
	d.Sprites = append(d.Sprites, sprites...)
	slices.SortStableFunc(d.Sprites, func(a, b Sprite) int { return int(a.ID) - int(b.ID) })
	return len(sprites), nil
}

func buildTileSprite(sourceDir, dir string) (Sprite, error) {
	s := Sprite{
		Label: filepath.Base(dir),
		Type:  SpriteModern,
	}

	idPath := filepath.Join(dir, SpriteIDFile)
	data, err := os.ReadFile(idPath)
	if err != nil {
		return Sprite{}, fmt.Errorf("read sprite id: %w", err)
	}
	if err := json.Unmarshal(data, &s.ID); err != nil {
		return Sprite{}, fmt.Errorf("%w: sprite id %s: %v", iff.ErrDecode, idPath, err)
	}

	for _, zoom := range sprite.Zooms {
		for _, rot := range sprite.Rotations {
			descPath := ImageDescriptionPath(dir, zoom, rot)
			if !fileutil.IsFile(descPath) {
				continue
			}
			desc, err := ReadImageDescription(descPath)
			if err != nil {
				return Sprite{}, err
			}

			f := SpriteFrame{
				Index:            uint32(len(s.Frames)),
				Zoom:             zoom,
				Rotation:         rot,
				PaletteID:        desc.PaletteID,
				TransparentIndex: desc.TransparentIndex,
			}
			f.SetBounds(desc.Bounds)
			for _, ch := range []string{ChannelColor, ChannelDepth, ChannelAlpha} {
				rel, err := filepath.Rel(sourceDir, filepath.Join(dir, ChannelFileName(zoom, rot, ch)))
				if err != nil {
					return Sprite{}, fmt.Errorf("sprite tile %s: %w", dir, err)
				}
				f.setChannel(ch, strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`))
			}
			s.Frames = append(s.Frames, f)
		}
	}
	if len(s.Frames) == 0 {
		return Sprite{}, fmt.Errorf("%w: sprite tile %s has no frames", ErrInvalid, dir)
	}

	s.PaletteID = s.Frames[0].PaletteID
	s.FrameCount = int32(len(s.Frames))
	return s, nil
}
