package description

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/sprite"
)

// SpriteType is the sprite generation.
type SpriteType int

// Sprite generations.
const (
	SpriteLegacy SpriteType = 1
	SpriteModern SpriteType = 2
)

// ChunkType returns the chunk type tag of the generation.
func (t SpriteType) ChunkType() string {
	if t == SpriteLegacy {
		return iff.TypeLegacySprite
	}
	return iff.TypeSprite
}

// Channel names.
const (
	ChannelColor = "p"
	ChannelDepth = "z"
	ChannelAlpha = "a"
)

// Sprite is one SPR# or SPR2 record.
type Sprite struct {
	Label           string        `xml:"name,attr"`
	ID              iff.ChunkID   `xml:"id,attr"`
	Type            SpriteType    `xml:"type,attr"`
	MultiTile       int32         `xml:"multitile,attr"`
	PaletteID       iff.ChunkID   `xml:"defaultpaletteid,attr"`
	FrameCount      int32         `xml:"framecount,attr"`
	CustomWallStyle int32         `xml:"iscustomwallstyle,attr"`
	Frames          []SpriteFrame `xml:"spriteframe"`
}

// IsCustomWallStyle reports whether the sprite is a custom wall style, whose
// legacy frames always use palette index 255 for transparency.
func (s *Sprite) IsCustomWallStyle() bool {
	return s.CustomWallStyle != 0
}

// SpriteFrame is one frame of a sprite. X, Y, Width and Height locate the
// frame inside its channel bitmaps.
type SpriteFrame struct {
	Index            uint32          `xml:"index,attr"`
	Zoom             sprite.Zoom     `xml:"zoom,attr"`
	Rotation         sprite.Rotation `xml:"rot,attr"`
	X                int32           `xml:"x,attr"`
	Y                int32           `xml:"y,attr"`
	Width            int32           `xml:"width,attr"`
	Height           int32           `xml:"height,attr"`
	PaletteID        iff.ChunkID     `xml:"paletteid,attr"`
	TransparentIndex uint8           `xml:"transparentpixel,attr"`
	Channels         []SpriteChannel `xml:"spritechannel"`
}

// SpriteChannel names the bitmap holding one plane of a frame.
type SpriteChannel struct {
	Type string `xml:"type,attr"`
	File string `xml:"filename,attr"`
}

// Bounds returns the frame rectangle.
func (f *SpriteFrame) Bounds() sprite.Rect {
	return sprite.Rect{
		Left:   int(f.X),
		Top:    int(f.Y),
		Right:  int(f.X + f.Width),
		Bottom: int(f.Y + f.Height),
	}
}

// SetBounds stores a frame rectangle.
func (f *SpriteFrame) SetBounds(r sprite.Rect) {
	f.X, f.Y = int32(r.Left), int32(r.Top)
	f.Width, f.Height = int32(r.Width()), int32(r.Height())
}

// Channel returns the relative file of a channel.
func (f *SpriteFrame) Channel(typ string) (string, bool) {
	for _, c := range f.Channels {
		if c.Type == typ {
			return c.File, true
		}
	}
	return "", false
}

// ChannelPath resolves a channel file against the description directory.
// Exported descriptions use Windows separators.
func (f *SpriteFrame) ChannelPath(sourceDir, typ string) (string, error) {
	rel, ok := f.Channel(typ)
	if !ok {
		return "", fmt.Errorf("%w: frame %d has no %q channel", ErrMissingChannel, f.Index, typ)
	}
	return filepath.Join(sourceDir, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))), nil
}

// setChannel replaces or adds a channel file.
func (f *SpriteFrame) setChannel(typ, file string) {
	for i := range f.Channels {
		if f.Channels[i].Type == typ {
			f.Channels[i].File = file
			return
		}
	}
	f.Channels = append(f.Channels, SpriteChannel{Type: typ, File: file})
}

// Sprite returns the sprite with the given id.
func (d *Description) Sprite(id iff.ChunkID) (*Sprite, bool) {
	for i := range d.Sprites {
		if d.Sprites[i].ID == id {
			return &d.Sprites[i], true
		}
	}
	return nil, false
}

// PaletteIDs returns the distinct palette ids used by sprites, in order of
// first use.
func (d *Description) PaletteIDs() []iff.ChunkID {
	var ids []iff.ChunkID
	seen := make(map[iff.ChunkID]bool)
	for _, s := range d.Sprites {
		if !seen[s.PaletteID] {
			seen[s.PaletteID] = true
			ids = append(ids, s.PaletteID)
		}
	}
	return ids
}
