package description

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/sprite"
)

// ImageDescription is the sidecar written next to a frame's channel bitmaps
// by the sprite splitter. It carries the frame bounds and draw offsets the
// renderer computed, so they need not be recomputed from the alpha plane.
type ImageDescription struct {
	Bounds           sprite.Rect        `json:"bounds"`
	Offsets          sprite.DrawOffsets `json:"offsets"`
	PaletteID        iff.ChunkID        `json:"palette_id"`
	TransparentIndex uint8              `json:"transparent_color_index"`
}

// ImageDescriptionPath returns the sidecar path for a frame in dir.
func ImageDescriptionPath(dir string, zoom sprite.Zoom, rot sprite.Rotation) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s description.json", zoom, rot))
}

// ChannelFileName returns the bitmap name of one channel of a frame.
func ChannelFileName(zoom sprite.Zoom, rot sprite.Rotation, channel string) string {
	return fmt.Sprintf("%s_%s_%s.bmp", zoom, rot, channel)
}

// ReadImageDescription reads a sidecar file.
func ReadImageDescription(path string) (*ImageDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image description: %w", err)
	}
	var d ImageDescription
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: image description %s: %v", iff.ErrDecode, path, err)
	}
	return &d, nil
}

// Write stores the sidecar at path.
func (d *ImageDescription) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode image description: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write image description %s: %w", path, err)
	}
	return nil
}

// ComputeImageDescription derives bounds and offsets from an alpha bitmap
// rendered at zoom.
func ComputeImageDescription(alpha *bitmap.Image, zoom sprite.Zoom, paletteID iff.ChunkID, transparent uint8) ImageDescription {
	bounds := sprite.TightBounds(alpha.Pix, alpha.Width, alpha.Height)
	return ImageDescription{
		Bounds:           bounds,
		Offsets:          sprite.Offsets(bounds, alpha.Width, zoom),
		PaletteID:        paletteID,
		TransparentIndex: transparent,
	}
}
