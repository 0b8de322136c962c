package bitmap

import (
	"bytes"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/eunmann/iffc/pkg/sprite"
)

func TestEncodeDecodePaletted(t *testing.T) {
	palette := GrayPalette()
	palette[7] = color.RGBA{R: 255, G: 255, A: 255}
	pix := []byte{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	}

	var buf bytes.Buffer
	if err := Encode(&buf, 4, 3, pix, palette); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Errorf("size = %dx%d, want 4x3", img.Width, img.Height)
	}
	if !bytes.Equal(img.Pix, pix) {
		t.Errorf("Pix = %v, want %v", img.Pix, pix)
	}

	rgb, err := img.RGB()
	if err != nil {
		t.Fatalf("RGB failed: %v", err)
	}
	if len(rgb) != 3*PaletteSize {
		t.Fatalf("len(RGB) = %d, want %d", len(rgb), 3*PaletteSize)
	}
	if !bytes.Equal(rgb[21:24], []byte{255, 255, 0}) {
		t.Errorf("entry 7 = %v, want yellow", rgb[21:24])
	}
	if i, ok := img.IndexOf(255, 255, 0); !ok || i != 7 {
		t.Errorf("IndexOf(yellow) = %d, %v, want 7, true", i, ok)
	}
	if _, ok := img.IndexOf(1, 2, 3); ok {
		t.Error("IndexOf found a color that is not in the palette")
	}
}

func TestRGBRequiresFullPalette(t *testing.T) {
	img := &Image{Palette: color.Palette{color.Black, color.White}}
	if _, err := img.RGB(); !errors.Is(err, ErrNotPaletted) {
		t.Errorf("RGB error = %v, want ErrNotPaletted", err)
	}
	img = &Image{}
	if _, err := img.RGB(); !errors.Is(err, ErrNotPaletted) {
		t.Errorf("RGB error = %v, want ErrNotPaletted", err)
	}
}

func TestCrop(t *testing.T) {
	img := &Image{Width: 4, Height: 3, Pix: []byte{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	}}
	got, err := img.Crop(sprite.Rect{Left: 1, Top: 1, Right: 3, Bottom: 3})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if want := []byte{5, 6, 9, 10}; !bytes.Equal(got, want) {
		t.Errorf("Crop = %v, want %v", got, want)
	}

	if _, err := img.Crop(sprite.Rect{Left: 2, Top: 0, Right: 5, Bottom: 1}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Crop error = %v, want ErrOutOfBounds", err)
	}
}

func TestCacheLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bmp")
	if err := Save(path, 2, 1, []byte{3, 4}, GrayPalette()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	c, err := NewCache(4)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	first, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := c.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("second Load did not hit the cache")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, err := c.Load(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Error("Load(missing) succeeded")
	}

	var nilCache *Cache
	if img, err := nilCache.Load(path); err != nil || img.Width != 2 {
		t.Errorf("nil cache Load = %v, %v", img, err)
	}
}
