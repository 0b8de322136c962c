// Package bitmap loads the 8-bit channel bitmaps sprites are built from.
//
// Color channels are 8-bit paletted BMP files whose indices are the sprite's
// palette indices. Depth and alpha channels are usually paletted grayscale;
// for those the raw index is the sample. Non-paletted files fall back to
// their luma value.
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/eunmann/iffc/pkg/sprite"
)

// PaletteSize is the number of entries a sprite palette holds.
const PaletteSize = 256

var (
	// ErrNotPaletted indicates a bitmap without a color table.
	ErrNotPaletted = errors.New("bitmap is not 8-bit paletted")
	// ErrOutOfBounds indicates a crop rectangle outside the bitmap.
	ErrOutOfBounds = errors.New("rectangle outside bitmap")
)

// Image is a decoded single-channel bitmap.
type Image struct {
	Width  int
	Height int
	// Pix holds one sample per pixel, row-major.
	Pix []byte
	// Palette is the color table of a paletted file, nil otherwise.
	Palette color.Palette
}

// Decode reads a BMP stream into a single channel.
func Decode(r io.Reader) (*Image, error) {
	m, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode bmp: %w", err)
	}

	b := m.Bounds()
	img := &Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy())}

	if p, ok := m.(*image.Paletted); ok {
		img.Palette = p.Palette
		for y := 0; y < img.Height; y++ {
			copy(img.Pix[y*img.Width:(y+1)*img.Width], p.Pix[y*p.Stride:y*p.Stride+img.Width])
		}
		return img, nil
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			g := color.GrayModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			img.Pix[y*img.Width+x] = g.Y
		}
	}
	return img, nil
}

// Load decodes the BMP file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bitmap: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Crop copies the samples inside r.
func (img *Image) Crop(r sprite.Rect) ([]byte, error) {
	if r.Left < 0 || r.Top < 0 || r.Right > img.Width || r.Bottom > img.Height || r.Right < r.Left || r.Bottom < r.Top {
		return nil, fmt.Errorf("%w: %+v in %dx%d", ErrOutOfBounds, r, img.Width, img.Height)
	}
	w := r.Width()
	out := make([]byte, w*r.Height())
	for y := r.Top; y < r.Bottom; y++ {
		copy(out[(y-r.Top)*w:(y-r.Top+1)*w], img.Pix[y*img.Width+r.Left:y*img.Width+r.Right])
	}
	return out, nil
}

// RGB returns the palette as 256 packed RGB triples. The bitmap must carry
// exactly 256 palette entries.
func (img *Image) RGB() ([]byte, error) {
	if img.Palette == nil {
		return nil, ErrNotPaletted
	}
	if len(img.Palette) != PaletteSize {
		return nil, fmt.Errorf("%w: palette has %d entries, want %d", ErrNotPaletted, len(img.Palette), PaletteSize)
	}
	out := make([]byte, 0, 3*PaletteSize)
	for _, c := range img.Palette {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		out = append(out, rgba.R, rgba.G, rgba.B)
	}
	return out, nil
}

// IndexOf returns the first palette index holding the opaque color (r, g, b).
func (img *Image) IndexOf(r, g, b uint8) (int, bool) {
	for i, c := range img.Palette {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		if rgba.R == r && rgba.G == g && rgba.B == b {
			return i, true
		}
	}
	return 0, false
}

// Encode writes a paletted 8-bit BMP.
func Encode(w io.Writer, width, height int, pix []byte, palette color.Palette) error {
	if len(pix) != width*height {
		return fmt.Errorf("encode bmp: %d samples for %dx%d", len(pix), width, height)
	}
	m := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	copy(m.Pix, pix)
	if err := bmp.Encode(w, m); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// Save writes a paletted 8-bit BMP file.
func Save(path string, width, height int, pix []byte, palette color.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bitmap: %w", err)
	}
	if err := Encode(f, width, height, pix, palette); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// GrayPalette returns a 256-entry grayscale palette; index i is gray level i.
func GrayPalette() color.Palette {
	p := make(color.Palette, PaletteSize)
	for i := range p {
		p[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 0xFF}
	}
	return p
}
