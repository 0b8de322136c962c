package sprite

import (
	"encoding/binary"
	"fmt"
)

// Legacy command opcodes. Every command is an opcode byte followed by a
// length byte.
const (
	legacyTransparent     = 0x01
	legacyRepeat          = 0x02
	legacyLiteral         = 0x03
	legacyRow             = 0x04
	legacyEnd             = 0x05
	legacyTransparentRows = 0x09

	// Row markers some exporters write before the first row; they carry no pixels.
	legacyMarker     = 0x00
	legacyMarkerAlt  = 0x10
	legacyMaxLength  = 0xFF
	legacyHeaderSize = 8

	// RepeatThreshold is the shortest run encoded as a repeat instead of literal bytes.
	RepeatThreshold = 8
)

// LegacyFrame is one legacy sprite frame: a Width*Height plane of palette
// indices in which TransparentIndex marks transparent pixels.
type LegacyFrame struct {
	Width            int
	Height           int
	TransparentIndex uint8
	Pixels           []byte
}

// EncodeLegacyFrame encodes a legacy frame: the frame header followed by its
// command stream.
func EncodeLegacyFrame(f LegacyFrame) ([]byte, error) {
	if len(f.Pixels) != f.Width*f.Height {
		return nil, fmt.Errorf("%w: %dx%d frame with %d pixels", ErrPlaneSize, f.Width, f.Height, len(f.Pixels))
	}
	if f.Width > 0xFFFF || f.Height > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d frame", ErrLengthOverflow, f.Width, f.Height)
	}

	out := make([]byte, 0, legacyHeaderSize+len(f.Pixels))
	out = binary.LittleEndian.AppendUint32(out, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Height))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Width))

	for y := 0; y < f.Height; {
		if n := f.transparentRows(y); n > 0 {
			for rest := n; rest > 0; rest -= min(rest, legacyMaxLength) {
				out = append(out, legacyTransparentRows, byte(min(rest, legacyMaxLength)))
			}
			y += n
			continue
		}

		row := f.encodeRow(f.Pixels[y*f.Width : (y+1)*f.Width])
		if 2+len(row) > legacyMaxLength {
			return nil, fmt.Errorf("%w: row %d encodes to %d bytes", ErrLengthOverflow, y, 2+len(row))
		}
		out = append(out, legacyRow, byte(2+len(row)))
		out = append(out, row...)
		y++
	}

	return append(out, legacyEnd, 0), nil
}

func (f *LegacyFrame) transparentRows(y int) int {
	n := 0
	for ; y+n < f.Height; n++ {
		for _, p := range f.Pixels[(y+n)*f.Width : (y+n+1)*f.Width] {
			if p != f.TransparentIndex {
				return n
			}
		}
	}
	return n
}

// runLength returns the length of the run of equal pixels starting at x.
func runLength(row []byte, x int) int {
	n := 1
	for x+n < len(row) && row[x+n] == row[x] {
		n++
	}
	return n
}

func (f *LegacyFrame) encodeRow(row []byte) []byte {
	end := len(row)
	for end > 0 && row[end-1] == f.TransparentIndex {
		end--
	}
	row = row[:end]

	var out []byte
	for x := 0; x < len(row); {
		if row[x] == f.TransparentIndex {
			n := runLength(row, x)
			for rest := n; rest > 0; rest -= min(rest, legacyMaxLength) {
				out = append(out, legacyTransparent, byte(min(rest, legacyMaxLength)))
			}
			x += n
			continue
		}

		if n := runLength(row, x); n >= RepeatThreshold {
			for rest := n; rest > 0; rest -= min(rest, legacyMaxLength) {
				out = append(out, legacyRepeat, byte(min(rest, legacyMaxLength)), row[x], 0)
			}
			x += n
			continue
		}

		// Literal run: stop at transparency or at a run long enough to repeat.
		start := x
		for x < len(row) && row[x] != f.TransparentIndex {
			n := runLength(row, x)
			if n >= RepeatThreshold {
				break
			}
			x += n
		}
		for lit := row[start:x]; len(lit) > 0; {
			n := min(len(lit), legacyMaxLength)
			out = append(out, legacyLiteral, byte(n))
			out = append(out, lit[:n]...)
			if n%2 == 1 {
				out = append(out, 0)
			}
			lit = lit[n:]
		}
	}
	return out
}

// DecodeLegacyFrame decodes a legacy frame produced by EncodeLegacyFrame.
// Pixels not covered by any command take the transparent index.
func DecodeLegacyFrame(data []byte, transparent uint8) (LegacyFrame, error) {
	if len(data) < legacyHeaderSize {
		return LegacyFrame{}, fmt.Errorf("%w: frame header is %d bytes", ErrMalformedStream, len(data))
	}
	f := LegacyFrame{
		Height:           int(binary.LittleEndian.Uint16(data[4:6])),
		Width:            int(binary.LittleEndian.Uint16(data[6:8])),
		TransparentIndex: transparent,
	}
	f.Pixels = make([]byte, f.Width*f.Height)
	for i := range f.Pixels {
		f.Pixels[i] = transparent
	}

	pos := legacyHeaderSize
	y := 0
	for {
		if len(data)-pos < 2 {
			return LegacyFrame{}, fmt.Errorf("%w: missing end command", ErrMalformedStream)
		}
		op, n := data[pos], int(data[pos+1])
		pos += 2

		switch op {
		case legacyMarker, legacyMarkerAlt:
		case legacyRow:
			if n < 2 || len(data)-pos < n-2 {
				return LegacyFrame{}, fmt.Errorf("%w: row %d length %d", ErrMalformedStream, y, n)
			}
			if y >= f.Height {
				return LegacyFrame{}, fmt.Errorf("%w: row %d past frame height %d", ErrMalformedStream, y, f.Height)
			}
			if err := f.decodeRow(y, data[pos:pos+n-2]); err != nil {
				return LegacyFrame{}, fmt.Errorf("row %d: %w", y, err)
			}
			pos += n - 2
			y++
		case legacyTransparentRows:
			if n == 0 || y+n > f.Height {
				return LegacyFrame{}, fmt.Errorf("%w: %d transparent rows at row %d", ErrMalformedStream, n, y)
			}
			y += n
		case legacyEnd:
			if pos != len(data) {
				return LegacyFrame{}, fmt.Errorf("%w: %d bytes after end", ErrMalformedStream, len(data)-pos)
			}
			return f, nil
		default:
			return LegacyFrame{}, fmt.Errorf("%w: opcode %#x at row level", ErrMalformedStream, op)
		}
	}
}

func (f *LegacyFrame) decodeRow(y int, row []byte) error {
	px := f.Pixels[y*f.Width : (y+1)*f.Width]
	x := 0
	for pos := 0; pos < len(row); {
		if len(row)-pos < 2 {
			return fmt.Errorf("%w: truncated command", ErrMalformedStream)
		}
		op, n := row[pos], int(row[pos+1])
		pos += 2
		if n == 0 {
			return fmt.Errorf("%w: zero length opcode %#x", ErrMalformedStream, op)
		}
		if x+n > f.Width {
			return fmt.Errorf("%w: run of %d at column %d past width %d", ErrMalformedStream, n, x, f.Width)
		}

		switch op {
		case legacyTransparent:
		case legacyRepeat:
			if len(row)-pos < 2 {
				return fmt.Errorf("%w: truncated repeat", ErrMalformedStream)
			}
			for i := x; i < x+n; i++ {
				px[i] = row[pos]
			}
			pos += 2
		case legacyLiteral:
			size := n + n%2
			if len(row)-pos < size {
				return fmt.Errorf("%w: truncated literal", ErrMalformedStream)
			}
			copy(px[x:x+n], row[pos:pos+n])
			pos += size
		default:
			return fmt.Errorf("%w: opcode %#x inside row", ErrMalformedStream, op)
		}
		x += n
	}
	return nil
}
