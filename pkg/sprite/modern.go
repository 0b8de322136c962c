package sprite

import (
	"encoding/binary"
	"fmt"
)

// Modern command opcodes, stored in the top three bits of each command word.
const (
	opStart           = 0
	opOpaque          = 1
	opTranslucent     = 2
	opTransparent     = 3
	opTransparentRows = 4
	opEnd             = 5
)

const (
	// MaxCommandLength is the largest length a modern command can carry.
	MaxCommandLength = 1<<13 - 1

	// FrameFlags is written into every modern frame header.
	FrameFlags uint32 = 7

	frameHeaderSize = 16
	fullCoverage    = 31
)

// Frame is one modern sprite frame. Each plane holds Width*Height samples;
// Alpha holds 8-bit samples of which only the top five bits are stored.
type Frame struct {
	Width            int
	Height           int
	Top              int
	Left             int
	PaletteID        int16
	TransparentIndex uint8
	Color            []byte
	Depth            []byte
	Alpha            []byte
}

func (f *Frame) checkPlanes() error {
	n := f.Width * f.Height
	if len(f.Color) != n || len(f.Depth) != n || len(f.Alpha) != n {
		return fmt.Errorf("%w: %dx%d frame with planes of %d, %d and %d samples",
			ErrPlaneSize, f.Width, f.Height, len(f.Color), len(f.Depth), len(f.Alpha))
	}
	return nil
}

// ExpandCoverage widens a 5-bit coverage value to 8 bits.
func ExpandCoverage(c byte) byte {
	return c<<3 | c>>2
}

type pixelClass int

const (
	classTransparent pixelClass = iota
	classOpaque
	classTranslucent
)

func classify(alpha byte) pixelClass {
	switch alpha >> 3 {
	case 0:
		return classTransparent
	case fullCoverage:
		return classOpaque
	default:
		return classTranslucent
	}
}

func command(op, length int) ([]byte, error) {
	if length > MaxCommandLength {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrLengthOverflow, length, MaxCommandLength)
	}
	return binary.LittleEndian.AppendUint16(nil, uint16(op<<13|length)), nil
}

// EncodeFrame encodes a modern frame: the frame header followed by its
// command stream.
func EncodeFrame(f Frame) ([]byte, error) {
	if err := f.checkPlanes(); err != nil {
		return nil, err
	}
	if f.Width > MaxCommandLength || f.Height > MaxCommandLength {
		return nil, fmt.Errorf("%w: %dx%d frame", ErrLengthOverflow, f.Width, f.Height)
	}

	out := make([]byte, 0, frameHeaderSize+len(f.Color))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Width))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Height))
	out = binary.LittleEndian.AppendUint32(out, FrameFlags)
	out = binary.LittleEndian.AppendUint16(out, uint16(f.PaletteID))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.TransparentIndex))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Top))
	out = binary.LittleEndian.AppendUint16(out, uint16(f.Left))

	for y := 0; y < f.Height; {
		if n := f.transparentRows(y); n > 0 {
			cmd, err := command(opTransparentRows, n)
			if err != nil {
				return nil, err
			}
			out = append(out, cmd...)
			y += n
			continue
		}

		row, err := f.encodeRow(y)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		cmd, err := command(opStart, 2+len(row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		out = append(out, cmd...)
		out = append(out, row...)
		y++
	}

	end, _ := command(opEnd, 0)
	return append(out, end...), nil
}

// transparentRows counts fully transparent rows starting at y.
func (f *Frame) transparentRows(y int) int {
	n := 0
	for ; y+n < f.Height; n++ {
		row := f.Alpha[(y+n)*f.Width : (y+n+1)*f.Width]
		for _, a := range row {
			if classify(a) != classTransparent {
				return n
			}
		}
	}
	return n
}

func (f *Frame) encodeRow(y int) ([]byte, error) {
	base := y * f.Width
	alpha := f.Alpha[base : base+f.Width]

	end := f.Width
	for end > 0 && classify(alpha[end-1]) == classTransparent {
		end--
	}

	var out []byte
	for x := 0; x < end; {
		class := classify(alpha[x])
		n := 1
		for x+n < end && classify(alpha[x+n]) == class {
			n++
		}

		var op int
		switch class {
		case classTransparent:
			op = opTransparent
		case classOpaque:
			op = opOpaque
		default:
			op = opTranslucent
		}
		cmd, err := command(op, n)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd...)

		for i := base + x; i < base+x+n; i++ {
			switch class {
			case classOpaque:
				out = append(out, f.Depth[i], f.Color[i])
			case classTranslucent:
				out = append(out, f.Depth[i], f.Color[i], f.Alpha[i]>>3)
			}
		}
		if class == classTranslucent && n%2 == 1 {
			out = append(out, 0)
		}
		x += n
	}
	return out, nil
}

// DecodeFrame decodes a modern frame produced by EncodeFrame. Transparent
// pixels decode to the transparent index with depth 255 and alpha 0.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < frameHeaderSize {
		return Frame{}, fmt.Errorf("%w: frame header is %d bytes", ErrMalformedStream, len(data))
	}
	f := Frame{
		Width:            int(binary.LittleEndian.Uint16(data[0:2])),
		Height:           int(binary.LittleEndian.Uint16(data[2:4])),
		PaletteID:        int16(binary.LittleEndian.Uint16(data[8:10])),
		TransparentIndex: uint8(binary.LittleEndian.Uint16(data[10:12])),
		Top:              int(binary.LittleEndian.Uint16(data[12:14])),
		Left:             int(binary.LittleEndian.Uint16(data[14:16])),
	}
	n := f.Width * f.Height
	f.Color = make([]byte, n)
	f.Depth = make([]byte, n)
	f.Alpha = make([]byte, n)
	for i := range n {
		f.Color[i] = f.TransparentIndex
		f.Depth[i] = 0xFF
	}

	pos := frameHeaderSize
	y := 0
	for {
		if len(data)-pos < 2 {
			return Frame{}, fmt.Errorf("%w: missing end command", ErrMalformedStream)
		}
		cmd := binary.LittleEndian.Uint16(data[pos:])
		op, length := int(cmd>>13), int(cmd&MaxCommandLength)
		pos += 2

		switch op {
		case opStart:
			if length < 2 || len(data)-pos < length-2 {
				return Frame{}, fmt.Errorf("%w: row %d length %d", ErrMalformedStream, y, length)
			}
			if y >= f.Height {
				return Frame{}, fmt.Errorf("%w: row %d past frame height %d", ErrMalformedStream, y, f.Height)
			}
			if err := f.decodeRow(y, data[pos:pos+length-2]); err != nil {
				return Frame{}, fmt.Errorf("row %d: %w", y, err)
			}
			pos += length - 2
			y++
		case opTransparentRows:
			if length == 0 || y+length > f.Height {
				return Frame{}, fmt.Errorf("%w: %d transparent rows at row %d", ErrMalformedStream, length, y)
			}
			y += length
		case opEnd:
			if pos != len(data) {
				return Frame{}, fmt.Errorf("%w: %d bytes after end", ErrMalformedStream, len(data)-pos)
			}
			return f, nil
		default:
			return Frame{}, fmt.Errorf("%w: opcode %d at row level", ErrMalformedStream, op)
		}
	}
}

func (f *Frame) decodeRow(y int, row []byte) error {
	base := y * f.Width
	x := 0
	for pos := 0; pos < len(row); {
		if len(row)-pos < 2 {
			return fmt.Errorf("%w: truncated command", ErrMalformedStream)
		}
		cmd := binary.LittleEndian.Uint16(row[pos:])
		op, n := int(cmd>>13), int(cmd&MaxCommandLength)
		pos += 2
		if n == 0 {
			return fmt.Errorf("%w: zero length opcode %d", ErrMalformedStream, op)
		}
		if x+n > f.Width {
			return fmt.Errorf("%w: run of %d at column %d past width %d", ErrMalformedStream, n, x, f.Width)
		}

		switch op {
		case opOpaque:
			if len(row)-pos < 2*n {
				return fmt.Errorf("%w: truncated opaque run", ErrMalformedStream)
			}
			for i := base + x; i < base+x+n; i++ {
				f.Depth[i], f.Color[i], f.Alpha[i] = row[pos], row[pos+1], 0xFF
				pos += 2
			}
		case opTranslucent:
			size := 3 * n
			if n%2 == 1 {
				size++
			}
			if len(row)-pos < size {
				return fmt.Errorf("%w: truncated translucent run", ErrMalformedStream)
			}
			for i := base + x; i < base+x+n; i++ {
				c := row[pos+2]
				if c > fullCoverage {
					return fmt.Errorf("%w: coverage %d", ErrMalformedStream, c)
				}
				f.Depth[i], f.Color[i], f.Alpha[i] = row[pos], row[pos+1], ExpandCoverage(c)
				pos += 3
			}
			if n%2 == 1 {
				pos++
			}
		case opTransparent:
		default:
			return fmt.Errorf("%w: opcode %d inside row", ErrMalformedStream, op)
		}
		x += n
	}
	return nil
}
