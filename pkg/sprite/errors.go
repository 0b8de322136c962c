package sprite

import (
	"errors"
	"fmt"
)

// ErrCodec is the kind of every pixel codec error.
var ErrCodec = errors.New("sprite codec error")

var (
	// ErrLengthOverflow indicates a run or row that does not fit its command's length field.
	ErrLengthOverflow = fmt.Errorf("%w: command length overflow", ErrCodec)
	// ErrMalformedStream indicates a command stream that cannot be decoded.
	ErrMalformedStream = fmt.Errorf("%w: malformed command stream", ErrCodec)
	// ErrPlaneSize indicates a pixel plane whose length disagrees with the frame size.
	ErrPlaneSize = fmt.Errorf("%w: pixel plane size mismatch", ErrCodec)
)
