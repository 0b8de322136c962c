package iff

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap one of these so callers can
// classify a failure with errors.Is.
var (
	// ErrDecode indicates a malformed archive or chunk payload.
	ErrDecode = errors.New("malformed archive")
	// ErrSchema indicates a record that cannot be represented in the wire format.
	ErrSchema = errors.New("schema violation")
	// ErrConsistency indicates records that disagree with each other.
	ErrConsistency = errors.New("consistency violation")
)

var (
	// ErrInvalidMagic indicates the preamble does not start with the IFF magic.
	ErrInvalidMagic = fmt.Errorf("%w: invalid IFF magic", ErrDecode)
	// ErrTruncated indicates a header or payload running past the end of the data.
	ErrTruncated = fmt.Errorf("%w: truncated chunk", ErrDecode)
	// ErrSizeMismatch indicates a chunk size that cannot partition the archive.
	ErrSizeMismatch = fmt.Errorf("%w: chunk size mismatch", ErrDecode)

	// ErrLabelTooLong indicates a label that does not fit its 64-byte field.
	ErrLabelTooLong = fmt.Errorf("%w: chunk label too long", ErrSchema)
	// ErrInvalidType indicates a chunk type tag that is not 4 bytes.
	ErrInvalidType = fmt.Errorf("%w: invalid chunk type", ErrSchema)

	// ErrNoGUIDs indicates an archive without any object definition.
	ErrNoGUIDs = fmt.Errorf("%w: no object definitions found", ErrConsistency)
	// ErrGUIDKeyMismatch indicates two archives defining different object ids.
	ErrGUIDKeyMismatch = fmt.Errorf("%w: object definition ids differ", ErrConsistency)
	// ErrDuplicateVariant indicates a variant archive with the same GUIDs as its original.
	ErrDuplicateVariant = fmt.Errorf("%w: variant GUIDs are identical to the original", ErrConsistency)
	// ErrMissingGUID indicates an object definition without a GUID in the target archive.
	ErrMissingGUID = fmt.Errorf("%w: missing replacement GUID", ErrConsistency)
)
