package description

import (
	"fmt"

	"github.com/eunmann/iffc/pkg/iff"
)

var (
	// ErrInvalid indicates a description whose records disagree with each other.
	ErrInvalid = fmt.Errorf("%w: invalid object description", iff.ErrConsistency)
	// ErrMissingChannel indicates a sprite frame without a required channel bitmap.
	ErrMissingChannel = fmt.Errorf("%w: missing sprite channel", iff.ErrConsistency)
)
