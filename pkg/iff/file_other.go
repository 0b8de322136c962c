//go:build !unix

package iff

import (
	"fmt"
	"os"
)

// mapFile reads the whole file; there is nothing to release.
func mapFile(path string) ([]byte, func([]byte) error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil, nil
}
