// Package source loads subject text for the rxlab command.
//
// Files are read through a memory mapping via [mmapfile] when the platform
// allows it, falling back to plain [os] reads when mmap is unavailable or
// unsuitable (for example empty files or pipes).
package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.dw1.io/mmapfile"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

// ErrEmptyPath is returned when no file name is given.
var ErrEmptyPath = errors.New("source: empty path")

// ReadFile returns the contents of the named file, or of stdin when name is
// [Stdin].
func ReadFile(name string, stdin io.Reader) (string, error) {
	switch name {
	case "":
		return "", ErrEmptyPath
	case Stdin:
		return Read(stdin)
	}

	if s, err := readMapped(name); err == nil {
		return s, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("source: %w", err)
	}

	return string(data), nil
}

// Read drains r.
func Read(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("source: read: %w", err)
	}

	return string(data), nil
}

// readMapped copies the mapped region into a string before unmapping it.
func readMapped(name string) (string, error) {
	mf, err := mmapfile.Open(name)
	if err != nil {
		return "", err
	}
	defer mf.Close()

	if mf.Len() == 0 {
		return "", nil
	}

	return string(mf.Bytes()), nil
}
