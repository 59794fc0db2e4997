package sdb

import (
	"errors"
	"fmt"
	"strings"
)

// Version is the store version reported by Info.
const Version = "0.1.0"

// ErrNotFound is returned by Get when a key (or its table) cannot be found.
var ErrNotFound = errors.New("sdb: not found")

// ErrCorruptData is returned by Open when the file cannot be decoded. The
// returned handle is still usable and starts out empty.
var ErrCorruptData = errors.New("sdb: corrupt data")

var (
	// ErrTableNotFound is returned when an operation names a missing table.
	ErrTableNotFound = errors.New("sdb: table not found")

	// ErrDuplicateTable is returned by CreateTable when the name is taken.
	ErrDuplicateTable = errors.New("sdb: duplicate table")
)

var (
	errClosed         = errors.New("sdb: is closed")
	errBadCompression = errors.New("sdb: bad compression codec")
)

// --------------------------------------------------------------------

// Compression is the compression codec applied to the stored payload.
//
// The codec is not recorded in the file. A database must be opened with
// the same codec it was written with.
type Compression byte

// Supported compression codecs
const (
	NoCompression Compression = iota
	RLECompression
	LZ77Compression
	SnappyCompression
	unknownCompression
)

func (c Compression) isValid() bool {
	return c < unknownCompression
}

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case RLECompression:
		return "rle"
	case LZ77Compression:
		return "lz77"
	case SnappyCompression:
		return "snappy"
	}
	return "unknown"
}

// ParseCompression resolves a codec by name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none":
		return NoCompression, nil
	case "rle":
		return RLECompression, nil
	case "lz77":
		return LZ77Compression, nil
	case "snappy":
		return SnappyCompression, nil
	}
	return unknownCompression, fmt.Errorf("sdb: unknown compression codec %q", s)
}
