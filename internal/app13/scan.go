package app13

import (
	"bytes"

	"github.com/garyhouston/jpegsegs"

	"github.com/crypticcostume/costume/internal/registry"
	"github.com/crypticcostume/costume/internal/types"
)

// Registered scanner names.
const (
	ScanNameBytes    = "bytes"
	ScanNameSegments = "segments"
)

func init() {
	registry.Register(ScanNameBytes, ScanBytes)
	registry.Register(ScanNameSegments, ScanSegments)
}

var app13Marker = []byte{0xFF, jpegsegs.APP13}

// Scanner returns the offset of the first APP13 marker in a JPEG buffer.
// It returns a *types.MarkerNotFoundError when there is none.
type Scanner = registry.Scanner

// ScanBytes finds the first 0xFF 0xED byte pair anywhere in b.
//
// The search ignores segment boundaries, so the pair can also be found
// inside another segment's payload or in entropy-coded data. Files written
// by the game client keep APP13 ahead of such data, and this is the search
// those files have always been read with.
func ScanBytes(b []byte, path string) (int, error) {
	i := bytes.Index(b, app13Marker)
	if i < 0 {
		return 0, notFound(path)
	}
	return i, nil
}

// ScanSegments finds the first APP13 segment by walking the marker segments
// in order. Only headers up to the start of scan are considered.
func ScanSegments(b []byte, path string) (int, error) {
	off := -1
	err := Walk(b, path, func(e Entry) error {
		if e.Marker == jpegsegs.APP13 {
			off = e.Offset
			return SkipRest
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, notFound(path)
	}
	return off, nil
}

func notFound(path string) error {
	return &types.MarkerNotFoundError{Path: path, Marker: "APP13"}
}
