package app13

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/garyhouston/jpegsegs"

	"github.com/crypticcostume/costume/internal/types"
)

// SkipRest can be returned by a WalkFunc to end the walk early without error.
var SkipRest = errors.New("skip remaining segments")

// Entry describes one marker segment seen by Walk.
type Entry struct {
	Marker jpegsegs.Marker

	// Offset of the 0xFF byte that introduces the marker
	Offset int

	// Length in bytes, marker and length field included
	Length int
}

// Name returns the conventional marker name, e.g. "APP13".
func (e Entry) Name() string {
	return e.Marker.Name()
}

// Segment returns the byte range of the entry.
func (e Entry) Segment() types.Segment {
	return types.Segment{Offset: e.Offset, Length: e.Length}
}

// WalkFunc is called for each marker segment in file order.
type WalkFunc func(e Entry) error

// Walk visits the marker segments of a JPEG buffer, honoring every declared
// segment length. The walk ends after SOS, since entropy-coded data follows,
// or at EOI.
func Walk(b []byte, path string, fn WalkFunc) (err error) {
	r := bytes.NewReader(b)
	pos := 0

	// The scanner slices its buffer with the declared length; a length
	// below 2 makes it panic.
	defer func() {
		if rec := recover(); rec != nil {
			err = &types.CorruptedFileError{
				Path:   path,
				Reason: fmt.Sprintf("invalid segment length: %v", rec),
				Offset: int64(pos),
			}
		}
	}()

	scanner, err := jpegsegs.NewScanner(r)
	if err != nil {
		return &types.UnsupportedFormatError{Path: path, Reason: err.Error()}
	}
	if err := fn(Entry{Marker: jpegsegs.SOI, Offset: 0, Length: 2}); err != nil {
		return stopped(err)
	}

	pos = 2
	for {
		marker, data, scanErr := scanner.Scan()
		end := len(b) - r.Len()
		if scanErr != nil {
			return &types.CorruptedFileError{
				Path:   path,
				Reason: fmt.Sprintf("reading marker segment: %v", scanErr),
				Offset: int64(pos),
			}
		}

		e := Entry{Marker: marker, Length: 2}
		if data != nil {
			e.Length += 2 + len(data)
		}
		e.Offset = end - e.Length
		pos = end

		if err := fn(e); err != nil {
			return stopped(err)
		}
		if marker == jpegsegs.SOS || marker == jpegsegs.EOI {
			return nil
		}
	}
}

func stopped(err error) error {
	if errors.Is(err, SkipRest) {
		return nil
	}
	return err
}
