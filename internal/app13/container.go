// Package app13 reads and writes the Photoshop 3.0 APP13 segment of a JPEG
// file and grafts rebuilt segments into other JPEG files.
//
// Segment layout:
//
//	FF ED | length (u16, counts itself)
//	"Photoshop 3.0" NUL | "8BIM" | resource ID 0x0404
//	name length (u8) | name | optional pad
//	data length (u32) | IPTC tag stream | optional pad
//
// All functions work on complete in-memory buffers and never modify their
// input.
package app13

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/crypticcostume/costume/internal/binary"
	"github.com/crypticcostume/costume/internal/types"
)

// MaxPayload is the largest APP13 payload a 16-bit length field can
// describe once the length field itself is counted.
const MaxPayload = 0xFFFF - 2

var (
	soi = []byte{0xFF, 0xD8}
	eoi = []byte{0xFF, 0xD9}
)

// Options controls how a JPEG buffer is searched and how the Photoshop
// resource header is laid out.
type Options struct {
	// Path is used in error messages only
	Path string

	// Scan finds the APP13 marker; nil selects ScanBytes
	Scan Scanner

	// Layout of the resource name and data length
	Layout types.Layout

	// InsertMissing lets Graft place the segment right after SOI when the
	// target has no APP13 segment of its own
	InsertMissing bool
}

func (o Options) scanner() Scanner {
	if o.Scan == nil {
		return ScanBytes
	}
	return o.Scan
}

// CheckContainer verifies that b is framed as a JPEG file: at least four
// bytes, starting with SOI and ending with EOI.
func CheckContainer(b []byte, path string) error {
	switch {
	case len(b) < 4:
		return &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("not a JPEG: %d bytes is too short", len(b)),
		}
	case !bytes.HasPrefix(b, soi):
		return &types.UnsupportedFormatError{Path: path, Reason: "not a JPEG: missing SOI marker"}
	case !bytes.HasSuffix(b, eoi):
		return &types.UnsupportedFormatError{Path: path, Reason: "not a JPEG: missing EOI marker"}
	}
	return nil
}

// Locate returns the byte range of the first APP13 segment in b.
func Locate(b []byte, o Options) (types.Segment, error) {
	if err := CheckContainer(b, o.Path); err != nil {
		return types.Segment{}, err
	}

	off, err := o.scanner()(b, o.Path)
	if err != nil {
		return types.Segment{}, err
	}

	sr := binary.FromBytes(b, o.Path)
	length, err := binary.Read[uint16](sr, int64(off)+2, "APP13 segment length")
	if err != nil {
		return types.Segment{}, err
	}
	if length < 2 {
		return types.Segment{}, &types.CorruptedFileError{
			Path:   o.Path,
			Reason: fmt.Sprintf("APP13 segment length %d is smaller than its length field", length),
			Offset: int64(off) + 2,
		}
	}
	if _, err := sr.Section(int64(off)+2, int64(length), "APP13 segment"); err != nil {
		return types.Segment{}, err
	}

	return types.Segment{Offset: off, Length: 2 + int(length)}, nil
}

// Graft replaces the first APP13 segment of b with seg and returns the new
// buffer. Bytes outside the replaced range are copied unchanged.
//
// When b has no APP13 segment, Graft fails with the scanner's
// *types.MarkerNotFoundError unless o.InsertMissing is set, in which case
// seg is inserted right after SOI.
func Graft(b, seg []byte, o Options) ([]byte, error) {
	if err := checkSegment(seg); err != nil {
		return nil, err
	}

	old, err := Locate(b, o)
	var notFound *types.MarkerNotFoundError
	switch {
	case errors.As(err, &notFound) && o.InsertMissing:
		old = types.Segment{Offset: len(soi)}
	case err != nil:
		return nil, err
	}

	out := make([]byte, 0, len(b)-old.Length+len(seg))
	out = append(out, b[:old.Offset]...)
	out = append(out, seg...)
	out = append(out, b[old.End():]...)
	return out, nil
}

// checkSegment verifies that seg is exactly one APP13 segment.
func checkSegment(seg []byte) error {
	if len(seg) < 4 || !bytes.HasPrefix(seg, app13Marker) {
		return &types.FieldError{Field: "APP13 segment", Reason: "missing APP13 marker"}
	}
	length, err := binary.Read[uint16](binary.FromBytes(seg, "APP13 segment"), 2, "APP13 segment length")
	if err != nil {
		return err
	}
	if int(length) != len(seg)-2 {
		return &types.FieldError{
			Field:  "APP13 segment",
			Reason: fmt.Sprintf("declared length %d does not match %d bytes", length, len(seg)-2),
		}
	}
	return nil
}
