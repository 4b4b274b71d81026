package types

import "fmt"

// OutOfBoundsError is returned when a read would run past the end of a buffer
// or of a length-prefixed window inside it.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when the input is not a JPEG.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// MarkerNotFoundError is returned when the JPEG carries no APP13 segment.
type MarkerNotFoundError struct {
	Path   string
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s marker not found", e.Path, e.Marker)
}

// CorruptedFileError is returned when the segment structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// SignatureError reports a fixed header field that does not hold the
// expected value, such as the "Photoshop 3.0" signature or the IPTC-NAA
// resource ID.
type SignatureError struct {
	Path     string
	What     string
	Expected string
	Found    string
	Offset   int64
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s: invalid %s at offset %d (%q != %q)",
		e.Path, e.What, e.Offset, e.Found, e.Expected)
}

// EncodingError is returned when a text field holds a byte outside 7-bit ASCII.
type EncodingError struct {
	Field  string
	Offset int
	Value  byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: byte 0x%02x at index %d is not ASCII", e.Field, e.Value, e.Offset)
}

// TagCountError is returned when a tag stream has neither 8 nor 9 records.
type TagCountError struct {
	Count int
}

func (e *TagCountError) Error() string {
	return fmt.Sprintf("unsupported costume layout: %d tags (want 8 or 9)", e.Count)
}

// FieldError reports a record field whose raw data has the wrong shape.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TagSizeError is returned when a payload does not fit its 16-bit length field.
type TagSizeError struct {
	Field string
	Size  int
	Limit int
}

func (e *TagSizeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds the %d byte limit", e.Field, e.Size, e.Limit)
}

// MissingKeyError is returned when a structured document lacks a required key.
// Key is the dotted path, e.g. "owner.uid".
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required key %q", e.Key)
}

// Warning represents a non-fatal issue encountered during extraction.
//
// Warnings indicate data that was readable but unusual, for example a
// resource name where none is expected or tag numbers that differ from the
// usual costume layout.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "container", "resource", "record"

	// Warning message
	Message string

	// Offset in the JPEG buffer (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
