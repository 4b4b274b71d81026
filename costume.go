package costume

import (
	"fmt"

	"github.com/crypticcostume/costume/internal/app13"
	"github.com/crypticcostume/costume/internal/record"
	"github.com/crypticcostume/costume/internal/types"
)

// Costume is an alias to types.Costume.
type Costume = types.Costume

// Document is an alias to types.Document, the JSON form of a Costume.
type Document = types.Document

// GameDocument is an alias to types.GameDocument.
type GameDocument = types.GameDocument

// CharacterDocument is an alias to types.CharacterDocument.
type CharacterDocument = types.CharacterDocument

// OwnerDocument is an alias to types.OwnerDocument.
type OwnerDocument = types.OwnerDocument

// Segment is an alias to types.Segment.
type Segment = types.Segment

// Layout is an alias to types.Layout.
type Layout = types.Layout

// Predefined resource header layouts.
var (
	LayoutCompact   = types.LayoutCompact
	LayoutPhotoshop = types.LayoutPhotoshop
)

// ParseLayout returns the layout with the given name ("compact" or
// "photoshop").
func ParseLayout(name string) (Layout, error) {
	return types.ParseLayout(name)
}

// Extract decodes the costume stored in a JPEG buffer.
//
// Warnings are logged and dropped; use WithStrictParsing to fail on them,
// or OpenBytes to inspect them.
//
// Example:
//
//	data, _ := os.ReadFile("screenshot.jpg")
//	c, err := costume.Extract(data)
//	if err != nil {
//		return err
//	}
//	fmt.Println(c.String())
func Extract(data []byte, opts ...Option) (Costume, error) {
	f, err := OpenBytes(data, "", opts...)
	if err != nil {
		return Costume{}, err
	}
	return f.Costume, nil
}

// ExtractSegment returns a copy of the raw APP13 segment of a JPEG buffer,
// marker and length included. The segment is not decoded.
func ExtractSegment(data []byte, opts ...Option) ([]byte, error) {
	options := applyOptions(opts)
	seg, err := app13.Locate(data, options.app13(""))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data[seg.Offset:seg.End()]...), nil
}

// Pack encodes c as a complete APP13 segment ready for Graft.
func Pack(c Costume, opts ...Option) ([]byte, error) {
	options := applyOptions(opts)
	seg, err := app13.Pack(c, options.layout)
	if err != nil {
		return nil, fmt.Errorf("pack costume: %w", err)
	}
	options.logger.Debug("costume packed",
		"layout", options.layout.String(),
		"bytes", len(seg),
		"species", c.HasSpecies())
	return seg, nil
}

// Graft replaces the APP13 segment of jpeg with seg and returns the new
// buffer. Without WithInsertMissing a JPEG that has no APP13 segment is
// rejected with a *MarkerNotFoundError.
func Graft(jpeg, seg []byte, opts ...Option) ([]byte, error) {
	options := applyOptions(opts)
	out, err := app13.Graft(jpeg, seg, options.app13(""))
	if err != nil {
		return nil, fmt.Errorf("graft costume: %w", err)
	}
	return out, nil
}

// ToDocument converts c into its structured form.
func ToDocument(c Costume) Document {
	return record.ToDocument(c)
}

// FromDocument converts a structured document into a costume. Every missing
// required key is reported as a *MissingKeyError.
func FromDocument(d Document) (Costume, error) {
	return record.FromDocument(d)
}

// ToJSON encodes c as an indented JSON document.
func ToJSON(c Costume) ([]byte, error) {
	return record.MarshalJSON(c)
}

// FromJSON decodes a JSON document into a costume.
//
// Example:
//
//	data, _ := os.ReadFile("costume.json")
//	c, err := costume.FromJSON(data)
func FromJSON(b []byte) (Costume, error) {
	return record.UnmarshalJSON(b)
}
