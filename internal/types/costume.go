// Package types provides the core data structures shared by the costume
// codec layers.
//
// This package defines the Costume record, its structured Document form,
// the Segment location of an APP13 block, the Layout switches for the
// Photoshop resource encoding, and the error types returned by every layer.
package types

import (
	"fmt"
	"strings"
)

// Raw prefixes carried by the gender and species tags.
const (
	GenderPrefix  = "Gender:"
	SpeciesPrefix = "Species:"
)

// Costume is the application record stored in a costume screenshot.
//
// Gender and Species hold the raw tag text including their "Gender:" and
// "Species:" prefixes. Species is the only optional field: a costume without
// it is stored as 8 IPTC tags, a costume with it as 9.
//
// The zero value is the empty record produced from an empty tag stream.
type Costume struct {
	Species   *string
	GameName  string
	GameID    string
	Gender    string
	Account   string
	Character string
	UID       string
	Data      string
	Version   uint16
}

// IsEmpty reports whether c is the empty record.
func (c *Costume) IsEmpty() bool {
	return c.Equal(&Costume{})
}

// HasSpecies reports whether the optional species field is present.
func (c *Costume) HasSpecies() bool {
	return c.Species != nil
}

// GenderName returns the gender text with its prefix removed.
func (c *Costume) GenderName() string {
	return AfterColon(c.Gender)
}

// SpeciesName returns the species text with its prefix removed.
// ok is false when the costume has no species.
func (c *Costume) SpeciesName() (name string, ok bool) {
	if c.Species == nil {
		return "", false
	}
	return AfterColon(*c.Species), true
}

// Equal reports whether two costumes hold the same values.
func (c *Costume) Equal(o *Costume) bool {
	if (c.Species == nil) != (o.Species == nil) {
		return false
	}
	if c.Species != nil && *c.Species != *o.Species {
		return false
	}
	return c.Version == o.Version &&
		c.GameName == o.GameName &&
		c.GameID == o.GameID &&
		c.Gender == o.Gender &&
		c.Account == o.Account &&
		c.Character == o.Character &&
		c.UID == o.UID &&
		c.Data == o.Data
}

// String returns a one-line summary of the costume.
func (c *Costume) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Costume <Version=%d; Game=%s/%s; Gender=%s; ",
		c.Version, c.GameName, c.GameID, c.GenderName())
	if species, ok := c.SpeciesName(); ok {
		fmt.Fprintf(&b, "Species=%s; ", species)
	}
	fmt.Fprintf(&b, "Author=%s@%s; UID=%s>", c.Character, c.Account, c.UID)
	return b.String()
}

// AfterColon returns the text after the first ':' in s.
// Text without a colon is returned unchanged.
func AfterColon(s string) string {
	if _, after, found := strings.Cut(s, ":"); found {
		return after
	}
	return s
}

// Segment locates an APP13 segment inside a JPEG buffer.
type Segment struct {
	// Offset of the 0xFF byte of the marker
	Offset int
	// Length in bytes, marker and length field included
	Length int
}

// End returns the offset of the first byte after the segment.
func (s Segment) End() int {
	return s.Offset + s.Length
}

// Layout selects between the two encodings of the Photoshop resource header
// that costume files are found with.
//
// The zero value is the compact layout: a pad byte follows odd-length
// resource names only, and the declared resource length excludes the pad
// byte appended to an odd-length tag stream.
type Layout struct {
	// PascalName pads the resource name so that the length byte and the
	// name together occupy an even number of bytes.
	PascalName bool

	// PaddedLength counts the tag stream pad byte in the declared
	// resource data length.
	PaddedLength bool
}

// Predefined layouts.
var (
	// LayoutCompact is the default layout.
	LayoutCompact = Layout{}

	// LayoutPhotoshop follows the Adobe image resource conventions and
	// matches the segments written by the game client.
	LayoutPhotoshop = Layout{PascalName: true, PaddedLength: true}
)

// String returns the layout name used in configuration files.
func (l Layout) String() string {
	switch l {
	case LayoutCompact:
		return "compact"
	case LayoutPhotoshop:
		return "photoshop"
	default:
		return fmt.Sprintf("custom(pascal=%t, padded=%t)", l.PascalName, l.PaddedLength)
	}
}

// ParseLayout returns the layout with the given configuration name.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case "", "compact":
		return LayoutCompact, nil
	case "photoshop":
		return LayoutPhotoshop, nil
	default:
		return Layout{}, fmt.Errorf("unknown layout %q", name)
	}
}
