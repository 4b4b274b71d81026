// Package record maps IPTC tag streams to costume records and back.
//
// A costume is stored as a fixed sequence of tags. The species tag is the
// only optional entry; when present it sits in the fifth slot and shifts the
// owner and payload tags by one.
package record

import (
	"fmt"

	"github.com/crypticcostume/costume/internal/binary"
	"github.com/crypticcostume/costume/internal/iptc"
	"github.com/crypticcostume/costume/internal/types"
)

// Tag counts of the two costume shapes.
const (
	TagsWithoutSpecies = 8
	TagsWithSpecies    = 9
)

// IPTC application record numbers used by costumes.
const (
	recordApplication = 2

	numberVersion  = 0   // Record version
	numberKeywords = 25  // Keywords: game and character descriptors
	numberContact  = 120 // Caption/abstract, reused for owner identity
	numberPayload  = 202 // Object data preview, reused for the costume body
)

type fieldID int

const (
	fieldVersion fieldID = iota
	fieldGameName
	fieldGameID
	fieldGender
	fieldSpecies
	fieldAccount
	fieldCharacter
	fieldUID
	fieldData
)

type slot struct {
	name     string
	id       fieldID
	number   uint8
	optional bool
}

// slots lists the costume tags in stream order.
var slots = []slot{
	{name: "version", id: fieldVersion, number: numberVersion},
	{name: "game name", id: fieldGameName, number: numberKeywords},
	{name: "game id", id: fieldGameID, number: numberKeywords},
	{name: "gender", id: fieldGender, number: numberKeywords},
	{name: "species", id: fieldSpecies, number: numberKeywords, optional: true},
	{name: "account", id: fieldAccount, number: numberContact},
	{name: "character", id: fieldCharacter, number: numberContact},
	{name: "uid", id: fieldUID, number: numberContact},
	{name: "data", id: fieldData, number: numberPayload},
}

// Decode builds a costume from an ordered tag sequence.
//
// An empty sequence yields the empty costume. Eight tags decode without a
// species, nine with one; any other count is a *types.TagCountError.
// Tags whose record or tag numbers differ from the usual layout are still
// decoded by position and reported as warnings.
func Decode(tags []iptc.Tag) (types.Costume, []types.Warning, error) {
	var c types.Costume
	var warnings []types.Warning

	withSpecies := false
	switch len(tags) {
	case 0:
		return c, nil, nil
	case TagsWithoutSpecies:
	case TagsWithSpecies:
		withSpecies = true
	default:
		return types.Costume{}, nil, &types.TagCountError{Count: len(tags)}
	}

	i := 0
	for _, s := range slots {
		if s.optional && !withSpecies {
			continue
		}
		tag := tags[i]
		i++

		if tag.Record != recordApplication || tag.Number != s.number {
			warnings = append(warnings, types.Warning{
				Stage: "record",
				Message: fmt.Sprintf("%s stored as IPTC %d:%d, expected %d:%d",
					s.name, tag.Record, tag.Number, recordApplication, s.number),
			})
		}

		if s.id == fieldVersion {
			if tag.Size() != 2 {
				return types.Costume{}, nil, &types.FieldError{
					Field:  s.name,
					Reason: fmt.Sprintf("expected 2 bytes, got %d", tag.Size()),
				}
			}
			v, err := binary.Read[uint16](binary.FromBytes(tag.Data, s.name), 0, s.name)
			if err != nil {
				return types.Costume{}, nil, err
			}
			c.Version = v
			continue
		}

		text, err := decodeText(s.name, tag.Data)
		if err != nil {
			return types.Costume{}, nil, err
		}
		*textField(&c, s.id) = text
	}

	return c, warnings, nil
}

// Encode returns the tag sequence for c, in stream order.
func Encode(c types.Costume) ([]iptc.Tag, error) {
	tags := make([]iptc.Tag, 0, TagsWithSpecies)
	for _, s := range slots {
		tag := iptc.Tag{Record: recordApplication, Number: s.number}

		switch {
		case s.id == fieldVersion:
			tag.Data = binary.Put(c.Version)
		case s.optional && c.Species == nil:
			continue
		default:
			data, err := encodeText(s.name, *textField(&c, s.id))
			if err != nil {
				return nil, err
			}
			tag.Data = data
		}

		if tag.Size() > iptc.MaxSize {
			return nil, &types.TagSizeError{Field: s.name, Size: tag.Size(), Limit: iptc.MaxSize}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// textField returns the costume field behind a text slot. The species
// pointer is allocated on demand.
func textField(c *types.Costume, id fieldID) *string {
	switch id {
	case fieldGameName:
		return &c.GameName
	case fieldGameID:
		return &c.GameID
	case fieldGender:
		return &c.Gender
	case fieldSpecies:
		if c.Species == nil {
			c.Species = new(string)
		}
		return c.Species
	case fieldAccount:
		return &c.Account
	case fieldCharacter:
		return &c.Character
	case fieldUID:
		return &c.UID
	case fieldData:
		return &c.Data
	default:
		panic(fmt.Sprintf("record: no text field for slot %d", id))
	}
}

// decodeText validates that data is 7-bit ASCII.
func decodeText(field string, data []byte) (string, error) {
	for i, b := range data {
		if b >= 0x80 {
			return "", &types.EncodingError{Field: field, Offset: i, Value: b}
		}
	}
	return string(data), nil
}

func encodeText(field, s string) ([]byte, error) {
	data := []byte(s)
	if _, err := decodeText(field, data); err != nil {
		return nil, err
	}
	return data, nil
}
