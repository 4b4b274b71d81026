// Package iptc encodes and decodes IPTC-NAA tag records.
//
// A tag record is the unit of an IPTC stream:
//
//	0x1C | record number | tag number | size (u16, big-endian) | data
//
// Only the framing is handled here; the meaning of each tag is up to the
// caller.
package iptc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/crypticcostume/costume/internal/binary"
	"github.com/crypticcostume/costume/internal/types"
)

// Marker starts every tag record.
const Marker = 0x1C

// MaxSize is the largest payload a tag record can carry.
const MaxSize = 0xFFFF

// headerSize is the marker, record, tag and size bytes.
const headerSize = 5

// ErrNotTag is returned by DecodeTag when the byte at the offset is not a
// tag marker. Streams end this way, so callers usually stop rather than fail.
var ErrNotTag = errors.New("iptc: not a tag record")

// Tag is one IPTC tag record.
type Tag struct {
	Data   []byte
	Record uint8
	Number uint8
}

// Size returns the payload length declared by the record.
func (t Tag) Size() int {
	return len(t.Data)
}

// String returns a short description of the record.
func (t Tag) String() string {
	return fmt.Sprintf("IPTC %d:%d (%d bytes)", t.Record, t.Number, t.Size())
}

// DecodeTag decodes the tag record at off and returns it with the number of
// bytes it occupies.
func DecodeTag(sr *binary.SafeReader, off int64) (Tag, int64, error) {
	marker, err := binary.Read[uint8](sr, off, "IPTC tag marker")
	if err != nil {
		return Tag{}, 0, err
	}
	if marker != Marker {
		return Tag{}, 0, ErrNotTag
	}

	cr := binary.NewChainReader(binary.NewReader(sr, off+1))
	record := binary.ReadChained[uint8](cr, "IPTC record number")
	number := binary.ReadChained[uint8](cr, "IPTC tag number")
	size := binary.ReadChained[uint16](cr, "IPTC tag size")
	if err := cr.Error(); err != nil {
		return Tag{}, 0, err
	}

	data, err := cr.ReadBytes(int(size), fmt.Sprintf("IPTC %d:%d data", record, number))
	if err != nil {
		return Tag{}, 0, err
	}

	return Tag{Record: record, Number: number, Data: data}, headerSize + int64(size), nil
}

// ReadTags decodes consecutive tag records from the start of sr. Decoding
// stops at the end of the reader or at the first byte that is not a tag
// marker; neither is an error. The second result is the number of bytes
// consumed.
func ReadTags(sr *binary.SafeReader) ([]Tag, int64, error) {
	var tags []Tag
	off := int64(0)
	for off < sr.Size() {
		tag, n, err := DecodeTag(sr, off)
		if errors.Is(err, ErrNotTag) {
			break
		}
		if err != nil {
			return nil, off, fmt.Errorf("tag %d: %w", len(tags), err)
		}
		tags = append(tags, tag)
		off += n
	}
	return tags, off, nil
}

// EncodeTag writes one tag record.
func EncodeTag(sw *binary.SafeWriter, t Tag) error {
	if t.Size() > MaxSize {
		return &types.TagSizeError{
			Field: fmt.Sprintf("IPTC %d:%d", t.Record, t.Number),
			Size:  t.Size(),
			Limit: MaxSize,
		}
	}

	if err := binary.Write[uint8](sw, Marker); err != nil {
		return err
	}
	if err := binary.Write[uint8](sw, t.Record); err != nil {
		return err
	}
	if err := binary.Write[uint8](sw, t.Number); err != nil {
		return err
	}
	if err := binary.Write[uint16](sw, uint16(t.Size())); err != nil {
		return err
	}
	return sw.WriteBytes(t.Data)
}

// Encode concatenates the encoded form of tags.
func Encode(tags []Tag) ([]byte, error) {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	for _, t := range tags {
		if err := EncodeTag(sw, t); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
