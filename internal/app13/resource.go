package app13

import (
	"bytes"
	"fmt"

	"github.com/crypticcostume/costume/internal/binary"
	"github.com/crypticcostume/costume/internal/iptc"
	"github.com/crypticcostume/costume/internal/record"
	"github.com/crypticcostume/costume/internal/types"
)

// Photoshop image resource constants.
const (
	Signature    = "Photoshop 3.0"
	ResourceType = "8BIM"
	ResourceIPTC = 0x0404
)

// Result holds everything Extract learned about a buffer.
type Result struct {
	Costume  types.Costume
	Segment  types.Segment
	Warnings []types.Warning
}

// Extract locates the APP13 segment of b and decodes the costume record
// stored in its IPTC-NAA resource.
func Extract(b []byte, o Options) (*Result, error) {
	seg, err := Locate(b, o)
	if err != nil {
		return nil, err
	}

	sr := binary.FromBytes(b, o.Path)
	body, err := sr.Section(int64(seg.Offset)+4, int64(seg.Length)-4, "APP13 payload")
	if err != nil {
		return nil, err
	}

	stream, warnings, err := readResource(body, o.Layout)
	if err != nil {
		return nil, err
	}

	tags, n, err := iptc.ReadTags(stream)
	if err != nil {
		return nil, err
	}

	// Bytes after the tags mean the header was read with the wrong layout
	// or the segment holds more than one resource.
	var leftover []types.Warning
	if w, ok := trailing(stream, n, "the last IPTC tag"); ok {
		leftover = append(leftover, w)
	}
	if w, ok := trailing(body, stream.Base()+stream.Size()-body.Base(), "the declared IPTC tag stream"); ok {
		leftover = append(leftover, w)
	}
	if len(tags) == 0 && len(leftover) > 0 {
		return nil, &types.CorruptedFileError{
			Path:   o.Path,
			Reason: fmt.Sprintf("no IPTC tags in resource data (resource header layout %s?)", o.Layout),
			Offset: stream.Base(),
		}
	}
	warnings = append(warnings, leftover...)

	c, recWarnings, err := record.Decode(tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Path, err)
	}
	for _, w := range recWarnings {
		w.Offset = stream.Base()
		warnings = append(warnings, w)
	}

	return &Result{Costume: c, Segment: seg, Warnings: warnings}, nil
}

// readResource checks the Photoshop resource header at the start of body and
// returns a reader over the IPTC tag stream it declares.
func readResource(body *binary.SafeReader, layout types.Layout) (*binary.SafeReader, []types.Warning, error) {
	var warnings []types.Warning
	r := binary.NewReader(body, 0)

	sigOff := r.Offset()
	sig, err := r.ReadCString("Photoshop signature")
	if err != nil {
		return nil, nil, err
	}
	if sig != Signature {
		return nil, nil, signatureError(body, "Photoshop signature", Signature, sig, sigOff)
	}

	typeOff := r.Offset()
	typ, err := r.ReadString(4, "resource type")
	if err != nil {
		return nil, nil, err
	}
	if typ != ResourceType {
		return nil, nil, signatureError(body, "resource type", ResourceType, typ, typeOff)
	}

	idOff := r.Offset()
	id, err := binary.ReadValue[uint16](r, "resource ID")
	if err != nil {
		return nil, nil, err
	}
	if id != ResourceIPTC {
		return nil, nil, signatureError(body, "resource ID",
			fmt.Sprintf("0x%04X", ResourceIPTC), fmt.Sprintf("0x%04X", id), idOff)
	}

	nameOff := r.Offset()
	nameLen, err := binary.ReadValue[uint8](r, "resource name length")
	if err != nil {
		return nil, nil, err
	}
	name, err := r.ReadString(int(nameLen), "resource name")
	if err != nil {
		return nil, nil, err
	}
	if name != "" {
		warnings = append(warnings, types.Warning{
			Stage:   "resource",
			Message: fmt.Sprintf("unexpected resource name %q", name),
			Offset:  body.Base() + nameOff,
		})
	}
	r.Skip(int64(namePad(int(nameLen), layout)))

	length, err := binary.ReadValue[uint32](r, "resource data length")
	if err != nil {
		return nil, nil, err
	}

	stream, err := body.Section(r.Offset(), int64(length), "IPTC tag stream")
	if err != nil {
		return nil, nil, err
	}
	return stream, warnings, nil
}

// trailing reports bytes left in r after its first n bytes. A single zero
// pad byte is expected after an odd-length stream and is not reported.
func trailing(r *binary.SafeReader, n int64, after string) (types.Warning, bool) {
	left := r.Size() - n
	if left == 0 {
		return types.Warning{}, false
	}
	if left == 1 {
		if pad, err := binary.Read[uint8](r, n, "tag stream pad"); err == nil && pad == 0 {
			return types.Warning{}, false
		}
	}
	return types.Warning{
		Stage:   "resource",
		Message: fmt.Sprintf("%d bytes after %s", left, after),
		Offset:  r.Base() + n,
	}, true
}

func signatureError(body *binary.SafeReader, what, expected, found string, off int64) error {
	return &types.SignatureError{
		Path:     body.Path(),
		What:     what,
		Expected: expected,
		Found:    found,
		Offset:   body.Base() + off,
	}
}

// namePad returns the number of pad bytes after a resource name.
func namePad(nameLen int, layout types.Layout) int {
	odd := nameLen%2 == 1
	if layout.PascalName {
		// length byte plus name rounded up to an even size
		odd = !odd
	}
	if odd {
		return 1
	}
	return 0
}

// Pack encodes c as a complete APP13 segment, marker and length included.
func Pack(c types.Costume, layout types.Layout) ([]byte, error) {
	tags, err := record.Encode(c)
	if err != nil {
		return nil, err
	}
	stream, err := iptc.Encode(tags)
	if err != nil {
		return nil, err
	}

	declared := len(stream)
	if len(stream)%2 == 1 {
		stream = append(stream, 0)
		if layout.PaddedLength {
			declared = len(stream)
		}
	}

	header := make([]byte, 0, len(Signature)+14)
	header = append(header, Signature...)
	header = append(header, 0)
	header = append(header, ResourceType...)
	header = append(header, binary.Put[uint16](ResourceIPTC)...)
	header = append(header, 0) // empty name
	header = append(header, make([]byte, namePad(0, layout))...)
	header = append(header, binary.Put(uint32(declared))...)

	payload := len(header) + len(stream)
	if payload > MaxPayload {
		return nil, &types.TagSizeError{Field: "APP13 segment", Size: payload, Limit: MaxPayload}
	}

	out := &bytes.Buffer{}
	out.Grow(4 + payload)
	sw := binary.NewSafeWriter(out)
	if err := sw.WriteBytes(app13Marker); err != nil {
		return nil, err
	}
	if err := binary.Write[uint16](sw, uint16(payload+2)); err != nil {
		return nil, err
	}
	if err := sw.WriteBytes(header); err != nil {
		return nil, err
	}
	if err := sw.WriteBytes(stream); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
