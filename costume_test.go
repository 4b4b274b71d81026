package costume_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crypticcostume/costume"
)

func strPtr(s string) *string { return &s }

func sampleCostume() costume.Costume {
	return costume.Costume{
		Version:   1,
		GameName:  "Foo",
		GameID:    "foo-1",
		Gender:    "Gender:F",
		Account:   "acct",
		Character: "Hero",
		UID:       "u1",
		Data:      "payload",
	}
}

// app0 is a minimal JFIF header segment.
var app0 = []byte{0xFF, 0xE0, 0x00, 0x07, 'J', 'F', 'I', 'F', 0x00}

// createJPEG returns a JPEG buffer carrying c in an APP13 segment.
func createJPEG(tb testing.TB, c costume.Costume, opts ...costume.Option) []byte {
	tb.Helper()

	seg, err := costume.Pack(c, opts...)
	if err != nil {
		tb.Fatalf("Pack failed: %v", err)
	}

	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(app0)
	buf.Write(seg)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// writeJPEG writes data to a file in a test directory and returns its path.
func writeJPEG(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	c := sampleCostume()
	c.Species = strPtr("Species:Elf")
	data := createJPEG(t, c)
	path := writeJPEG(t, t.TempDir(), "shot.jpg", data)

	file, err := costume.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if file.Path != path || file.Size != int64(len(data)) {
		t.Errorf("Path/Size = %q/%d, want %q/%d", file.Path, file.Size, path, len(data))
	}
	if !file.Costume.Equal(&c) {
		t.Errorf("Costume = %s, want %s", file.Costume.String(), c.String())
	}
	if file.Segment.Offset != 2+len(app0) {
		t.Errorf("Segment.Offset = %d, want %d", file.Segment.Offset, 2+len(app0))
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}

	seg := file.SegmentBytes()
	if seg[0] != 0xFF || seg[1] != 0xED || len(seg) != file.Segment.Length {
		t.Errorf("SegmentBytes() = %x...", seg[:4])
	}
}

func TestOpen_FileNotFound(t *testing.T) {
	_, err := costume.Open("/nonexistent/shot.jpg")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		check func(error) bool
	}{
		{
			name: "not a jpeg",
			data: []byte("\x89PNG\r\n\x1a\n"),
			check: func(err error) bool {
				var e *costume.UnsupportedFormatError
				return errors.As(err, &e)
			},
		},
		{
			name: "other layout",
			data: createJPEG(t, sampleCostume(), costume.WithLayout(costume.LayoutPhotoshop)),
			check: func(err error) bool {
				var e *costume.CorruptedFileError
				return errors.As(err, &e)
			},
		},
		{
			name: "no costume",
			data: append(append([]byte{0xFF, 0xD8}, app0...), 0xFF, 0xD9),
			check: func(err error) bool {
				var e *costume.MarkerNotFoundError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := costume.OpenBytes(tt.data, "shot.jpg")
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %T %v", err, err)
			}
		})
	}
}

// withResourceName renames the IPTC resource of a compact-layout buffer,
// which extraction reports as a warning.
func withResourceName(tb testing.TB, data []byte) []byte {
	tb.Helper()

	i := bytes.Index(data, []byte("8BIM\x04\x04\x00"))
	if i < 0 {
		tb.Fatal("resource header not found")
	}
	nameAt := i + 6

	out := append([]byte{}, data[:nameAt]...)
	out = append(out, 0x02, 'n', 'm')
	out = append(out, data[nameAt+1:]...)

	// Segment length grows by the two name bytes.
	segLen := int(data[2+len(app0)+2])<<8 | int(data[2+len(app0)+3])
	segLen += 2
	out[2+len(app0)+2] = byte(segLen >> 8)
	out[2+len(app0)+3] = byte(segLen)
	return out
}

func TestOpenBytes_Warnings(t *testing.T) {
	data := withResourceName(t, createJPEG(t, sampleCostume()))

	t.Run("collected by default", func(t *testing.T) {
		file, err := costume.OpenBytes(data, "shot.jpg")
		if err != nil {
			t.Fatalf("OpenBytes failed: %v", err)
		}
		if len(file.Warnings) != 1 || file.Warnings[0].Stage != "resource" {
			t.Errorf("Warnings = %v, want one resource warning", file.Warnings)
		}
		want := sampleCostume()
		if !file.Costume.Equal(&want) {
			t.Errorf("Costume = %s", file.Costume.String())
		}
	})

	t.Run("ignored", func(t *testing.T) {
		file, err := costume.OpenBytes(data, "shot.jpg", costume.WithIgnoreWarnings())
		if err != nil {
			t.Fatalf("OpenBytes failed: %v", err)
		}
		if len(file.Warnings) != 0 {
			t.Errorf("Warnings = %v, want none", file.Warnings)
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, err := costume.OpenBytes(data, "shot.jpg", costume.WithStrictParsing())
		if err == nil || !strings.Contains(err.Error(), "strict parsing failed") {
			t.Errorf("expected strict parsing error, got %v", err)
		}
	})
}

func TestExtract(t *testing.T) {
	data := createJPEG(t, sampleCostume())

	c, err := costume.Extract(data)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if c.Species != nil {
		t.Errorf("Species = %q, want nil", *c.Species)
	}
	if c.GenderName() != "F" {
		t.Errorf("GenderName() = %q, want F", c.GenderName())
	}
}

func TestExtractSegment(t *testing.T) {
	seg, err := costume.Pack(sampleCostume())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	data := createJPEG(t, sampleCostume())

	got, err := costume.ExtractSegment(data)
	if err != nil {
		t.Fatalf("ExtractSegment failed: %v", err)
	}
	if !bytes.Equal(got, seg) {
		t.Error("ExtractSegment() should return the packed segment")
	}

	got[0] = 0x00
	if data[2+len(app0)] != 0xFF {
		t.Error("ExtractSegment() should return a copy")
	}
}

func TestPack_Layouts(t *testing.T) {
	compact, err := costume.Pack(sampleCostume())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	photoshop, err := costume.Pack(sampleCostume(), costume.WithLayout(costume.LayoutPhotoshop))
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if len(photoshop) != len(compact)+1 {
		t.Errorf("photoshop layout should add one name pad byte: %d vs %d", len(photoshop), len(compact))
	}

	data := createJPEG(t, sampleCostume(), costume.WithLayout(costume.LayoutPhotoshop))
	c, err := costume.Extract(data, costume.WithLayout(costume.LayoutPhotoshop), costume.WithStrictParsing())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := sampleCostume()
	if !c.Equal(&want) {
		t.Errorf("Costume = %s", c.String())
	}
}

func TestGraft(t *testing.T) {
	target := createJPEG(t, sampleCostume())

	c := sampleCostume()
	c.Character = "Villain"
	c.Species = strPtr("Species:Orc")
	seg, err := costume.Pack(c)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	out, err := costume.Graft(target, seg)
	if err != nil {
		t.Fatalf("Graft failed: %v", err)
	}
	if !bytes.Equal(out[:2+len(app0)], target[:2+len(app0)]) {
		t.Error("bytes before the segment should be unchanged")
	}

	got, err := costume.Extract(out)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !got.Equal(&c) {
		t.Errorf("Costume = %s, want %s", got.String(), c.String())
	}

	again, err := costume.Graft(out, seg)
	if err != nil {
		t.Fatalf("Graft failed: %v", err)
	}
	if !bytes.Equal(again, out) {
		t.Error("grafting the same segment twice should be a no-op")
	}
}

func TestGraft_InsertMissing(t *testing.T) {
	bare := append(append([]byte{0xFF, 0xD8}, app0...), 0xFF, 0xD9)
	seg, err := costume.Pack(sampleCostume())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if _, err := costume.Graft(bare, seg); err == nil {
		t.Fatal("expected error for JPEG without APP13")
	}

	out, err := costume.Graft(bare, seg, costume.WithInsertMissing())
	if err != nil {
		t.Fatalf("Graft failed: %v", err)
	}
	c, err := costume.Extract(out, costume.WithSegmentScan())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := sampleCostume()
	if !c.Equal(&want) {
		t.Errorf("Costume = %s", c.String())
	}
}

func TestJSON(t *testing.T) {
	c := sampleCostume()
	c.Species = strPtr("Species:Elf")

	b, err := costume.ToJSON(c)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	got, err := costume.FromJSON(b)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if !got.Equal(&c) {
		t.Errorf("round trip = %s, want %s", got.String(), c.String())
	}

	d := costume.ToDocument(c)
	d.Owner = nil
	_, err = costume.FromDocument(d)
	var missing *costume.MissingKeyError
	if !errors.As(err, &missing) || missing.Key != "owner" {
		t.Errorf("expected missing owner key, got %v", err)
	}
}
