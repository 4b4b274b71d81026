package costume

import (
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name: "offset beyond size",
			err: &OutOfBoundsError{
				Path:   "shot.jpg",
				Offset: 1000,
				Length: 4,
				Size:   500,
				What:   "APP13 segment length",
			},
			contains: []string{"shot.jpg", "offset 1000 out of bounds", "size: 500", "APP13 segment length"},
		},
		{
			name: "read would exceed size",
			err: &OutOfBoundsError{
				Path:   "shot.jpg",
				Offset: 100,
				Length: 50,
				Size:   120,
				What:   "IPTC tag stream",
			},
			contains: []string{"shot.jpg", "read of 50 bytes", "offset 100", "exceed size 120", "IPTC tag stream"},
		},
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Path: "shot.png", Reason: "not a JPEG: missing SOI marker"},
			contains: []string{"shot.png", "unsupported format", "missing SOI"},
		},
		{
			name:     "marker not found",
			err:      &MarkerNotFoundError{Path: "shot.jpg", Marker: "APP13"},
			contains: []string{"shot.jpg", "APP13 marker not found"},
		},
		{
			name:     "corrupted file",
			err:      &CorruptedFileError{Path: "shot.jpg", Reason: "bad length", Offset: 42},
			contains: []string{"shot.jpg", "offset 42", "bad length"},
		},
		{
			name: "signature mismatch",
			err: &SignatureError{
				Path:     "shot.jpg",
				What:     "Photoshop signature",
				Expected: "Photoshop 3.0",
				Found:    "Adobe_CM",
				Offset:   6,
			},
			contains: []string{"shot.jpg", "Photoshop signature", "offset 6", `"Adobe_CM"`, `"Photoshop 3.0"`},
		},
		{
			name:     "encoding",
			err:      &EncodingError{Field: "character", Offset: 3, Value: 0xE9},
			contains: []string{"character", "0xe9", "index 3", "not ASCII"},
		},
		{
			name:     "tag count",
			err:      &TagCountError{Count: 7},
			contains: []string{"7 tags", "8 or 9"},
		},
		{
			name:     "field",
			err:      &FieldError{Field: "version", Reason: "expected 2 bytes, got 3"},
			contains: []string{"version", "expected 2 bytes"},
		},
		{
			name:     "tag size",
			err:      &TagSizeError{Field: "data", Size: 70000, Limit: 65535},
			contains: []string{"data", "70000 bytes", "65535"},
		},
		{
			name:     "missing key",
			err:      &MissingKeyError{Key: "owner.uid"},
			contains: []string{`"owner.uid"`, "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestWarning_String(t *testing.T) {
	tests := []struct {
		name string
		w    Warning
		want string
	}{
		{
			name: "with offset",
			w:    Warning{Stage: "resource", Message: "unexpected resource name", Offset: 30},
			want: "resource (at offset 30): unexpected resource name",
		},
		{
			name: "without offset",
			w:    Warning{Stage: "record", Message: "uid stored as IPTC 2:5"},
			want: "record: uid stored as IPTC 2:5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
