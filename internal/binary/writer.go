package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{
		w:      w,
		offset: 0,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Write writes a value of type T in big-endian byte order.
// T must be uint8, uint16, or uint32.
func Write[T uint8 | uint16 | uint32](sw *SafeWriter, val T) error {
	return sw.WriteBytes(Put(val))
}

// Put returns the big-endian encoding of val.
func Put[T uint8 | uint16 | uint32](val T) []byte {
	var zero T
	switch any(zero).(type) {
	case uint16:
		return binary.BigEndian.AppendUint16(nil, uint16(val))
	case uint32:
		return binary.BigEndian.AppendUint32(nil, uint32(val))
	default:
		return []byte{byte(val)}
	}
}
