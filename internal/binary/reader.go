// Package binary provides type-safe big-endian reading and writing primitives
// with bounds checking.
package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/crypticcostume/costume/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
//
// A SafeReader may be a window into a larger buffer (see Section). Offsets
// passed to its methods are relative to the window; offsets reported in
// errors are absolute.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
	base int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// FromBytes creates a SafeReader over an in-memory buffer.
func FromBytes(b []byte, path string) *SafeReader {
	return NewSafeReader(bytes.NewReader(b), int64(len(b)), path)
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// Base returns the absolute offset of the first readable byte.
func (sr *SafeReader) Base() int64 {
	return sr.base
}

func (sr *SafeReader) bounds(off int64, n int, what string) error {
	if off < 0 || off+int64(n) > sr.size || (n > 0 && off >= sr.size) {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: sr.base + off,
			Length: n,
			Size:   sr.base + sr.size,
		}
	}
	return nil
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if err := sr.bounds(off, len(b), what); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, sr.base+off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, sr.base+off, n, len(b))
	}

	return nil
}

// Bytes reads n bytes at the given offset into a new slice.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Section returns a reader restricted to n bytes starting at off.
// Reads past the end of the section fail even if the parent has more data.
func (sr *SafeReader) Section(off, n int64, what string) (*SafeReader, error) {
	if n < 0 {
		return nil, &types.OutOfBoundsError{Path: sr.path, What: what, Offset: sr.base + off, Size: sr.base + sr.size}
	}
	if err := sr.bounds(off, int(n), what); err != nil {
		return nil, err
	}
	return &SafeReader{
		r:    io.NewSectionReader(sr.r, off, n),
		path: sr.path,
		size: n,
		base: sr.base + off,
	}, nil
}

// Read reads a big-endian value of type T from the given offset.
// T must be uint8, uint16, or uint32.
func Read[T uint8 | uint16 | uint32](sr *SafeReader, off int64, what string) (T, error) {
	var zero T

	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(binary.BigEndian.Uint16(buf))
	case uint32:
		val = T(binary.BigEndian.Uint32(buf))
	}

	return val, nil
}

func sizeOf[T uint8 | uint16 | uint32]() int {
	var zero T
	switch any(zero).(type) {
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 1
	}
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32](r *Reader, what string) (T, error) {
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadBytes reads length bytes and advances the offset.
func (r *Reader) ReadBytes(length int, what string) ([]byte, error) {
	buf, err := r.SafeReader.Bytes(r.offset, length, what)
	if err != nil {
		return nil, err
	}

	r.offset += int64(length)
	return buf, nil
}

// ReadCString reads a NUL-terminated string and advances the offset past
// the terminator. Running out of data before the NUL is a bounds error.
func (r *Reader) ReadCString(what string) (string, error) {
	var buf []byte
	for {
		c, err := ReadValue[uint8](r, what)
		if err != nil {
			return "", err
		}
		if c == 0 {
			return string(buf), nil
		}
		buf = append(buf, c)
	}
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
