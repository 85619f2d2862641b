// Package lebin provides bounds-checked little-endian reads over byte slices.
package lebin

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every OutOfRangeError.
var ErrOutOfRange = errors.New("read out of range")

// OutOfRangeError reports a read of Width bytes at Offset in a buffer of Len bytes.
type OutOfRangeError struct {
	Offset int
	Width  int
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset %d exceeds buffer length %d", e.Width, e.Offset, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Check verifies that width bytes can be read at off.
func Check(buf []byte, off, width int) error {
	if off < 0 || width < 0 || off > len(buf)-width {
		return &OutOfRangeError{Offset: off, Width: width, Len: len(buf)}
	}
	return nil
}

// Uint8 reads the byte at off.
func Uint8(buf []byte, off int) (uint8, error) {
	if err := Check(buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

// Int8 reads the byte at off as a signed value.
func Int8(buf []byte, off int) (int8, error) {
	v, err := Uint8(buf, off)
	return int8(v), err
}

// Uint16 reads a little-endian uint16 at off.
func Uint16(buf []byte, off int) (uint16, error) {
	if err := Check(buf, off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[off:]), nil
}

// Int16 reads a little-endian int16 at off.
func Int16(buf []byte, off int) (int16, error) {
	v, err := Uint16(buf, off)
	return int16(v), err
}

// Uint24 reads a packed 3-byte unsigned integer.
func Uint24(buf []byte, off int) (uint32, error) {
	if err := Check(buf, off, 3); err != nil {
		return 0, err
	}
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16, nil
}

// Uint32 reads a little-endian uint32 at off.
func Uint32(buf []byte, off int) (uint32, error) {
	if err := Check(buf, off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

// Int32 reads a little-endian int32 at off.
func Int32(buf []byte, off int) (int32, error) {
	v, err := Uint32(buf, off)
	return int32(v), err
}

// Bytes returns a copy of n bytes starting at off.
func Bytes(buf []byte, off, n int) ([]byte, error) {
	if err := Check(buf, off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, nil
}

// PutUint16 writes v at off.
func PutUint16(buf []byte, off int, v uint16) error {
	if err := Check(buf, off, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf[off:], v)
	return nil
}

// PutUint32 writes v at off.
func PutUint32(buf []byte, off int, v uint32) error {
	if err := Check(buf, off, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[off:], v)
	return nil
}
