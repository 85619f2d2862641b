package lebin

import (
	"fmt"
	"unicode/utf16"
)

// Cursor reads sequentially from a byte slice. A failed read leaves the
// position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves to an absolute offset.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return &OutOfRangeError{Offset: off, Len: len(c.data)}
	}
	c.pos = off
	return nil
}

// Skip advances the read position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("skip count %d is negative", n)
	}
	if err := Check(c.data, c.pos, n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) Uint8() (uint8, error) {
	v, err := Uint8(c.data, c.pos)
	if err == nil {
		c.pos++
	}
	return v, err
}

func (c *Cursor) Uint16() (uint16, error) {
	v, err := Uint16(c.data, c.pos)
	if err == nil {
		c.pos += 2
	}
	return v, err
}

func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

func (c *Cursor) Uint32() (uint32, error) {
	v, err := Uint32(c.data, c.pos)
	if err == nil {
		c.pos += 4
	}
	return v, err
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// Bytes reads a copy of the next n bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	v, err := Bytes(c.data, c.pos, n)
	if err == nil {
		c.pos += n
	}
	return v, err
}

// UTF16 reads n UTF-16LE code units and decodes them.
func (c *Cursor) UTF16(n int) (string, error) {
	raw, err := c.Bytes(2 * n)
	if err != nil {
		return "", err
	}
	return DecodeUTF16(raw), nil
}

// DecodeUTF16 decodes UTF-16LE bytes. A trailing odd byte is ignored.
func DecodeUTF16(raw []byte) string {
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}
