package lebin

import "encoding/binary"

// Record reads fields at fixed offsets of one structure. The first failed
// read is kept and later reads return zero, so a decoder checks Err once
// after filling in every field.
type Record struct {
	buf []byte
	err error
}

// NewRecord returns a Record over buf.
func NewRecord(buf []byte) *Record {
	return &Record{buf: buf}
}

// Err returns the first read error, if any.
func (r *Record) Err() error { return r.err }

func (r *Record) check(off, width int) bool {
	if r.err != nil {
		return false
	}
	r.err = Check(r.buf, off, width)
	return r.err == nil
}

func (r *Record) Uint8(off int) uint8 {
	if !r.check(off, 1) {
		return 0
	}
	return r.buf[off]
}

func (r *Record) Uint16(off int) uint16 {
	if !r.check(off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[off:])
}

func (r *Record) Int16(off int) int16 { return int16(r.Uint16(off)) }

func (r *Record) Uint32(off int) uint32 {
	if !r.check(off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[off:])
}

func (r *Record) Int32(off int) int32 { return int32(r.Uint32(off)) }
