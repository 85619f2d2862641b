package wordfmt

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// Plex is a read-only view over a PLC: count+1 four-byte positions followed
// by count records of structSize bytes.
type Plex struct {
	data       []byte
	structSize int
	count      int
}

// NewPlex interprets data as a PLC with records of structSize bytes.
// Trailing bytes that do not form a whole record are tolerated.
func NewPlex(data []byte, structSize int) (*Plex, error) {
	if structSize < 0 {
		return nil, fmt.Errorf("%w: negative record size %d", ErrMalformedPlex, structSize)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: length %d leaves no room for the final position", ErrMalformedPlex, len(data))
	}
	count := (len(data) - 4) / (4 + structSize)
	return &Plex{data: data, structSize: structSize, count: count}, nil
}

// Len returns the number of records.
func (p *Plex) Len() int { return p.count }

// StructSize returns the record size.
func (p *Plex) StructSize() int { return p.structSize }

// StructOffset returns the byte offset of record i.
func (p *Plex) StructOffset(i int) int {
	return 4*(p.count+1) + p.structSize*i
}

// Slack reports bytes beyond the last whole record.
func (p *Plex) Slack() int {
	return len(p.data) - (4 + (4+p.structSize)*p.count)
}

// Position returns the i'th boundary, 0 <= i <= Len().
func (p *Plex) Position(i int) (uint32, error) {
	if i < 0 || i > p.count {
		return 0, &lebin.OutOfRangeError{Offset: 4 * i, Width: 4, Len: 4 * (p.count + 1)}
	}
	return lebin.Uint32(p.data, 4*i)
}

// Property returns entry i with a copy of its record bytes.
func (p *Plex) Property(i int) (GenericNode, error) {
	if i < 0 || i >= p.count {
		return GenericNode{}, &lebin.OutOfRangeError{Offset: i, Width: 1, Len: p.count}
	}
	start, err := p.Position(i)
	if err != nil {
		return GenericNode{}, err
	}
	end, err := p.Position(i + 1)
	if err != nil {
		return GenericNode{}, err
	}
	rec, err := lebin.Bytes(p.data, p.StructOffset(i), p.structSize)
	if err != nil {
		return GenericNode{}, err
	}
	return GenericNode{Start: start, End: end, Bytes: rec}, nil
}
