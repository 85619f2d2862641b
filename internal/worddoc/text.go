package worddoc

import (
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/dgallion1/docfmt/internal/lebin"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

const (
	clxPrc  = 0x01
	clxPcdt = 0x02
	pcdSize = 8

	fcCompressed = 0x40000000
)

// Piece is one contiguous stretch of text in the WordDocument stream.
type Piece struct {
	CPStart    int    `json:"cp_start"`
	CPEnd      int    `json:"cp_end"`
	FC         uint32 `json:"fc"`
	Compressed bool   `json:"compressed"`
	Prm        uint16 `json:"prm,omitempty"`
}

func (p Piece) width() uint32 {
	if p.Compressed {
		return 1
	}
	return 2
}

// FCEnd returns the stream offset just past the piece's text.
func (p Piece) FCEnd() int64 {
	return int64(p.FC) + int64(p.CPEnd-p.CPStart)*int64(p.width())
}

// fcAt maps a character position inside the piece to its stream offset.
func (p Piece) fcAt(cp int) uint32 {
	return p.FC + uint32(cp-p.CPStart)*p.width()
}

// cpAt maps a stream offset inside the piece back to a character position,
// rounding up so a range end stays exclusive.
func (p Piece) cpAt(fc uint32) int {
	w := p.width()
	return p.CPStart + int((fc-p.FC+w-1)/w)
}

// parsePieceTable walks the CLX: any number of Prc blocks, then the Pcdt.
func parsePieceTable(clx []byte) ([]Piece, error) {
	c := lebin.NewCursor(clx)
	for {
		kind, err := c.Uint8()
		if err != nil {
			return nil, fmt.Errorf("clx: %w", err)
		}
		if kind == clxPcdt {
			break
		}
		if kind != clxPrc {
			return nil, fmt.Errorf("clx: unexpected block type 0x%02X at %d", kind, c.Pos()-1)
		}
		n, err := c.Uint16()
		if err != nil {
			return nil, fmt.Errorf("clx prc: %w", err)
		}
		if err := c.Skip(int(n)); err != nil {
			return nil, fmt.Errorf("clx prc: %w", err)
		}
	}
	size, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("clx pcdt: %w", err)
	}
	plc, err := c.Bytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("clx pcdt: %w", err)
	}
	plex, err := wordfmt.NewPlex(plc, pcdSize)
	if err != nil {
		return nil, fmt.Errorf("clx pcdt: %w", err)
	}
	pieces := make([]Piece, 0, plex.Len())
	for i := range plex.Len() {
		node, err := plex.Property(i)
		if err != nil {
			return nil, fmt.Errorf("piece %d: %w", i, err)
		}
		pcd := lebin.NewRecord(node.Bytes)
		fc := pcd.Uint32(2)
		prm := pcd.Uint16(6)
		if err := pcd.Err(); err != nil {
			return nil, fmt.Errorf("piece %d: %w", i, err)
		}
		p := Piece{CPStart: int(node.Start), CPEnd: int(node.End), FC: fc, Prm: prm}
		if fc&fcCompressed != 0 {
			p.Compressed = true
			p.FC = (fc &^ fcCompressed) / 2
		}
		if p.CPEnd < p.CPStart {
			return nil, fmt.Errorf("piece %d: end %d before start %d", i, p.CPEnd, p.CPStart)
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

// pieceTable is the document text indexed by character position, one
// UTF-16 code unit per position, plus the pieces it came from.
type pieceTable struct {
	pieces []Piece
	text   []uint16
}

func newPieceTable(pieces []Piece, main []byte) (*pieceTable, error) {
	pt := &pieceTable{pieces: pieces}
	slices.SortFunc(pt.pieces, func(a, b Piece) int { return a.CPStart - b.CPStart })
	end := 0
	for i, p := range pt.pieces {
		if p.CPStart < 0 || p.CPEnd < p.CPStart {
			return nil, fmt.Errorf("piece %d: bad range [%d, %d)", i, p.CPStart, p.CPEnd)
		}
		if i > 0 && p.CPStart < pt.pieces[i-1].CPEnd {
			return nil, fmt.Errorf("piece %d: starts at %d inside the previous piece", i, p.CPStart)
		}
		if fcEnd := p.FCEnd(); fcEnd > int64(len(main)) {
			return nil, fmt.Errorf("piece %d text: %w", i, &lebin.OutOfRangeError{Offset: int(p.FC), Width: int(fcEnd - int64(p.FC)), Len: len(main)})
		}
		end = max(end, p.CPEnd)
	}
	// Every character takes at least one byte of the stream.
	if end > len(main) {
		return nil, fmt.Errorf("text of %d characters exceeds stream of %d bytes", end, len(main))
	}
	pt.text = make([]uint16, end)
	dec := charmap.Windows1252.NewDecoder()
	for i, p := range pt.pieces {
		raw, err := lebin.Bytes(main, int(p.FC), int(p.FCEnd()-int64(p.FC)))
		if err != nil {
			return nil, fmt.Errorf("piece %d text: %w", i, err)
		}
		dst := pt.text[p.CPStart:p.CPEnd]
		if !p.Compressed {
			for j := range dst {
				dst[j] = uint16(raw[2*j]) | uint16(raw[2*j+1])<<8
			}
			continue
		}
		decoded, err := dec.Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("piece %d text: %w", i, err)
		}
		runes := []rune(string(decoded))
		if len(runes) != len(dst) {
			return nil, fmt.Errorf("piece %d text: decoded %d characters from %d bytes", i, len(runes), len(raw))
		}
		for j, r := range runes {
			dst[j] = uint16(r)
		}
	}
	return pt, nil
}

// Len returns the number of character positions covered.
func (pt *pieceTable) Len() int { return len(pt.text) }

// At returns the code unit at cp.
func (pt *pieceTable) At(cp int) uint16 { return pt.text[cp] }

// String decodes the characters in [start, end).
func (pt *pieceTable) String(start, end int) string {
	start = max(start, 0)
	end = min(end, len(pt.text))
	if start >= end {
		return ""
	}
	return string(utf16.Decode(pt.text[start:end]))
}

// pieceAt returns the piece holding cp.
func (pt *pieceTable) pieceAt(cp int) (Piece, bool) {
	i, found := slices.BinarySearchFunc(pt.pieces, cp, func(p Piece, cp int) int {
		switch {
		case cp < p.CPStart:
			return 1
		case cp >= p.CPEnd:
			return -1
		}
		return 0
	})
	if !found {
		return Piece{}, false
	}
	return pt.pieces[i], true
}

// FC maps a character position to its offset in the WordDocument stream.
func (pt *pieceTable) FC(cp int) (uint32, bool) {
	p, ok := pt.pieceAt(cp)
	if !ok {
		return 0, false
	}
	return p.fcAt(cp), true
}

// span is a character range together with the stream range holding it.
type span struct {
	piece   Piece
	cpStart int
	cpEnd   int
	fcStart uint32
	fcEnd   uint32
}

// spans splits [start, end) at piece boundaries.
func (pt *pieceTable) spans(start, end int) []span {
	var out []span
	for _, p := range pt.pieces {
		a, b := max(start, p.CPStart), min(end, p.CPEnd)
		if a >= b {
			continue
		}
		out = append(out, span{piece: p, cpStart: a, cpEnd: b, fcStart: p.fcAt(a), fcEnd: p.fcAt(b)})
	}
	return out
}

// singlePiece describes a document without a piece table: all of the text
// sits at fcMin, one byte per character when the stream range is exactly
// as long as the text.
func singlePiece(fib FIB) []Piece {
	ccp := int(fib.CcpText)
	compressed := fib.FcMac > fib.FcMin && fib.FcMac-fib.FcMin == uint32(ccp)
	return []Piece{{CPStart: 0, CPEnd: ccp, FC: fib.FcMin, Compressed: compressed}}
}
