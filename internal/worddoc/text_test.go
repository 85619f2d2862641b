package worddoc

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/dgallion1/docfmt/internal/lebin"
)

func TestNewPieceTable_Bounds(t *testing.T) {
	main := make([]byte, 2048)
	copy(main, "abc")
	tests := []struct {
		name     string
		pieces   []Piece
		outRange bool
	}{
		{"text past stream", []Piece{{CPStart: 0, CPEnd: 0x10000000, FC: 1024}}, true},
		{"fc end wraps", []Piece{{CPStart: 0, CPEnd: 0x80000001, FC: 0xFFFFFFF0}}, true},
		{"sparse positions", []Piece{{CPStart: 0x10000000, CPEnd: 0x10000001, FC: 0, Compressed: true}}, false},
		{"overlapping pieces", []Piece{{CPStart: 0, CPEnd: 3, Compressed: true}, {CPStart: 2, CPEnd: 4, FC: 10, Compressed: true}}, false},
		{"reversed range", []Piece{{CPStart: 5, CPEnd: 3, Compressed: true}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, err := newPieceTable(tt.pieces, main)
			if err == nil {
				t.Fatalf("expected error, got table of %d characters", pt.Len())
			}
			if errors.Is(err, lebin.ErrOutOfRange) != tt.outRange {
				t.Errorf("expected out of range=%v, got %v", tt.outRange, err)
			}
		})
	}

	pt, err := newPieceTable([]Piece{{CPStart: 0, CPEnd: 3, Compressed: true}}, main)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pt.String(0, 3); got != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
}

func TestParsePieceTable_OversizedPiece(t *testing.T) {
	clx := []byte{clxPcdt}
	clx = binary.LittleEndian.AppendUint32(clx, 16)
	clx = binary.LittleEndian.AppendUint32(clx, 0)
	clx = binary.LittleEndian.AppendUint32(clx, 0x10000000)
	clx = binary.LittleEndian.AppendUint16(clx, 0)
	clx = binary.LittleEndian.AppendUint32(clx, 1024)
	clx = binary.LittleEndian.AppendUint16(clx, 0)

	pieces, err := parsePieceTable(clx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) != 1 || pieces[0].CPEnd != 0x10000000 {
		t.Fatalf("expected one piece ending at 0x10000000, got %+v", pieces)
	}
	if _, err := newPieceTable(pieces, make([]byte, 2048)); !errors.Is(err, lebin.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
