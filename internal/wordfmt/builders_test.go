package wordfmt

import (
	"encoding/binary"
	"unicode/utf16"
)

// sprm encodes one operation with its operand bytes appended as given.
func sprm(opcode uint16, operand ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, opcode)
	return append(b, operand...)
}

// varSprm encodes a spra 6 operation with a one-byte length prefix.
func varSprm(opcode uint16, operand ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, opcode)
	b = append(b, byte(len(operand)))
	return append(b, operand...)
}

func grpprl(ops ...[]byte) []byte {
	var out []byte
	for _, op := range ops {
		out = append(out, op...)
	}
	return out
}

func le16(v int) []byte {
	return binary.LittleEndian.AppendUint16(nil, uint16(v))
}

func le32(v int) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

func utf16le(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

type testStyle struct {
	empty bool
	name  string
	typ   uint16
	base  uint16
	upxs  [][]byte
}

const testStdBase = 10

// buildStylesheet lays out an STSH with an 18-byte STSHI and Word 97 STDs.
func buildStylesheet(fonts [3]int16, styles []testStyle) []byte {
	stshi := make([]byte, 18)
	binary.LittleEndian.PutUint16(stshi[0:], uint16(len(styles)))
	binary.LittleEndian.PutUint16(stshi[2:], testStdBase)
	for i, f := range fonts {
		binary.LittleEndian.PutUint16(stshi[12+2*i:], uint16(f))
	}
	out := le16(len(stshi))
	out = append(out, stshi...)

	for _, s := range styles {
		if s.empty {
			out = append(out, le16(0)...)
			continue
		}
		std := make([]byte, testStdBase)
		binary.LittleEndian.PutUint16(std[2:], s.typ|s.base<<4)
		binary.LittleEndian.PutUint16(std[4:], uint16(len(s.upxs)))
		std = append(std, le16(len([]rune(s.name)))...)
		std = append(std, utf16le(s.name)...)
		std = append(std, 0, 0)
		for _, upx := range s.upxs {
			std = append(std, le16(len(upx))...)
			std = append(std, upx...)
			if len(upx)%2 == 1 {
				std = append(std, 0)
			}
		}
		out = append(out, le16(len(std))...)
		out = append(out, std...)
	}
	return out
}

// fkpPage returns a page holding only the boundary positions and count.
func fkpPage(fcs []uint32) []byte {
	page := make([]byte, PageSize)
	for i, fc := range fcs {
		binary.LittleEndian.PutUint32(page[4*i:], fc)
	}
	page[countByte] = byte(len(fcs) - 1)
	return page
}

// level encodes an LVLF with its grpprls and number text.
func level(start int32, nfc uint8, info uint8, papx, chpx []byte, text string) []byte {
	b := make([]byte, lvlfSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(start))
	b[4] = nfc
	b[5] = info
	b[24] = byte(len(chpx))
	b[25] = byte(len(papx))
	b = append(b, papx...)
	b = append(b, chpx...)
	b = append(b, le16(len(utf16.Encode([]rune(text))))...)
	return append(b, utf16le(text)...)
}

// lstf encodes a list definition header.
func lstf(id int32, rgistd [MaxLevels]uint16, simple bool) []byte {
	b := make([]byte, lstfSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(id))
	for i, istd := range rgistd {
		binary.LittleEndian.PutUint16(b[8+2*i:], istd)
	}
	if simple {
		b[26] = 1
	}
	return b
}

func lfo(id int32, clfolvl int) []byte {
	b := make([]byte, lfoSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(id))
	b[12] = byte(clfolvl)
	return b
}

func lfolvl(start int32, ilvl uint8, startAt, formatting bool) []byte {
	b := make([]byte, lfolvlSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(start))
	b[4] = ilvl
	if startAt {
		b[4] |= 0x10
	}
	if formatting {
		b[4] |= 0x20
	}
	return b
}
