package doctest

import (
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

const (
	sectorSize  = 512
	miniCutoff  = 4096
	dirEntry    = 128
	freeSect    = 0xFFFFFFFF
	endOfChain  = 0xFFFFFFFE
	fatSect     = 0xFFFFFFFD
	noStream    = 0xFFFFFFFF
	headerDIFAT = 109
)

// CompoundFile lays the streams out as a version 3 compound file with all
// streams at the top level. Streams are padded to the mini stream cutoff so
// that every stream lives in regular sectors.
func CompoundFile(streams map[string][]byte) []byte {
	names := make([]string, 0, len(streams))
	for n := range streams {
		names = append(names, n)
	}
	// Directory order: shorter names first, then by upper-cased name.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	data := make([][]byte, len(names))
	dataSectors := 0
	for i, n := range names {
		b := append([]byte(nil), streams[n]...)
		for len(b) < miniCutoff || len(b)%sectorSize != 0 {
			b = append(b, 0)
		}
		data[i] = b
		dataSectors += len(b) / sectorSize
	}
	entries := 1 + len(names)
	dirSectors := (entries*dirEntry + sectorSize - 1) / sectorSize

	fatSectors := 1
	for (fatSectors+dirSectors+dataSectors+127)/128 > fatSectors {
		fatSectors++
	}
	if fatSectors > headerDIFAT {
		panic("doctest: compound file too large")
	}
	total := fatSectors + dirSectors + dataSectors
	fat := make([]uint32, fatSectors*128)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := range fatSectors {
		fat[i] = fatSect
	}
	chain := func(first, n int) {
		for s := first; s < first+n-1; s++ {
			fat[s] = uint32(s + 1)
		}
		fat[first+n-1] = endOfChain
	}
	firstDir := fatSectors
	chain(firstDir, dirSectors)
	starts := make([]int, len(names))
	next := firstDir + dirSectors
	for i, b := range data {
		starts[i] = next
		chain(next, len(b)/sectorSize)
		next += len(b) / sectorSize
	}

	out := make([]byte, sectorSize*(1+total))
	h := out[:sectorSize]
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le := binary.LittleEndian
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 0x0003)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], uint32(fatSectors))
	le.PutUint32(h[48:], uint32(firstDir))
	le.PutUint32(h[56:], miniCutoff)
	le.PutUint32(h[60:], endOfChain)
	le.PutUint32(h[68:], endOfChain)
	for i := range headerDIFAT {
		v := uint32(freeSect)
		if i < fatSectors {
			v = uint32(i)
		}
		le.PutUint32(h[76+4*i:], v)
	}

	sector := func(i int) []byte { return out[sectorSize*(1+i) : sectorSize*(2+i)] }
	for i, v := range fat {
		le.PutUint32(sector(i / 128)[4*(i%128):], v)
	}

	dir := make([]byte, dirSectors*sectorSize)
	entry := func(i int) []byte { return dir[i*dirEntry : (i+1)*dirEntry] }
	for i := range dirSectors * sectorSize / dirEntry {
		e := entry(i)
		le.PutUint32(e[68:], noStream)
		le.PutUint32(e[72:], noStream)
		le.PutUint32(e[76:], noStream)
	}
	writeEntry := func(i int, name string, kind byte, start uint32, size int) {
		e := entry(i)
		units := utf16.Encode([]rune(name))
		for j, u := range units {
			le.PutUint16(e[2*j:], u)
		}
		le.PutUint16(e[64:], uint16(2*(len(units)+1)))
		e[66] = kind
		e[67] = 1
		le.PutUint32(e[116:], start)
		le.PutUint64(e[120:], uint64(size))
	}
	writeEntry(0, "Root Entry", 5, endOfChain, 0)
	for i, n := range names {
		writeEntry(i+1, n, 2, uint32(starts[i]), len(data[i]))
	}
	// A right-leaning chain of siblings is a valid, if unbalanced, tree.
	if len(names) > 0 {
		le.PutUint32(entry(0)[76:], 1)
		for i := 1; i < len(names); i++ {
			le.PutUint32(entry(i)[72:], uint32(i+1))
		}
	}
	for i := range dirSectors {
		copy(sector(firstDir+i), dir[i*sectorSize:(i+1)*sectorSize])
	}
	for i, b := range data {
		copy(out[sectorSize*(1+starts[i]):], b)
	}
	return out
}
