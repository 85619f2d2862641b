package wordfmt

import "bytes"

// PropertyNode marks the text in [Start, End) as carrying the formatting
// encoded in Grpprl.
type PropertyNode struct {
	Start  uint32
	End    uint32
	Grpprl []byte
}

// Compare orders nodes by End. Nodes with equal ends compare equal.
func (n PropertyNode) Compare(o PropertyNode) int {
	switch {
	case n.End < o.End:
		return -1
	case n.End > o.End:
		return 1
	}
	return 0
}

// Len returns the length of the interval.
func (n PropertyNode) Len() uint32 {
	if n.End < n.Start {
		return 0
	}
	return n.End - n.Start
}

// Overlaps reports whether the node intersects [start, end).
func (n PropertyNode) Overlaps(start, end uint32) bool {
	return n.Start < end && start < n.End
}

// Equal compares interval and grpprl bytes.
func (n PropertyNode) Equal(o PropertyNode) bool {
	return n.Start == o.Start && n.End == o.End && bytes.Equal(n.Grpprl, o.Grpprl)
}

// GenericNode is a plex entry: a cp interval plus its fixed-size record.
type GenericNode struct {
	Start uint32
	End   uint32
	Bytes []byte
}
