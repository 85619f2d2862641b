package wordfmt

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// PageSize is the fixed size of a formatted disk page.
const PageSize = 512

const (
	fcSize     = 4
	countByte  = PageSize - 1
	bxSize     = 13
	pheSize    = 12
	chpOffSize = 1
)

// readBoundaries returns the count+1 file positions at the head of a page.
func readBoundaries(page []byte) ([]uint32, error) {
	if len(page) != PageSize {
		return nil, fmt.Errorf("%w: got %d", ErrBadPageSize, len(page))
	}
	count := int(page[countByte])
	fcs := make([]uint32, count+1)
	for i := range fcs {
		fc, err := lebin.Uint32(page, i*fcSize)
		if err != nil {
			return nil, fmt.Errorf("fkp boundary %d: %w", i, err)
		}
		fcs[i] = fc
	}
	return fcs, nil
}

func rebase(fc, fcMin uint32, i int) (uint32, error) {
	if fc < fcMin {
		return 0, fmt.Errorf("fkp entry %d: position %d precedes text base %d", i, fc, fcMin)
	}
	return fc - fcMin, nil
}

func nodeBounds(fcs []uint32, i int, fcMin uint32) (uint32, uint32, error) {
	start, err := rebase(fcs[i], fcMin, i)
	if err != nil {
		return 0, 0, err
	}
	end, err := rebase(fcs[i+1], fcMin, i)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("fkp entry %d: end %d before start %d", i, end, start)
	}
	return start, end, nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return &lebin.OutOfRangeError{Offset: i, Width: 1, Len: n}
	}
	return nil
}
