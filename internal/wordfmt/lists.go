package wordfmt

import (
	"fmt"
	"slices"

	"github.com/dgallion1/docfmt/internal/lebin"
)

const (
	lstfSize   = 28
	lvlfSize   = 28
	lfoSize    = 16
	lfolvlSize = 8

	// MaxLevels is the number of levels in a multi-level list.
	MaxLevels = 9
)

// Follow characters written after a level's number text.
const (
	FollowTab     = 0
	FollowSpace   = 1
	FollowNothing = 2
)

// Level is one decoded LVL. In NumberText the characters 0-8 stand for the
// counter of that level.
type Level struct {
	StartAt      int32    `json:"start_at"`
	NumberFormat uint8    `json:"nfc"`
	Alignment    uint8    `json:"jc"`
	Legal        bool     `json:"legal,omitempty"`
	NoRestart    bool     `json:"no_restart,omitempty"`
	Placeholders [9]uint8 `json:"-"`
	Follow       uint8    `json:"follow"`
	DxaSpace     int32    `json:"dxa_space"`
	DxaIndent    int32    `json:"dxa_indent"`
	Papx         []byte   `json:"-"`
	Chpx         []byte   `json:"-"`
	NumberText   string   `json:"number_text"`
	Istd         uint16   `json:"istd"`
}

func (l Level) clone() Level {
	l.Papx = slices.Clone(l.Papx)
	l.Chpx = slices.Clone(l.Chpx)
	return l
}

// List is one LSTF with its levels.
type List struct {
	ID       int32             `json:"id"`
	Template int32             `json:"template"`
	Rgistd   [MaxLevels]uint16 `json:"rgistd"`
	Simple   bool              `json:"simple"`
	Levels   []Level           `json:"levels"`
}

// LevelOverride is one LFOLVL.
type LevelOverride struct {
	Ilvl       uint8  `json:"ilvl"`
	StartAt    int32  `json:"start_at"`
	HasStartAt bool   `json:"has_start_at"`
	Formatting bool   `json:"formatting"`
	Level      *Level `json:"level,omitempty"`
}

// ListOverride is one LFO: the list a paragraph's ilfo points at plus any
// per-level overrides.
type ListOverride struct {
	ListID    int32           `json:"list_id"`
	Overrides []LevelOverride `json:"overrides,omitempty"`
}

// ListTables holds the decoded list definitions and list overrides.
type ListTables struct {
	lists []List
	byID  map[int32]int
	lfos  []ListOverride
}

// NewListTables decodes the LST blob (the LSTF array followed by every
// list's levels) and the LFO blob (the LFO array followed by their data).
func NewListTables(lst, lfo []byte) (*ListTables, error) {
	lt := &ListTables{byID: make(map[int32]int)}
	if err := lt.readLists(lst); err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	if err := lt.readOverrides(lfo); err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return lt, nil
}

func (lt *ListTables) readLists(lst []byte) error {
	c := lebin.NewCursor(lst)
	count, err := c.Uint16()
	if err != nil {
		return err
	}
	lt.lists = make([]List, count)
	for i := range lt.lists {
		raw, err := c.Bytes(lstfSize)
		if err != nil {
			return fmt.Errorf("lstf %d: %w", i, err)
		}
		l := &lt.lists[i]
		r := lebin.NewRecord(raw)
		l.ID = r.Int32(0)
		l.Template = r.Int32(4)
		for j := range l.Rgistd {
			l.Rgistd[j] = r.Uint16(8 + 2*j)
		}
		l.Simple = r.Uint8(26)&0x01 != 0
		if err := r.Err(); err != nil {
			return fmt.Errorf("lstf %d: %w", i, err)
		}
		lt.byID[l.ID] = i
	}
	for i := range lt.lists {
		l := &lt.lists[i]
		n := MaxLevels
		if l.Simple {
			n = 1
		}
		l.Levels = make([]Level, n)
		for j := range l.Levels {
			if l.Levels[j], err = readLevel(c); err != nil {
				return fmt.Errorf("list %d level %d: %w", l.ID, j, err)
			}
		}
	}
	return nil
}

func (lt *ListTables) readOverrides(lfo []byte) error {
	c := lebin.NewCursor(lfo)
	count, err := c.Int32()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("negative override count %d", count)
	}
	counts := make([]int, 0, min(int(count), len(lfo)/lfoSize))
	for i := range int(count) {
		raw, err := c.Bytes(lfoSize)
		if err != nil {
			return fmt.Errorf("lfo %d: %w", i, err)
		}
		r := lebin.NewRecord(raw)
		id := r.Int32(0)
		clfolvl := r.Uint8(12)
		if err := r.Err(); err != nil {
			return fmt.Errorf("lfo %d: %w", i, err)
		}
		lt.lfos = append(lt.lfos, ListOverride{ListID: id})
		counts = append(counts, int(clfolvl))
	}
	for i, n := range counts {
		// Each LFO's level data starts with a character position. Some
		// writers stop after the last LFO that has overrides.
		if n == 0 {
			if err := c.Skip(min(4, c.Remaining())); err != nil {
				return fmt.Errorf("lfo %d data: %w", i, err)
			}
			continue
		}
		if err := c.Skip(4); err != nil {
			return fmt.Errorf("lfo %d data: %w", i, err)
		}
		overrides := make([]LevelOverride, n)
		for j := range overrides {
			o, err := readLevelOverride(c)
			if err != nil {
				return fmt.Errorf("lfo %d level %d: %w", i, j, err)
			}
			overrides[j] = o
		}
		lt.lfos[i].Overrides = overrides
	}
	return nil
}

func readLevelOverride(c *lebin.Cursor) (LevelOverride, error) {
	raw, err := c.Bytes(lfolvlSize)
	if err != nil {
		return LevelOverride{}, err
	}
	r := lebin.NewRecord(raw)
	start := r.Int32(0)
	flags := r.Uint8(4)
	if err := r.Err(); err != nil {
		return LevelOverride{}, err
	}
	o := LevelOverride{
		Ilvl:       flags & 0x0F,
		StartAt:    start,
		HasStartAt: flags&0x10 != 0,
		Formatting: flags&0x20 != 0,
	}
	if o.Formatting {
		lvl, err := readLevel(c)
		if err != nil {
			return LevelOverride{}, err
		}
		o.Level = &lvl
	}
	return o, nil
}

func readLevel(c *lebin.Cursor) (Level, error) {
	raw, err := c.Bytes(lvlfSize)
	if err != nil {
		return Level{}, err
	}
	var l Level
	r := lebin.NewRecord(raw)
	l.StartAt = r.Int32(0)
	l.NumberFormat = r.Uint8(4)
	info := r.Uint8(5)
	l.Alignment = info & 0x03
	l.Legal = info&0x04 != 0
	l.NoRestart = info&0x08 != 0
	for i := range l.Placeholders {
		l.Placeholders[i] = r.Uint8(6 + i)
	}
	l.Follow = r.Uint8(15)
	l.DxaSpace = r.Int32(16)
	l.DxaIndent = r.Int32(20)
	cbChpx, cbPapx := int(r.Uint8(24)), int(r.Uint8(25))
	if err := r.Err(); err != nil {
		return Level{}, err
	}

	if l.Papx, err = c.Bytes(cbPapx); err != nil {
		return Level{}, fmt.Errorf("papx: %w", err)
	}
	if l.Chpx, err = c.Bytes(cbChpx); err != nil {
		return Level{}, fmt.Errorf("chpx: %w", err)
	}
	cch, err := c.Uint16()
	if err != nil {
		return Level{}, fmt.Errorf("number text length: %w", err)
	}
	if l.NumberText, err = c.UTF16(int(cch)); err != nil {
		return Level{}, fmt.Errorf("number text: %w", err)
	}
	return l, nil
}

// Lists returns the list definitions in file order.
func (lt *ListTables) Lists() []List { return lt.lists }

// Overrides returns the LFOs. Paragraphs address them with a 1-based ilfo.
func (lt *ListTables) Overrides() []ListOverride { return lt.lfos }

// ListByID looks up a list definition by its lsid.
func (lt *ListTables) ListByID(id int32) (*List, bool) {
	i, ok := lt.byID[id]
	if !ok {
		return nil, false
	}
	return &lt.lists[i], true
}

// Override returns the LFO for a 1-based ilfo.
func (lt *ListTables) Override(ilfo int) (ListOverride, error) {
	if ilfo < 1 || ilfo > len(lt.lfos) {
		return ListOverride{}, fmt.Errorf("%w: ilfo %d", ErrNoSuchList, ilfo)
	}
	return lt.lfos[ilfo-1], nil
}

// Level returns the effective level ilvl of the list ilfo points at. A
// formatting override replaces the level, a start-at override only changes
// its start number, and otherwise the list's own level applies. The style
// index always comes from the list definition.
func (lt *ListTables) Level(ilfo, ilvl int) (Level, error) {
	lfo, err := lt.Override(ilfo)
	if err != nil {
		return Level{}, err
	}
	list, ok := lt.ListByID(lfo.ListID)
	if !ok {
		return Level{}, fmt.Errorf("%w: list id %d", ErrNoSuchList, lfo.ListID)
	}
	if ilvl < 0 || ilvl >= len(list.Levels) {
		return Level{}, fmt.Errorf("%w: list %d has no level %d", ErrNoSuchList, list.ID, ilvl)
	}
	istd := list.Rgistd[ilvl]

	for _, o := range lfo.Overrides {
		if int(o.Ilvl) != ilvl {
			continue
		}
		if o.Formatting && o.Level != nil {
			l := o.Level.clone()
			l.Istd = istd
			return l, nil
		}
		if o.HasStartAt {
			l := list.Levels[ilvl].clone()
			l.Istd = istd
			l.StartAt = o.StartAt
			return l, nil
		}
	}
	l := list.Levels[ilvl].clone()
	l.Istd = istd
	return l, nil
}
