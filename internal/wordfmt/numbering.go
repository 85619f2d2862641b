package wordfmt

import (
	"strconv"
	"strings"
)

// Number formats (nfc) of a list level.
const (
	NumberDecimal     = 0
	NumberUpperRoman  = 1
	NumberLowerRoman  = 2
	NumberUpperLetter = 3
	NumberLowerLetter = 4
	NumberOrdinal     = 5
	NumberLeadingZero = 22
	NumberBullet      = 23
	NumberNone        = 255
)

// FormatNumber renders n in the number format nfc. Unknown formats fall
// back to decimal.
func FormatNumber(n int, nfc uint8) string {
	switch nfc {
	case NumberUpperRoman:
		return roman(n)
	case NumberLowerRoman:
		return strings.ToLower(roman(n))
	case NumberUpperLetter:
		return letters(n)
	case NumberLowerLetter:
		return strings.ToLower(letters(n))
	case NumberOrdinal:
		return strconv.Itoa(n) + ordinalSuffix(n)
	case NumberLeadingZero:
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	case NumberBullet:
		return "•"
	case NumberNone:
		return ""
	}
	return strconv.Itoa(n)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// letters counts A..Z, then AA..ZZ, then AAA and so on.
func letters(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	letter := byte('A' + (n-1)%26)
	return strings.Repeat(string(letter), (n-1)/26+1)
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// Format expands the level's NumberText with the given counters, one per
// level. Every placeholder is formatted with this level's number format,
// or as decimal for a legal-style level.
func (l Level) Format(counters []int) string {
	return l.expand(counters, func(int) uint8 { return l.NumberFormat })
}

func (l Level) expand(counters []int, format func(ilvl int) uint8) string {
	var b strings.Builder
	for _, r := range l.NumberText {
		if r >= MaxLevels {
			b.WriteRune(r)
			continue
		}
		ilvl := int(r)
		n := 0
		if ilvl < len(counters) {
			n = counters[ilvl]
		}
		nfc := format(ilvl)
		if l.Legal && nfc != NumberNone && nfc != NumberBullet {
			nfc = NumberDecimal
		}
		b.WriteString(FormatNumber(n, nfc))
	}
	return b.String()
}

type listCounters struct {
	values  [MaxLevels]int
	started [MaxLevels]bool
}

// Numberer assigns list numbers to paragraphs in document order. Counters
// are kept per list definition, so overrides that point at the same list
// continue its numbering.
type Numberer struct {
	lists    *ListTables
	counters map[int32]*listCounters
	seen     map[int]bool
}

// NewNumberer returns a Numberer with every counter unstarted.
func NewNumberer(lists *ListTables) *Numberer {
	return &Numberer{
		lists:    lists,
		counters: make(map[int32]*listCounters),
		seen:     make(map[int]bool),
	}
}

// Next advances the counter of level ilvl in the list ilfo points at and
// returns the level with its expanded number text.
func (n *Numberer) Next(ilfo, ilvl int) (Level, string, error) {
	lvl, err := n.lists.Level(ilfo, ilvl)
	if err != nil {
		return Level{}, "", err
	}
	lfo, err := n.lists.Override(ilfo)
	if err != nil {
		return Level{}, "", err
	}
	c, ok := n.counters[lfo.ListID]
	if !ok {
		c = &listCounters{}
		n.counters[lfo.ListID] = c
	}

	// Overridden levels restart the first time their ilfo is used.
	if !n.seen[ilfo] {
		n.seen[ilfo] = true
		for _, o := range lfo.Overrides {
			if (o.HasStartAt || o.Formatting) && int(o.Ilvl) < MaxLevels {
				c.started[o.Ilvl] = false
			}
		}
	}

	if c.started[ilvl] {
		c.values[ilvl]++
	} else {
		c.values[ilvl] = int(lvl.StartAt)
		c.started[ilvl] = true
	}
	for deeper := ilvl + 1; deeper < MaxLevels; deeper++ {
		sub, err := n.lists.Level(ilfo, deeper)
		if err == nil && sub.NoRestart {
			continue
		}
		c.started[deeper] = false
	}

	counters := make([]int, MaxLevels)
	for i := range counters {
		counters[i] = c.values[i]
		if !c.started[i] && i < ilvl {
			if parent, err := n.lists.Level(ilfo, i); err == nil {
				counters[i] = int(parent.StartAt)
			}
		}
	}
	text := lvl.expand(counters, func(i int) uint8 {
		if i == ilvl {
			return lvl.NumberFormat
		}
		if other, err := n.lists.Level(ilfo, i); err == nil {
			return other.NumberFormat
		}
		return NumberDecimal
	})
	return lvl, text, nil
}
