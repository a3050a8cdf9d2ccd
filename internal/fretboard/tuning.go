package fretboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tuning lists open-string notes from the lowest string up.
type Tuning []string

// Tunings is the static instrument table, keyed by instrument then tuning
// name.
var Tunings = map[string]map[string]Tuning{
	"bass4": {
		"standard": {"e1", "a1", "d2", "g2", "b2", "e3"},
	},
	"guitar6": {
		"standard": {"e2", "a2", "d3", "g3", "b3", "e4"},
		"E_4ths":   {"e2", "a2", "d3", "g3", "c4", "f4"},
		"Drop_D":   {"d2", "a2", "d3", "g3", "b3", "e4"},
		"G_open":   {"d2", "g2", "d3", "g3", "b3", "d4"},
		"DADGAD":   {"d2", "a2", "d3", "g3", "a3", "d4"},
	},
	"guitar7": {
		"standard": {"b1", "e2", "a2", "d3", "g3", "b3", "e4"},
		"E_4ths":   {"b1", "e2", "a2", "d3", "g3", "c4", "f4"},
	},
}

// LookupTuning returns a copy of the named tuning.
func LookupTuning(instrument, name string) (Tuning, error) {
	byName, ok := Tunings[instrument]
	if !ok {
		return nil, fmt.Errorf("%w: unknown instrument %q (want one of %s)", ErrInvalidConfig, instrument, strings.Join(Instruments(), ", "))
	}
	t, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no tuning %q", ErrInvalidConfig, instrument, name)
	}
	return append(Tuning(nil), t...), nil
}

// Instruments returns the instrument names in sorted order.
func Instruments() []string {
	out := make([]string, 0, len(Tunings))
	for k := range Tunings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// StringCount returns the string count in an instrument name such as
// "guitar7", or 0 when the name has none.
func StringCount(instrument string) int {
	i := len(instrument)
	for i > 0 && instrument[i-1] >= '0' && instrument[i-1] <= '9' {
		i--
	}
	n, _ := strconv.Atoi(instrument[i:])
	return n
}

// ParseFretRange reads a fret range such as "3-8" (start fret 3, last fret 8)
// or "12" (frets 0 to 12). An empty string means 0 to 8.
func ParseFretRange(s string) (start, frets int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 8, nil
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		start, err = strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: fret range %q", ErrInvalidConfig, s)
		}
		frets, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: fret range %q", ErrInvalidConfig, s)
		}
	} else {
		frets, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: fret range %q", ErrInvalidConfig, s)
		}
	}
	if start < 0 || frets <= start {
		return 0, 0, fmt.Errorf("%w: fret range %q", ErrInvalidConfig, s)
	}
	return start, frets, nil
}
