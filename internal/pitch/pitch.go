// Package pitch converts between note names, pitch classes, absolute pitches
// and interval names.
//
// Note names are lowercase-insensitive tokens such as "c#", "eb" or "B".
// An absolute pitch encodes octave and pitch class as octave*12 + class, so
// "c0" is 0 and "c#1" is 13.
package pitch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNoteName is returned when a token resolves via neither the
	// sharp nor the flat spelling table.
	ErrInvalidNoteName = errors.New("invalid note name")

	// ErrInvalidOctave is returned when a note-with-octave string has no
	// decimal octave suffix.
	ErrInvalidOctave = errors.New("invalid octave")
)

// -------------------- Tables --------------------

var sharpNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

var flatNames = [12]string{"c", "db", "d", "eb", "fb", "f", "gb", "g", "ab", "a", "bb", "cb"}

var intervalNames = [12]Interval{"1", "b2", "2", "b3", "3", "4", "b5", "5", "b6", "6", "b7", "7"}

// SharpNames returns the sharp-preferred spelling table indexed by pitch class.
func SharpNames() []string { return append([]string(nil), sharpNames[:]...) }

// FlatNames returns the flat-preferred spelling table indexed by pitch class.
func FlatNames() []string { return append([]string(nil), flatNames[:]...) }

// IntervalNames returns the interval labels indexed by semitone distance.
func IntervalNames() []Interval { return append([]Interval(nil), intervalNames[:]...) }

// -------------------- Types --------------------

// PitchClass is a semitone position within the octave, 0 (c) to 11 (b).
type PitchClass int

// Add returns the pitch class n semitones above p, wrapping at the octave.
func (p PitchClass) Add(n int) PitchClass {
	return PitchClass(mod12(int(p) + n))
}

// Name returns the sharp spelling of p.
func (p PitchClass) Name() string {
	return sharpNames[mod12(int(p))]
}

// AbsolutePitch is octave*12 + pitch class.
type AbsolutePitch int

// Octave returns floor(p/12).
func (p AbsolutePitch) Octave() int {
	o := int(p) / 12
	if p < 0 && int(p)%12 != 0 {
		o--
	}
	return o
}

// Class returns the pitch class of p.
func (p AbsolutePitch) Class() PitchClass {
	return PitchClass(mod12(int(p)))
}

func (p AbsolutePitch) String() string { return NoteNameOf(p) }

// Interval is a scale-degree label such as "b3" or "5".
type Interval string

// -------------------- Conversions --------------------

// PitchClassOf resolves a note name, trying the sharp table first and then the
// flat table. Input is case-insensitive.
func PitchClassOf(note string) (PitchClass, error) {
	n := strings.ToLower(note)
	if i := indexOf(sharpNames[:], n); i >= 0 {
		return PitchClass(i), nil
	}
	if i := indexOf(flatNames[:], n); i >= 0 {
		return PitchClass(i), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, note)
}

// SplitOctave splits "g#3" into "g#" and 3. The octave is the whole trailing
// run of decimal digits, so "c10" is octave 10.
func SplitOctave(noteWithOctave string) (string, int, error) {
	i := len(noteWithOctave)
	for i > 0 && noteWithOctave[i-1] >= '0' && noteWithOctave[i-1] <= '9' {
		i--
	}
	if i == len(noteWithOctave) {
		return "", 0, fmt.Errorf("%w: %q has no octave", ErrInvalidOctave, noteWithOctave)
	}
	octave, err := strconv.Atoi(noteWithOctave[i:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrInvalidOctave, noteWithOctave, err)
	}
	return noteWithOctave[:i], octave, nil
}

// AbsolutePitchOf parses a note with an octave suffix, e.g. "e2" or "Bb3".
func AbsolutePitchOf(noteWithOctave string) (AbsolutePitch, error) {
	name, octave, err := SplitOctave(noteWithOctave)
	if err != nil {
		return 0, err
	}
	pc, err := PitchClassOf(name)
	if err != nil {
		return 0, err
	}
	return AbsolutePitch(int(pc) + octave*12), nil
}

// NoteNameOf returns the sharp spelling of p followed by its octave, e.g. 13
// is "c#1".
func NoteNameOf(p AbsolutePitch) string {
	return p.Class().Name() + strconv.Itoa(p.Octave())
}

// IntervalNameOf names the interval from key up to the pitch class of
// noteWithOctave. The octave of the note is ignored.
func IntervalNameOf(noteWithOctave, key string) (Interval, error) {
	name, _, err := SplitOctave(noteWithOctave)
	if err != nil {
		return "", err
	}
	pc, err := PitchClassOf(name)
	if err != nil {
		return "", err
	}
	kc, err := PitchClassOf(key)
	if err != nil {
		return "", err
	}
	return Distance(kc, pc), nil
}

// Distance names the interval from key up to pc.
func Distance(key, pc PitchClass) Interval {
	d := int(pc) - int(key)
	if d < 0 {
		d += 12
	}
	return intervalNames[mod12(d)]
}

// -------------------- MIDI --------------------

// midiOffset places MIDI key 60 at c4.
const midiOffset = 12

// FromMIDI converts a MIDI key number to an absolute pitch. Keys below 12 map
// to negative pitches (octave -1).
func FromMIDI(key uint8) AbsolutePitch {
	return AbsolutePitch(int(key) - midiOffset)
}

// ToMIDI is the inverse of FromMIDI. ok is false outside the MIDI key range.
func ToMIDI(p AbsolutePitch) (key uint8, ok bool) {
	k := int(p) + midiOffset
	if k < 0 || k > 127 {
		return 0, false
	}
	return uint8(k), true
}

func indexOf(table []string, s string) int {
	for i, v := range table {
		if v == s {
			return i
		}
	}
	return -1
}

func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}
