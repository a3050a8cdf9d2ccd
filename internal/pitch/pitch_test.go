package pitch

import (
	"errors"
	"testing"
)

func TestSpellingRoundTrip(t *testing.T) {
	for p := PitchClass(0); p < 12; p++ {
		for _, table := range [][]string{SharpNames(), FlatNames()} {
			got, err := PitchClassOf(table[p])
			if err != nil {
				t.Fatalf("PitchClassOf(%q) error: %v", table[p], err)
			}
			if got != p {
				t.Errorf("PitchClassOf(%q) = %d, want %d", table[p], got, p)
			}
		}
	}
}

func TestPitchClassOf(t *testing.T) {
	tests := []struct {
		note string
		want PitchClass
	}{
		{"c", 0},
		{"C", 0},
		{"B", 11},
		{"b", 11},
		{"Bb", 10},
		{"F#", 6},
		{"fb", 4},
		{"cb", 11},
		{"Db", 1},
	}
	for _, tt := range tests {
		got, err := PitchClassOf(tt.note)
		if err != nil {
			t.Errorf("PitchClassOf(%q) error: %v", tt.note, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PitchClassOf(%q) = %d, want %d", tt.note, got, tt.want)
		}
	}
}

func TestPitchClassOfInvalid(t *testing.T) {
	for _, note := range []string{"", "h", "c##", "e#", "b#", "c4", "do"} {
		if _, err := PitchClassOf(note); !errors.Is(err, ErrInvalidNoteName) {
			t.Errorf("PitchClassOf(%q) error = %v, want ErrInvalidNoteName", note, err)
		}
	}
}

func TestAbsolutePitchOf(t *testing.T) {
	tests := []struct {
		note string
		want AbsolutePitch
	}{
		{"c0", 0},
		{"c#1", 13},
		{"e2", 28},
		{"A2", 33},
		{"bb3", 46},
		{"g#3", 44},
		{"b9", 119},
		{"c10", 120},
	}
	for _, tt := range tests {
		got, err := AbsolutePitchOf(tt.note)
		if err != nil {
			t.Errorf("AbsolutePitchOf(%q) error: %v", tt.note, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AbsolutePitchOf(%q) = %d, want %d", tt.note, got, tt.want)
		}
	}
}

func TestAbsolutePitchOfErrors(t *testing.T) {
	tests := []struct {
		note string
		want error
	}{
		{"", ErrInvalidOctave},
		{"c", ErrInvalidOctave},
		{"c#", ErrInvalidOctave},
		{"3", ErrInvalidNoteName},
		{"h3", ErrInvalidNoteName},
		{"c-1", ErrInvalidNoteName},
	}
	for _, tt := range tests {
		if _, err := AbsolutePitchOf(tt.note); !errors.Is(err, tt.want) {
			t.Errorf("AbsolutePitchOf(%q) error = %v, want %v", tt.note, err, tt.want)
		}
	}
}

func TestNoteNameRoundTrip(t *testing.T) {
	for n := AbsolutePitch(0); n < 240; n++ {
		name := NoteNameOf(n)
		p, err := AbsolutePitchOf(name)
		if err != nil {
			t.Fatalf("AbsolutePitchOf(%s) error: %v", name, err)
		}
		if p != n {
			t.Fatalf("round trip: %d => %s => %d", n, name, p)
		}
	}
}

func TestNoteNameOf(t *testing.T) {
	tests := []struct {
		p    AbsolutePitch
		want string
	}{
		{0, "c0"},
		{13, "c#1"},
		{28, "e2"},
		{59, "b4"},
		{-1, "b-1"},
	}
	for _, tt := range tests {
		if got := NoteNameOf(tt.p); got != tt.want {
			t.Errorf("NoteNameOf(%d) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestIntervalNameOf(t *testing.T) {
	tests := []struct {
		note, key string
		want      Interval
	}{
		{"g#3", "e", "3"},
		{"e2", "e", "1"},
		{"f4", "e", "b2"},
		{"d5", "e", "b7"},
		{"c1", "e", "b6"},
		{"b0", "e", "5"},
		{"a#2", "e", "b5"},
		{"g3", "c", "5"},
		{"eb3", "c", "b3"},
		{"C4", "G", "4"},
	}
	for _, tt := range tests {
		got, err := IntervalNameOf(tt.note, tt.key)
		if err != nil {
			t.Errorf("IntervalNameOf(%q, %q) error: %v", tt.note, tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IntervalNameOf(%q, %q) = %q, want %q", tt.note, tt.key, got, tt.want)
		}
	}
}

func TestIntervalNameOfErrors(t *testing.T) {
	if _, err := IntervalNameOf("g#3", "x"); !errors.Is(err, ErrInvalidNoteName) {
		t.Errorf("bad key: error = %v, want ErrInvalidNoteName", err)
	}
	if _, err := IntervalNameOf("g#", "e"); !errors.Is(err, ErrInvalidOctave) {
		t.Errorf("missing octave: error = %v, want ErrInvalidOctave", err)
	}
}

func TestDistanceCoversAllIntervals(t *testing.T) {
	names := IntervalNames()
	for key := PitchClass(0); key < 12; key++ {
		for d := 0; d < 12; d++ {
			if got := Distance(key, key.Add(d)); got != names[d] {
				t.Errorf("Distance(%d, %d) = %q, want %q", key, key.Add(d), got, names[d])
			}
		}
	}
}

func TestPitchClassAdd(t *testing.T) {
	if got := PitchClass(11).Add(1); got != 0 {
		t.Errorf("11+1 = %d, want 0", got)
	}
	if got := PitchClass(2).Add(-5); got != 9 {
		t.Errorf("2-5 = %d, want 9", got)
	}
	if got := PitchClass(4).Add(24); got != 4 {
		t.Errorf("4+24 = %d, want 4", got)
	}
}

func TestMIDI(t *testing.T) {
	if got := NoteNameOf(FromMIDI(60)); got != "c4" {
		t.Errorf("FromMIDI(60) = %s, want c4", got)
	}
	if got := NoteNameOf(FromMIDI(40)); got != "e2" {
		t.Errorf("FromMIDI(40) = %s, want e2", got)
	}
	for k := 0; k < 128; k++ {
		back, ok := ToMIDI(FromMIDI(uint8(k)))
		if !ok || int(back) != k {
			t.Fatalf("ToMIDI(FromMIDI(%d)) = %d, %v", k, back, ok)
		}
	}
	if _, ok := ToMIDI(200); ok {
		t.Error("ToMIDI(200) should be out of range")
	}
}

func TestTablesAreCopies(t *testing.T) {
	s := SharpNames()
	s[0] = "x"
	if SharpNames()[0] != "c" {
		t.Fatal("SharpNames exposes the static table")
	}
}
