package fretboard

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/chase3718/fretnotes/internal/pitch"
	"github.com/chase3718/fretnotes/internal/scale"
)

func newBoard(t *testing.T, cfg Config) *Board {
	t.Helper()
	b, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

type pos struct{ s, f int }

func positions(marks []Mark) []pos {
	out := make([]pos, len(marks))
	for i, m := range marks {
		out[i] = pos{m.String, m.Fret}
	}
	return out
}

func markAt(marks []Mark, s, f int) (Mark, bool) {
	for _, m := range marks {
		if m.String == s && m.Fret == f {
			return m, true
		}
	}
	return Mark{}, false
}

func TestAddNote(t *testing.T) {
	tests := []struct {
		note string
		want []pos
	}{
		{"e2", []pos{{6, 0}}},
		{"a2", []pos{{5, 0}, {6, 5}}},
		{"e4", []pos{{1, 0}, {2, 5}, {3, 9}, {4, 14}, {5, 19}}},
		{"d2", nil},
		{"e6", nil},
	}
	for _, tt := range tests {
		b := newBoard(t, DefaultConfig())
		if err := b.AddNote(tt.note, Style{}); err != nil {
			t.Errorf("AddNote(%q): %v", tt.note, err)
			continue
		}
		got := positions(b.Marks())
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AddNote(%q) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestAddNoteOnStringRecolors(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.AddNote("a2", Style{Color: "lightgray"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNoteOnString("a2", 5, Style{Color: "red"}); err != nil {
		t.Fatal(err)
	}
	marks := b.Marks()
	if len(marks) != 2 {
		t.Fatalf("got %d marks, want 2", len(marks))
	}
	open, _ := markAt(marks, 5, 0)
	other, _ := markAt(marks, 6, 5)
	if open.Color != "red" || other.Color != "lightgray" {
		t.Errorf("colors = %s, %s", open.Color, other.Color)
	}
	if !open.Emphasized || !other.Emphasized {
		t.Error("label emphasis should apply to every mark of the pitch")
	}
	if open.Label != "A2" {
		t.Errorf("label = %q, want A2", open.Label)
	}
}

func TestStartFret(t *testing.T) {
	b := newBoard(t, Config{Strings: 6, Frets: 8, StartFret: 3, Tuning: Tunings["guitar6"]["standard"]})
	if got := b.OpenNotes(); !reflect.DeepEqual(got, []string{"g4", "d4", "a#3", "f3", "c3", "g2"}) {
		t.Errorf("OpenNotes = %v", got)
	}
	if err := b.PlaceNotes("6:e2 6:g2 6:c3 6:c#3", Style{}); err != nil {
		t.Fatal(err)
	}
	if got := positions(b.Marks()); !reflect.DeepEqual(got, []pos{{6, 3}, {6, 8}}) {
		t.Errorf("marks = %v", got)
	}
	if got := b.Inlays(); !reflect.DeepEqual(got, []int{5, 7}) {
		t.Errorf("Inlays = %v", got)
	}
	if got := b.DoubleInlays(); len(got) != 0 {
		t.Errorf("DoubleInlays = %v", got)
	}
}

func TestInlays(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if got := b.Inlays(); !reflect.DeepEqual(got, []int{3, 5, 7, 9, 15, 17, 19, 21}) {
		t.Errorf("Inlays = %v", got)
	}
	if got := b.DoubleInlays(); !reflect.DeepEqual(got, []int{12}) {
		t.Errorf("DoubleInlays = %v", got)
	}
}

func TestPlaceNotes(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.PlaceNotes("6:e2 5:a2 1:e2", Style{}); err != nil {
		t.Fatal(err)
	}
	marks := b.Marks()
	if got := positions(marks); !reflect.DeepEqual(got, []pos{{5, 0}, {6, 0}}) {
		t.Errorf("marks = %v", got)
	}
	if marks[0].Color != "black" {
		t.Errorf("default color = %q", marks[0].Color)
	}
}

func TestPlaceNotesErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"6e2", scale.ErrMalformedInstruction},
		{"x:e2", scale.ErrMalformedInstruction},
		{"7:e2", scale.ErrMalformedInstruction},
		{"0:e2", scale.ErrMalformedInstruction},
		{"6:h2", pitch.ErrInvalidNoteName},
		{"6:e", pitch.ErrInvalidOctave},
	}
	for _, tt := range tests {
		b := newBoard(t, DefaultConfig())
		if err := b.PlaceNotes(tt.in, Style{}); !errors.Is(err, tt.want) {
			t.Errorf("PlaceNotes(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestAddNotesPalette(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.AddNotes("c e g", Style{}); err != nil {
		t.Fatal(err)
	}
	marks := b.Marks()
	colors := map[pitch.PitchClass]string{0: "red", 4: "green", 7: "blue"}
	for _, m := range marks {
		if want := colors[m.Pitch.Class()]; m.Color != want {
			t.Errorf("%s on string %d: color %s, want %s", m.Label, m.String, m.Color, want)
		}
	}
	low, ok := markAt(marks, 6, 0)
	if !ok || low.Label != "E2" {
		t.Errorf("string 6 open = %+v, %v", low, ok)
	}
}

func TestScale(t *testing.T) {
	cfg, err := Preset("guitar6", "standard", 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	b := newBoard(t, cfg)
	key, err := b.Scale("e natural-minor", "blue", true)
	if err != nil {
		t.Fatal(err)
	}
	if key != "e" {
		t.Errorf("key = %q", key)
	}
	marks := b.Marks()
	if len(marks) != 6*13 {
		t.Fatalf("got %d marks, want %d", len(marks), 6*13)
	}
	tests := []struct {
		s, f       int
		label      string
		color      string
		emphasized bool
	}{
		{6, 0, "1", "blue", true},
		{6, 1, "b2", "lightgray", false},
		{6, 2, "2", "blue", true},
		{6, 3, "b3", "blue", true},
		{5, 0, "4", "blue", true},
		{1, 4, "3", "lightgray", false},
	}
	for _, tt := range tests {
		m, ok := markAt(marks, tt.s, tt.f)
		if !ok {
			t.Errorf("no mark at %d/%d", tt.s, tt.f)
			continue
		}
		if m.Label != tt.label || m.Color != tt.color || m.Emphasized != tt.emphasized {
			t.Errorf("mark %d/%d = %q %s %v, want %q %s %v", tt.s, tt.f, m.Label, m.Color, m.Emphasized, tt.label, tt.color, tt.emphasized)
		}
	}

	// a second scale replaces the first
	if _, err := b.Scale("c maj", "red", false); err != nil {
		t.Fatal(err)
	}
	m, _ := markAt(b.Marks(), 5, 3)
	if m.Label != "C3" || m.Color != "red" {
		t.Errorf("after c maj: %+v", m)
	}
}

func TestScaleErrors(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if _, err := b.Scale("e bogus", "", false); !errors.Is(err, scale.ErrUnknownScaleName) {
		t.Errorf("error = %v, want ErrUnknownScaleName", err)
	}
	if _, err := b.Scale("e", "", false); !errors.Is(err, scale.ErrMalformedInstruction) {
		t.Errorf("error = %v, want ErrMalformedInstruction", err)
	}
}

func TestDraw(t *testing.T) {
	cfg, _ := Preset("guitar6", "standard", 6, 0, 12)
	b := newBoard(t, cfg)
	if err := b.Draw("a minor-pentatonic; 6:e2 ;; 2:d#4", true); err != nil {
		t.Fatal(err)
	}
	marks := b.Marks()
	low, _ := markAt(marks, 6, 0)
	if low.Label != "5" || !low.Emphasized {
		t.Errorf("6/0 = %+v", low)
	}
	// d#4 is in the chromatic background already; placing it emphasizes it
	sharp, _ := markAt(marks, 2, 4)
	if sharp.Label != "b5" || !sharp.Emphasized {
		t.Errorf("2/4 = %+v", sharp)
	}
}

func TestDrawAddNotesKeyedByEarlierScale(t *testing.T) {
	cfg, _ := Preset("guitar6", "standard", 6, 0, 12)
	b := newBoard(t, cfg)
	if err := b.Draw("g major; c", true); err != nil {
		t.Fatal(err)
	}
	m, _ := markAt(b.Marks(), 5, 3)
	if m.Label != "4" {
		t.Errorf("c3 label = %q, want 4", m.Label)
	}
}

func TestDrawLazyFailure(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	err := b.Draw("e bogus", false)
	if !errors.Is(err, pitch.ErrInvalidNoteName) {
		t.Errorf("error = %v, want ErrInvalidNoteName", err)
	}
}

func TestAddNotesWithOctave(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.Draw("g3 b3 d4", false); err != nil {
		t.Fatal(err)
	}
	marks := b.Marks()
	if len(marks) != 14 {
		t.Errorf("got %d marks, want 14: %v", len(marks), positions(marks))
	}
	colors := map[string]string{"G3": "red", "B3": "green", "D4": "blue"}
	for _, m := range marks {
		if want, ok := colors[m.Label]; !ok || m.Color != want {
			t.Errorf("unexpected mark %+v", m)
		}
	}
	if m, ok := markAt(marks, 3, 0); !ok || m.Label != "G3" {
		t.Errorf("3/0 = %+v, %v", m, ok)
	}

	b.ClearNotes()
	if err := b.AddNotes("g b3", Style{}); err != nil {
		t.Fatal(err)
	}
	var gs, bs int
	for _, m := range b.Marks() {
		switch m.Pitch.Class() {
		case 7:
			gs++
		case 11:
			bs++
		}
	}
	if gs <= 4 || bs != 5 {
		t.Errorf("g marks = %d, b3 marks = %d", gs, bs)
	}
}

func TestActivate(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.AddNote("e4", Style{}); err != nil {
		t.Fatal(err)
	}
	got, err := b.Activate("E4")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Errorf("activated %d marks, want 5", len(got))
	}
	if err := b.Deactivate("e4"); err != nil {
		t.Fatal(err)
	}
	for _, m := range b.Marks() {
		if m.Active {
			t.Errorf("mark %d/%d still active", m.String, m.Fret)
		}
	}
	if _, err := b.Activate("x4"); !errors.Is(err, pitch.ErrInvalidNoteName) {
		t.Errorf("Activate(x4) error = %v", err)
	}
}

func TestActivateNearestSelected(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if err := b.AddNote("e4", Style{}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNote("c4", Style{}); err != nil {
		t.Fatal(err)
	}
	if sel, ok := b.Toggle(4, 10); !ok || !sel {
		t.Fatalf("Toggle(4, 10) = %v, %v", sel, ok)
	}
	got, err := b.Activate("e4")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].String != 3 || got[0].Fret != 9 {
		t.Errorf("activated %v, want string 3 fret 9", positions(got))
	}
	if sel, ok := b.Toggle(4, 10); !ok || sel {
		t.Errorf("second Toggle = %v, %v", sel, ok)
	}
	if _, ok := b.Toggle(4, 11); ok {
		t.Error("Toggle on an empty position should report !ok")
	}
	b.DeactivateAll()
	for _, m := range b.Marks() {
		if m.Active {
			t.Fatal("DeactivateAll left an active mark")
		}
	}
}

func TestClearNotes(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	_ = b.AddNote("a2", Style{})
	b.ClearNotes()
	if n := len(b.Marks()); n != 0 {
		t.Errorf("%d marks after ClearNotes", n)
	}
}

func TestConcurrentActivation(t *testing.T) {
	b := newBoard(t, DefaultConfig())
	if _, err := b.Scale("c chromatic", "", false); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			note := pitch.NoteNameOf(pitch.AbsolutePitch(40 + i))
			for j := 0; j < 50; j++ {
				_, _ = b.Activate(note)
				_ = b.Deactivate(note)
			}
		}(i)
	}
	wg.Wait()
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"no strings", Config{Strings: 0, Frets: 12, Tuning: Tuning{"e2"}}, false},
		{"short tuning", Config{Strings: 7, Frets: 12, Tuning: Tunings["guitar6"]["standard"]}, false},
		{"frets before start", Config{Strings: 1, Frets: 3, StartFret: 3, Tuning: Tuning{"e2"}}, false},
		{"bad tuning note", Config{Strings: 1, Frets: 3, Tuning: Tuning{"h2"}}, false},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error %v is not ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestPreset(t *testing.T) {
	bass, err := Preset("bass4", "standard", 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if bass.Strings != 4 || bass.Frets != 12 {
		t.Errorf("bass4 = %+v", bass)
	}
	b := newBoard(t, bass)
	if got := b.OpenNotes(); !reflect.DeepEqual(got, []string{"g2", "d2", "a1", "e1"}) {
		t.Errorf("bass OpenNotes = %v", got)
	}
	g7, err := Preset("guitar7", "standard", 0, 3, 24)
	if err != nil {
		t.Fatal(err)
	}
	if g7.Strings != 7 || g7.StartFret != 3 || g7.Frets != 24 || g7.Tuning[0] != "b1" {
		t.Errorf("guitar7 = %+v", g7)
	}
	if _, err := Preset("bass5", "standard", 0, 0, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bass5 error = %v", err)
	}
	if _, err := Preset("guitar6", "standard", 7, 0, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("7 strings on guitar6 error = %v", err)
	}
}

func TestParseFretRange(t *testing.T) {
	tests := []struct {
		in          string
		start, last int
		ok          bool
	}{
		{"", 0, 8, true},
		{"12", 0, 12, true},
		{"3-8", 3, 8, true},
		{" 5 - 9 ", 5, 9, true},
		{"8-3", 0, 0, false},
		{"a", 0, 0, false},
		{"1-b", 0, 0, false},
		{"0", 0, 0, false},
	}
	for _, tt := range tests {
		start, last, err := ParseFretRange(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFretRange(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && (start != tt.start || last != tt.last) {
			t.Errorf("ParseFretRange(%q) = %d, %d, want %d, %d", tt.in, start, last, tt.start, tt.last)
		}
	}
}

func TestLookupTuning(t *testing.T) {
	tu, err := LookupTuning("guitar6", "DADGAD")
	if err != nil {
		t.Fatal(err)
	}
	tu[0] = "x"
	if Tunings["guitar6"]["DADGAD"][0] != "d2" {
		t.Error("LookupTuning exposes the static table")
	}
	_, err = LookupTuning("banjo5", "standard")
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "bass4, guitar6, guitar7") {
		t.Errorf("unknown instrument error = %v", err)
	}
	if got := Instruments(); !reflect.DeepEqual(got, []string{"bass4", "guitar6", "guitar7"}) {
		t.Errorf("Instruments = %v", got)
	}
}

func TestStringCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"bass4", 4},
		{"guitar7", 7},
		{"guitar12", 12},
		{"ukulele", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := StringCount(tt.in); got != tt.want {
			t.Errorf("StringCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
