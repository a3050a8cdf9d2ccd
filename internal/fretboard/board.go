// Package fretboard models a fretted instrument neck and the notes marked on
// it.
//
// Strings are numbered from 1 (highest pitched) to Strings (lowest), the way
// guitarists count them. A Board is safe for concurrent use; MIDI key events
// arrive on listener goroutines while instructions come from the caller.
package fretboard

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chase3718/fretnotes/internal/pitch"
	"github.com/chase3718/fretnotes/internal/scale"
)

// ErrInvalidConfig is returned for unusable board configurations.
var ErrInvalidConfig = errors.New("invalid fretboard config")

// Palette colours notes of an AddNotes call in order when no colour is given.
var Palette = []string{"red", "green", "blue", "black", "purple", "gray", "orange", "lightgray"}

const (
	defaultColor = "black"
	chromaColor  = "lightgray"

	// fretWidth and fretHeight are the layout units used to measure distance
	// between marks.
	fretWidth  = 50
	fretHeight = 40
)

var (
	inlayFrets       = []int{3, 5, 7, 9, 15, 17, 19, 21}
	doubleInlayFrets = []int{12, 24}
)

// -------------------- Config --------------------

// Config describes the neck.
type Config struct {
	Strings   int
	Frets     int // last fret shown
	StartFret int // first fret shown; 0 is the nut
	Tuning    Tuning
}

// DefaultConfig is a 22-fret six string guitar in standard tuning.
func DefaultConfig() Config {
	return Config{
		Strings: 6,
		Frets:   22,
		Tuning:  append(Tuning(nil), Tunings["guitar6"]["standard"]...),
	}
}

// Preset builds a config for a named instrument tuning, e.g. ("guitar7",
// "standard"). Zero strings selects the count in the instrument name (or the
// whole tuning); zero frets selects 12.
func Preset(instrument, tuning string, numStrings, start, frets int) (Config, error) {
	t, err := LookupTuning(instrument, tuning)
	if err != nil {
		return Config{}, err
	}
	if numStrings == 0 {
		numStrings = StringCount(instrument)
		if numStrings == 0 || numStrings > len(t) {
			numStrings = len(t)
		}
	}
	if frets == 0 {
		frets = 12
	}
	c := Config{Strings: numStrings, Frets: frets, StartFret: start, Tuning: t}
	return c, c.Validate()
}

// Validate checks the config and its tuning notes.
func (c Config) Validate() error {
	if c.Strings < 1 {
		return fmt.Errorf("%w: %d strings", ErrInvalidConfig, c.Strings)
	}
	if len(c.Tuning) < c.Strings {
		return fmt.Errorf("%w: tuning has %d notes for %d strings", ErrInvalidConfig, len(c.Tuning), c.Strings)
	}
	if c.StartFret < 0 || c.Frets <= c.StartFret {
		return fmt.Errorf("%w: frets %d-%d", ErrInvalidConfig, c.StartFret, c.Frets)
	}
	for _, n := range c.Tuning[:c.Strings] {
		if _, err := pitch.AbsolutePitchOf(n); err != nil {
			return fmt.Errorf("%w: tuning: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// -------------------- Marks --------------------

// Style controls how added notes are coloured and labelled. Key is only used
// when Intervals is set; labels then show the interval from Key instead of
// the note name.
type Style struct {
	Color     string
	Key       string
	Intervals bool
}

// Mark is a note shown at one string and fret.
type Mark struct {
	String     int                 `json:"string" yaml:"string"`
	Fret       int                 `json:"fret" yaml:"fret"`
	Pitch      pitch.AbsolutePitch `json:"pitch" yaml:"pitch"`
	Label      string              `json:"label" yaml:"label"`
	Color      string              `json:"color" yaml:"color"`
	Emphasized bool                `json:"emphasized,omitempty" yaml:"emphasized,omitempty"` // label drawn dark rather than gray
	Selected   bool                `json:"selected,omitempty" yaml:"selected,omitempty"`     // toggled by clicking
	Active     bool                `json:"active,omitempty" yaml:"active,omitempty"`         // key currently held on a MIDI controller
}

// Board is a fretboard with marked notes.
type Board struct {
	mu     sync.Mutex
	cfg    Config
	reg    *scale.Registry
	logger *slog.Logger
	open   []pitch.AbsolutePitch // by tuning index, lowest string first
	marks  []*Mark
}

// New creates an empty board. A nil registry selects scale.Default and a nil
// logger selects slog.Default.
func New(cfg Config, reg *scale.Registry, logger *slog.Logger) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = scale.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Tuning = append(Tuning(nil), cfg.Tuning...)
	b := &Board{cfg: cfg, reg: reg, logger: logger}
	for _, n := range cfg.Tuning {
		p, err := pitch.AbsolutePitchOf(n)
		if err != nil {
			// only strings beyond cfg.Strings can fail here
			p = 0
		}
		b.open = append(b.open, p)
	}
	return b, nil
}

// Config returns the board configuration.
func (b *Board) Config() Config {
	c := b.cfg
	c.Tuning = append(Tuning(nil), c.Tuning...)
	return c
}

// Registry returns the template registry used for instructions.
func (b *Board) Registry() *scale.Registry { return b.reg }

// basePitch is the pitch at the start fret of string s.
func (b *Board) basePitch(s int) pitch.AbsolutePitch {
	return b.open[b.cfg.Strings-s] + pitch.AbsolutePitch(b.cfg.StartFret)
}

// OpenNotes returns the note at the start fret of each string, string 1 first.
func (b *Board) OpenNotes() []string {
	out := make([]string, b.cfg.Strings)
	for s := 1; s <= b.cfg.Strings; s++ {
		out[s-1] = pitch.NoteNameOf(b.basePitch(s))
	}
	return out
}

// Inlays returns the single-dot frets within the visible range.
func (b *Board) Inlays() []int { return b.visible(inlayFrets) }

// DoubleInlays returns the double-dot (octave) frets within the visible range.
func (b *Board) DoubleInlays() []int { return b.visible(doubleInlayFrets) }

func (b *Board) visible(frets []int) []int {
	var out []int
	for _, f := range frets {
		if f > b.cfg.StartFret && f <= b.cfg.Frets {
			out = append(out, f)
		}
	}
	return out
}

// Marks returns a snapshot of the marks ordered by string, then fret.
func (b *Board) Marks() []Mark {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Mark, len(b.marks))
	for i, m := range b.marks {
		out[i] = *m
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].String != out[j].String {
			return out[i].String < out[j].String
		}
		return out[i].Fret < out[j].Fret
	})
	return out
}

// ClearNotes removes every mark.
func (b *Board) ClearNotes() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marks = nil
}

// AddNoteOnString marks note (with octave, e.g. "g3") on string s if the
// string can play it within the visible frets. A note already marked there
// takes the new colour and has its label emphasized.
func (b *Board) AddNoteOnString(note string, s int, st Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addNoteOnString(note, s, st)
}

func (b *Board) addNoteOnString(note string, s int, st Style) error {
	if s < 1 || s > b.cfg.Strings {
		return fmt.Errorf("%w: no string %d", scale.ErrMalformedInstruction, s)
	}
	abs, err := pitch.AbsolutePitchOf(note)
	if err != nil {
		return err
	}

	if m := b.find(s, abs); m != nil {
		if st.Color != "" {
			m.Color = st.Color
		}
		for _, o := range b.marks {
			if o.Pitch == abs {
				o.Emphasized = true
			}
		}
		return nil
	}

	base := b.basePitch(s)
	if abs < base || abs > base+pitch.AbsolutePitch(b.cfg.Frets-b.cfg.StartFret) {
		return nil
	}

	label := strings.ToUpper(note)
	if st.Intervals && st.Key != "" {
		iv, err := pitch.IntervalNameOf(note, st.Key)
		if err != nil {
			return err
		}
		label = string(iv)
	}
	color := st.Color
	if color == "" {
		color = defaultColor
	}
	m := &Mark{
		String: s,
		Fret:   int(abs-base) + b.cfg.StartFret,
		Pitch:  abs,
		Label:  label,
		Color:  color,
	}
	b.marks = append(b.marks, m)
	b.logger.Debug("fretboard: note added", "note", note, "string", s, "fret", m.Fret, "color", color)
	return nil
}

func (b *Board) find(s int, abs pitch.AbsolutePitch) *Mark {
	for _, m := range b.marks {
		if m.String == s && m.Pitch == abs {
			return m
		}
	}
	return nil
}

// AddNote marks note on every string that can play it.
func (b *Board) AddNote(note string, st Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addNote(note, st)
}

func (b *Board) addNote(note string, st Style) error {
	for s := 1; s <= b.cfg.Strings; s++ {
		if err := b.addNoteOnString(note, s, st); err != nil {
			return err
		}
	}
	return nil
}

// AddNotes marks each space-separated note. A bare pitch class ("c e g") is
// marked in every octave from 1 to 6; a note with an octave ("g3 b3") only
// where that pitch sits. Without a colour, notes take Palette colours in
// order.
func (b *Board) AddNotes(notes string, st Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addNotes(strings.Fields(notes), st)
}

func (b *Board) addNotes(notes []string, st Style) error {
	for i, n := range notes {
		ns := st
		if ns.Color == "" && i < len(Palette) {
			ns.Color = Palette[i]
		}
		if _, _, err := pitch.SplitOctave(n); err == nil {
			if err := b.addNote(n, ns); err != nil {
				return err
			}
			continue
		}
		for octave := 1; octave < 7; octave++ {
			if err := b.addNote(n+strconv.Itoa(octave), ns); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scale replaces all marks with the scale named by instruction (e.g.
// "e natural-minor") over a lightgray chromatic background. The first note of
// the scale is the key for interval labels.
func (b *Board) Scale(instruction, color string, intervals bool) (key string, err error) {
	notes, err := b.reg.Expand(instruction)
	if err != nil {
		return "", err
	}
	key = notes[0]
	chromatic, err := b.reg.Transpose(key, "chromatic")
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.marks = nil
	if err := b.addNotes(chromatic, Style{Color: chromaColor, Key: key, Intervals: intervals}); err != nil {
		return "", err
	}
	if err := b.addNotes(notes, Style{Color: color, Key: key, Intervals: intervals}); err != nil {
		return "", err
	}
	b.logger.Debug("fretboard: scale drawn", "scale", instruction, "key", key, "notes", strings.Join(notes, " "))
	return key, nil
}

// PlaceNotes marks explicit string:note pairs, e.g. "6:g2 5:b2 4:d3".
func (b *Board) PlaceNotes(sequence string, st Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, pair := range strings.Fields(sequence) {
		str, note, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("%w: %q is not string:note", scale.ErrMalformedInstruction, pair)
		}
		s, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("%w: %q: bad string number", scale.ErrMalformedInstruction, pair)
		}
		if err := b.addNoteOnString(note, s, st); err != nil {
			return err
		}
	}
	return nil
}

// Draw runs a semicolon-separated list of instructions, e.g.
// "e natural-minor; 6:e2 5:b2". Each section is classified and dispatched to
// Scale, PlaceNotes or AddNotes. A scale section sets the key used to label
// later sections of the same call when intervals is set.
func (b *Board) Draw(instructions string, intervals bool) error {
	var key string
	for _, section := range strings.Split(instructions, ";") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		var err error
		switch action := b.reg.Classify(section); action {
		case scale.ActionScale:
			key, err = b.Scale(section, "", intervals)
		case scale.ActionPlaceNotes:
			err = b.PlaceNotes(section, Style{Key: key, Intervals: intervals})
		default:
			err = b.AddNotes(section, Style{Key: key, Intervals: intervals})
		}
		if err != nil {
			return fmt.Errorf("draw %q: %w", section, err)
		}
	}
	return nil
}

// -------------------- Selection & activation --------------------

// Toggle flips the selection of the mark at string s, fret f. ok is false
// when nothing is marked there.
func (b *Board) Toggle(s, f int) (selected, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.marks {
		if m.String == s && m.Fret == f {
			m.Selected = !m.Selected
			return m.Selected, true
		}
	}
	return false, false
}

// Activate highlights the marks for note (with octave). If any mark is
// selected, only the mark of that pitch nearest to the first selected mark is
// highlighted; otherwise every mark of that pitch is. It returns the marks
// that were activated.
func (b *Board) Activate(note string) ([]Mark, error) {
	abs, err := pitch.AbsolutePitchOf(note)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var sel *Mark
	for _, m := range b.marks {
		if m.Selected {
			sel = m
			break
		}
	}

	var out []Mark
	if sel != nil {
		var closest *Mark
		best := math.Inf(1)
		for _, m := range b.marks {
			if m.Pitch != abs {
				continue
			}
			if d := distance(m, sel); d < best {
				best, closest = d, m
			}
		}
		if closest != nil {
			closest.Active = true
			out = append(out, *closest)
		}
	} else {
		for _, m := range b.marks {
			if m.Pitch == abs {
				m.Active = true
				out = append(out, *m)
			}
		}
	}
	b.logger.Debug("fretboard: activate", "note", note, "marks", len(out), "selection", sel != nil)
	return out, nil
}

// Deactivate clears the highlight on every mark for note.
func (b *Board) Deactivate(note string) error {
	abs, err := pitch.AbsolutePitchOf(note)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.marks {
		if m.Pitch == abs {
			m.Active = false
		}
	}
	return nil
}

// DeactivateAll clears every highlight, e.g. when the MIDI device goes away.
func (b *Board) DeactivateAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.marks {
		m.Active = false
	}
}

func distance(a, c *Mark) float64 {
	dx := float64((a.Fret - c.Fret) * fretWidth)
	dy := float64((a.String - c.String) * fretHeight)
	return math.Hypot(dx, dy)
}
