// Package midiin turns key presses on a MIDI controller into note events.
package midiin

import (
	"strconv"

	"gitlab.com/gomidi/midi/v2"

	"github.com/chase3718/fretnotes/internal/pitch"
)

// KeyEvent is a decoded key-down or key-up.
type KeyEvent struct {
	Note     string // sharp spelling, e.g. "c#"
	Octave   int
	Down     bool
	Velocity uint8
	Channel  uint8
}

// NoteWithOctave returns e.g. "c#4".
func (e KeyEvent) NoteWithOctave() string {
	return e.Note + strconv.Itoa(e.Octave)
}

// Translate decodes note start and note end messages. Other messages, and
// keys below c0 (MIDI 12), report ok == false.
func Translate(msg midi.Message) (ev KeyEvent, ok bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		ev = KeyEvent{Down: true, Velocity: vel, Channel: ch}
	case msg.GetNoteEnd(&ch, &key):
		ev = KeyEvent{Channel: ch}
	default:
		return KeyEvent{}, false
	}
	p := pitch.FromMIDI(key)
	if p < 0 {
		return KeyEvent{}, false
	}
	ev.Note = p.Class().Name()
	ev.Octave = p.Octave()
	return ev, true
}
