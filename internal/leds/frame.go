// Package leds drives an LED fretboard over a serial link. Each frame carries
// the full state of every string: which frets are marked and which are lit
// by a held key.
package leds

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chase3718/fretnotes/internal/fretboard"
)

const (
	// MaxFrets is the number of frets a string bitmask can address.
	MaxFrets       = 32
	CmdShowMarks   = 0x20
	SOF0           = 0xAA
	SOF1           = 0x55
	maxPayloadSize = 255 - 1
)

// ErrFrameTooLarge is returned when a frame does not fit the one-byte length
// field.
var ErrFrameTooLarge = errors.New("frame too large")

// Frame is a full-state snapshot of the board sent in one transfer.
type Frame struct {
	Marked []uint32 // bit N set = fret N marked, index 0 = string 1
	Active []uint32 // bit N set = fret N lit by a held key
	Seq    byte
}

// FromMarks builds a frame for a board with the given number of strings.
// Marks on frets the bitmask cannot address are dropped.
func FromMarks(strings int, marks []fretboard.Mark, seq byte) Frame {
	f := Frame{
		Marked: make([]uint32, strings),
		Active: make([]uint32, strings),
		Seq:    seq,
	}
	for _, m := range marks {
		if m.String < 1 || m.String > strings || m.Fret < 0 || m.Fret >= MaxFrets {
			continue
		}
		bit := uint32(1) << m.Fret
		f.Marked[m.String-1] |= bit
		if m.Active {
			f.Active[m.String-1] |= bit
		}
	}
	return f
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][N][marked u32 LE x N][active u32 LE x N][Seq][CKS]
//
// LEN counts CMD and the payload; CKS is the XOR of LEN, CMD and the payload.
func (f Frame) Encode() ([]byte, error) {
	n := len(f.Marked)
	if len(f.Active) != n {
		return nil, fmt.Errorf("frame: %d marked strings, %d active", n, len(f.Active))
	}
	payload := make([]byte, 0, 2+8*n)
	payload = append(payload, byte(n))
	for _, m := range f.Marked {
		payload = binary.LittleEndian.AppendUint32(payload, m)
	}
	for _, a := range f.Active {
		payload = binary.LittleEndian.AppendUint32(payload, a)
	}
	payload = append(payload, f.Seq)
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("%w: %d byte payload", ErrFrameTooLarge, len(payload))
	}

	length := byte(len(payload) + 1) // +1 for CMD byte
	cks := length ^ CmdShowMarks
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdShowMarks}
	out = append(out, payload...)
	out = append(out, cks)
	return out, nil
}

// Empty returns an all-dark frame, used when the board is cleared.
func Empty(strings int, seq byte) Frame {
	return Frame{
		Marked: make([]uint32, strings),
		Active: make([]uint32, strings),
		Seq:    seq,
	}
}
