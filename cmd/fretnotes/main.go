// Command fretnotes maps note names, scales and chords onto a fretboard.
//
// Usage:
//
//	fretnotes [flags] <command> [args]
//
// Commands:
//
//	pitch     - Pitch class or absolute pitch of note names
//	name      - Note names of absolute pitches
//	interval  - Interval names of notes relative to a key
//	notes     - Notes of a scale or chord template
//	scale     - Transpose a template to a root
//	classify  - Show how a draw instruction is dispatched
//	scales    - List scale and chord templates
//	draw      - Render instructions on a fretboard
//	listen    - Highlight notes played on a MIDI keyboard
package main

import (
	"fmt"
	"os"

	"github.com/chase3718/fretnotes/cmd/fretnotes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
