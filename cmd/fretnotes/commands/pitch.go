package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretnotes/internal/pitch"
)

// PitchResult describes one note name.
type PitchResult struct {
	Note     string `json:"note" yaml:"note"`
	Class    int    `json:"class" yaml:"class"`
	Absolute *int   `json:"absolute,omitempty" yaml:"absolute,omitempty"`
	MIDI     *int   `json:"midi,omitempty" yaml:"midi,omitempty"`
}

// IntervalResult is the interval of a note above a key.
type IntervalResult struct {
	Note     string `json:"note" yaml:"note"`
	Key      string `json:"key" yaml:"key"`
	Interval string `json:"interval" yaml:"interval"`
}

var pitchCmd = &cobra.Command{
	Use:   "pitch <note>...",
	Short: "Pitch class or absolute pitch of note names",
	Long: `Prints the pitch class (0-11, c=0) of each note. Notes with an octave,
such as g#3, also get their absolute pitch (octave*12 + class) and MIDI key.`,
	Example: `  fretnotes pitch c# db
  fretnotes pitch e2 a4 -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]PitchResult, 0, len(args))
		for _, arg := range args {
			r, err := describePitch(arg)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return output(cmd, results, func(w io.Writer) error {
			for _, r := range results {
				line := fmt.Sprintf("%s\t%d", r.Note, r.Class)
				if r.Absolute != nil {
					line += fmt.Sprintf("\t%d", *r.Absolute)
				}
				if r.MIDI != nil {
					line += fmt.Sprintf("\tmidi %d", *r.MIDI)
				}
				fmt.Fprintln(w, line)
			}
			return nil
		})
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <absolute-pitch>...",
	Short: "Note names of absolute pitches",
	Example: `  fretnotes name 28 45`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(args))
		for _, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return fmt.Errorf("not an absolute pitch: %q (want an integer from 0, c0)", arg)
			}
			names = append(names, pitch.NoteNameOf(pitch.AbsolutePitch(n)))
		}
		return output(cmd, names, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, strings.Join(names, " "))
			return err
		})
	},
}

var intervalCmd = &cobra.Command{
	Use:   "interval <key> <note>...",
	Short: "Interval names of notes relative to a key",
	Example: `  fretnotes interval e g#3 b3 d4`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		results := make([]IntervalResult, 0, len(args)-1)
		for _, note := range args[1:] {
			iv, err := pitch.IntervalNameOf(note, key)
			if err != nil {
				return err
			}
			results = append(results, IntervalResult{Note: note, Key: key, Interval: string(iv)})
		}
		return output(cmd, results, func(w io.Writer) error {
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\n", r.Note, r.Interval)
			}
			return nil
		})
	},
}

func describePitch(note string) (PitchResult, error) {
	if !hasOctave(note) {
		pc, err := pitch.PitchClassOf(note)
		if err != nil {
			return PitchResult{}, err
		}
		return PitchResult{Note: note, Class: int(pc)}, nil
	}
	abs, err := pitch.AbsolutePitchOf(note)
	if err != nil {
		return PitchResult{}, err
	}
	a := int(abs)
	r := PitchResult{Note: note, Class: int(abs.Class()), Absolute: &a}
	if key, ok := pitch.ToMIDI(abs); ok {
		m := int(key)
		r.MIDI = &m
	}
	return r, nil
}

func hasOctave(note string) bool {
	return note != "" && unicode.IsDigit(rune(note[len(note)-1]))
}

func init() {
	for _, cmd := range []*cobra.Command{pitchCmd, nameCmd, intervalCmd} {
		addOutputFlag(cmd)
		rootCmd.AddCommand(cmd)
	}
}
