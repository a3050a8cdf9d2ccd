package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretnotes/internal/config"
	"github.com/chase3718/fretnotes/internal/fretboard"
	"github.com/chase3718/fretnotes/internal/termview"
)

// DrawResult is the structured form of a drawn board.
type DrawResult struct {
	Instructions string           `json:"instructions" yaml:"instructions"`
	Tuning       []string         `json:"tuning" yaml:"tuning"`
	StartFret    int              `json:"start_fret" yaml:"start_fret"`
	Frets        int              `json:"frets" yaml:"frets"`
	Marks        []fretboard.Mark `json:"marks" yaml:"marks"`
}

// boardFlags override the board section of the config file.
type boardFlags struct {
	instrument string
	tuning     string
	strings    int
	frets      string
	intervals  bool
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.instrument, "instrument", "", "instrument ("+strings.Join(fretboard.Instruments(), ", ")+")")
	cmd.Flags().StringVar(&f.tuning, "tuning", "", "tuning name, e.g. standard or Drop_D")
	cmd.Flags().IntVar(&f.strings, "strings", 0, "number of strings")
	cmd.Flags().StringVar(&f.frets, "frets", "", `visible frets, e.g. "12" or "3-8"`)
	cmd.Flags().BoolVar(&f.intervals, "intervals", false, "label notes by interval from the key")
}

// apply copies changed flags into cfg and returns the board config and
// interval setting.
func (f *boardFlags) apply(cmd *cobra.Command, cfg *config.Config) (fretboard.Config, bool, error) {
	flags := cmd.Flags()
	if flags.Changed("instrument") {
		cfg.Board.Instrument = f.instrument
		if !flags.Changed("tuning") {
			cfg.Board.Tuning = "standard"
		}
		if !flags.Changed("strings") {
			cfg.Board.Strings = 0
		}
	}
	if flags.Changed("tuning") {
		cfg.Board.Tuning = f.tuning
	}
	if flags.Changed("strings") {
		cfg.Board.Strings = f.strings
	}
	if flags.Changed("frets") {
		cfg.Board.Frets = f.frets
	}
	intervals := cfg.Intervals
	if flags.Changed("intervals") {
		intervals = f.intervals
	}
	bc, err := cfg.BoardConfig()
	return bc, intervals, err
}

var (
	drawBoard boardFlags
	drawColor bool
)

var drawCmd = &cobra.Command{
	Use:   "draw <instructions>",
	Short: "Render instructions on a fretboard",
	Long: `Draws semicolon separated instructions on a fretboard and prints it.

Each section is a scale ("e natural-minor"), string:note pairs ("6:e2 5:b2"),
notes placed wherever they fit ("g3 b3 d4") or pitch classes placed in every
octave ("g b d"). A scale section sets the key
for interval labels of the sections after it.`,
	Example: `  fretnotes draw "e natural-minor"
  fretnotes draw "a minor-pentatonic; 5:c3" --frets 5-12 --intervals
  fretnotes draw "g2 b2 d3" --instrument bass4 -o yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		bc, intervals, err := drawBoard.apply(cmd, cfg)
		if err != nil {
			return err
		}
		board, err := fretboard.New(bc, reg, logger)
		if err != nil {
			return err
		}
		instructions := strings.Join(args, " ")
		if err := board.Draw(instructions, intervals); err != nil {
			return err
		}
		res := DrawResult{
			Instructions: instructions,
			Tuning:       board.OpenNotes(),
			StartFret:    bc.StartFret,
			Frets:        bc.Frets,
			Marks:        board.Marks(),
		}
		return output(cmd, res, func(w io.Writer) error {
			_, err := fmt.Fprint(w, termview.Render(board, termview.Options{Color: drawColor}))
			return err
		})
	},
}

func init() {
	drawBoard.register(drawCmd)
	drawCmd.Flags().BoolVar(&drawColor, "color", true, "colour the text output")
	addOutputFlag(drawCmd)
	rootCmd.AddCommand(drawCmd)
}
