package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretnotes/internal/pitch"
	"github.com/chase3718/fretnotes/internal/scale"
)

// ScaleResult is a transposed template.
type ScaleResult struct {
	Root      string   `json:"root" yaml:"root"`
	Template  string   `json:"template" yaml:"template"`
	Notes     []string `json:"notes" yaml:"notes"`
	Intervals []string `json:"intervals,omitempty" yaml:"intervals,omitempty"`
}

// ClassifyResult is the dispatch decision for one instruction.
type ClassifyResult struct {
	Instruction string `json:"instruction" yaml:"instruction"`
	Action      string `json:"action" yaml:"action"`
}

var (
	scaleIntervals bool
	scalesKind     string
)

var notesCmd = &cobra.Command{
	Use:     "notes <template>",
	Short:   "Notes of a scale or chord template",
	Example: `  fretnotes notes harmonic-minor`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		t, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w: %q", scale.ErrUnknownScaleName, args[0])
		}
		return output(cmd, t, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, strings.Join(t.Notes, " "))
			return err
		})
	},
}

var scaleCmd = &cobra.Command{
	Use:   "scale <root> <template>",
	Short: "Transpose a template to a root",
	Long: `Transposes a scale or chord template so it starts on root. Notes are
spelled with sharps and keep the template order.`,
	Example: `  fretnotes scale e natural-minor
  fretnotes scale "bb major" --intervals -o yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		root, name, err := scale.ParseScale(strings.Join(args, " "))
		if err != nil {
			return err
		}
		notes, err := reg.Transpose(root, name)
		if err != nil {
			return err
		}
		res := ScaleResult{Root: root, Template: name, Notes: notes}
		if scaleIntervals {
			kc, err := pitch.PitchClassOf(root)
			if err != nil {
				return err
			}
			for _, n := range notes {
				pc, err := pitch.PitchClassOf(n)
				if err != nil {
					return err
				}
				res.Intervals = append(res.Intervals, string(pitch.Distance(kc, pc)))
			}
		}
		return output(cmd, res, func(w io.Writer) error {
			fmt.Fprintln(w, strings.Join(res.Notes, " "))
			if len(res.Intervals) > 0 {
				fmt.Fprintln(w, strings.Join(res.Intervals, " "))
			}
			return nil
		})
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <instruction>...",
	Short: "Show how a draw instruction is dispatched",
	Long: `Prints scale, placeNotes or addNotes for each instruction. A malformed
instruction classifies as addNotes and fails later when drawn.`,
	Example: `  fretnotes classify "e natural-minor" "6:e2 5:b2" "g3 b3"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		results := make([]ClassifyResult, 0, len(args))
		for _, in := range args {
			results = append(results, ClassifyResult{Instruction: in, Action: string(reg.Classify(in))})
		}
		return output(cmd, results, func(w io.Writer) error {
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\n", r.Action, r.Instruction)
			}
			return nil
		})
	},
}

var scalesCmd = &cobra.Command{
	Use:     "scales",
	Short:   "List scale and chord templates",
	Example: `  fretnotes scales --kind chord`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		var kinds []scale.Kind
		switch scalesKind {
		case "", "all":
		case string(scale.KindScale), string(scale.KindChord):
			kinds = append(kinds, scale.Kind(scalesKind))
		default:
			return fmt.Errorf("unknown kind %q (want scale, chord or all)", scalesKind)
		}
		templates := reg.Templates(kinds...)
		return output(cmd, templates, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, t := range templates {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Kind, strings.Join(t.Notes, " "))
			}
			return tw.Flush()
		})
	},
}

func init() {
	scaleCmd.Flags().BoolVar(&scaleIntervals, "intervals", false, "also print the interval of each note")
	scalesCmd.Flags().StringVar(&scalesKind, "kind", "all", "template kind (scale, chord, all)")
	for _, cmd := range []*cobra.Command{notesCmd, scaleCmd, classifyCmd, scalesCmd} {
		addOutputFlag(cmd)
		rootCmd.AddCommand(cmd)
	}
}
