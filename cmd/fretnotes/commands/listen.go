package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretnotes/internal/fretboard"
	"github.com/chase3718/fretnotes/internal/leds"
	"github.com/chase3718/fretnotes/internal/midiin"
	"github.com/chase3718/fretnotes/internal/termview"
)

var (
	listenBoard  boardFlags
	listenSerial string
	listenBaud   int
	listenShow   bool
	listenSelect []string
)

var listenCmd = &cobra.Command{
	Use:   "listen [instructions]",
	Short: "Highlight notes played on a MIDI keyboard",
	Long: `Draws the instructions (or the configured startup scale), then connects
to a MIDI keyboard and highlights every mark of each held key. Selected marks
(--select 4:10, or select in the config file) restrict the highlight to the
position nearest the first selected mark.

With a serial device the marked and active positions are sent to an LED
controller after every change. Devices are rescanned so a keyboard can be
plugged in or removed while listening.`,
	Example: `  fretnotes listen
  fretnotes listen "a minor-pentatonic" --serial /dev/ttyACM0 --show
  fretnotes listen "e natural-minor" --select 5:7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		bc, intervals, err := listenBoard.apply(cmd, cfg)
		if err != nil {
			return err
		}
		board, err := fretboard.New(bc, reg, logger)
		if err != nil {
			return err
		}
		instructions := cfg.Startup
		if len(args) > 0 {
			instructions = strings.Join(args, " ")
		}
		if instructions != "" {
			if err := board.Draw(instructions, intervals); err != nil {
				return err
			}
		}
		selection := cfg.Select
		if cmd.Flags().Changed("select") {
			selection = listenSelect
		}
		if err := applySelection(board, selection); err != nil {
			return err
		}

		device, baud := cfg.Serial.Device, cfg.Serial.Baud
		if cmd.Flags().Changed("serial") {
			device = listenSerial
		}
		if cmd.Flags().Changed("baud") {
			baud = listenBaud
		}
		s := &session{board: board, logger: logger}
		if listenShow {
			s.out = cmd.OutOrStdout()
		}
		if device != "" {
			port, err := leds.Open(device, baud, logger)
			if err != nil {
				return err
			}
			defer port.Close()
			s.port = port
		}

		drv, err := newDriver()
		if err != nil {
			return err
		}
		opts := cfg.MIDIOptions()
		w := midiin.NewWatcher(drv, opts, logger, s.onKey, s.onDisconnect)
		defer w.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("fretnotes listening",
			"instructions", instructions,
			"strings", bc.Strings,
			"frets", fmt.Sprintf("%d-%d", bc.StartFret, bc.Frets),
			"serial", device,
			"rescan", opts.Rescan,
		)
		s.refresh()

		w.Tick()
		ticker := time.NewTicker(opts.Rescan)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("fretnotes stopping")
				s.blank()
				return nil
			case <-ticker.C:
				w.Tick()
			}
		}
	},
}

// applySelection selects the marks named by "string:fret" positions.
func applySelection(board *fretboard.Board, positions []string) error {
	for _, p := range positions {
		str, fret, ok := strings.Cut(strings.TrimSpace(p), ":")
		s, serr := strconv.Atoi(str)
		f, ferr := strconv.Atoi(fret)
		if !ok || serr != nil || ferr != nil {
			return fmt.Errorf("select %q: want string:fret", p)
		}
		if _, ok := board.Toggle(s, f); !ok {
			return fmt.Errorf("select %q: no mark at string %d fret %d", p, s, f)
		}
	}
	return nil
}

// session applies key events to a board and mirrors it to the LED port and
// terminal.
type session struct {
	mu     sync.Mutex
	board  *fretboard.Board
	port   *leds.Port // optional
	out    io.Writer  // optional
	logger *slog.Logger
	seq    byte
}

// onKey is called from the MIDI listener goroutine.
func (s *session) onKey(ev midiin.KeyEvent) {
	note := ev.NoteWithOctave()
	if ev.Down {
		marks, err := s.board.Activate(note)
		if err != nil {
			s.logger.Warn("listen: activate failed", "note", note, "err", err)
			return
		}
		if len(marks) == 0 {
			s.logger.Debug("listen: note not on board", "note", note)
		}
	} else if err := s.board.Deactivate(note); err != nil {
		s.logger.Warn("listen: deactivate failed", "note", note, "err", err)
		return
	}
	s.refresh()
}

// onDisconnect releases every held key.
func (s *session) onDisconnect() {
	s.logger.Warn("midi: disconnect, releasing all notes")
	s.board.DeactivateAll()
	s.refresh()
}

func (s *session) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		f := leds.FromMarks(s.board.Config().Strings, s.board.Marks(), s.seq)
		if err := s.port.SendFrame(f); err != nil {
			s.logger.Error("listen: frame not sent", "seq", s.seq, "err", err)
		}
		s.seq++
	}
	if s.out != nil {
		fmt.Fprintln(s.out, termview.Render(s.board, termview.Options{Color: true}))
	}
}

// blank turns every LED off.
func (s *session) blank() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return
	}
	if err := s.port.SendFrame(leds.Empty(s.board.Config().Strings, s.seq)); err != nil {
		s.logger.Error("listen: blank frame not sent", "err", err)
	}
	s.seq++
}

func init() {
	listenBoard.register(listenCmd)
	listenCmd.Flags().StringVar(&listenSerial, "serial", "", "LED controller serial device (overrides config)")
	listenCmd.Flags().IntVar(&listenBaud, "baud", 500000, "serial baud rate (overrides config)")
	listenCmd.Flags().StringSliceVar(&listenSelect, "select", nil, "select marks by string:fret, e.g. 5:7 (overrides config)")
	listenCmd.Flags().BoolVar(&listenShow, "show", false, "print the board after every change")
	rootCmd.AddCommand(listenCmd)
}
