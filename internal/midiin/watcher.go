package midiin

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Options tunes device selection.
type Options struct {
	// Preferred devices matching any of these patterns are picked first.
	Preferred []string
	// Excluded virtual/system ports are never auto-connected.
	Excluded []string
	// Rescan is the minimum time between device scans.
	Rescan time.Duration
}

// DefaultOptions prefers Launchkey/Novation keyboards and skips through ports.
func DefaultOptions() Options {
	return Options{
		Preferred: []string{"Launchkey", "Novation"},
		Excluded:  []string{"Midi Through", "Through Port", "Dummy"},
		Rescan:    time.Second,
	}
}

// Watcher monitors available MIDI inputs and keeps a connection to the
// preferred device. It handles hot-plug (new device appears) and hot-unplug
// (device disappears).
//
// onKey is called from the listener goroutine for every key event while a
// device is connected. onDisconnect is called from its own goroutine when the
// active device is lost; callers should release held notes there.
type Watcher struct {
	mu           sync.Mutex
	drv          drivers.Driver
	opts         Options
	logger       *slog.Logger
	inPort       drivers.In
	stopFn       func()
	connected    bool
	selectedName string
	lastRescanAt time.Time

	onKey        func(KeyEvent)
	onDisconnect func()
}

// NewWatcher creates a watcher over drv. The watcher owns drv and closes it
// in Close.
func NewWatcher(drv drivers.Driver, opts Options, logger *slog.Logger, onKey func(KeyEvent), onDisconnect func()) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Rescan <= 0 {
		opts.Rescan = time.Second
	}
	return &Watcher{
		drv:          drv,
		opts:         opts,
		logger:       logger,
		onKey:        onKey,
		onDisconnect: onDisconnect,
	}
}

// Close shuts down the active connection and the driver.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeConn()
	if err := w.drv.Close(); err != nil {
		w.logger.Warn("midi: driver close failed", "err", err)
	}
}

// Connected returns the name of the connected device, if any.
func (w *Watcher) Connected() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedName, w.connected
}

// Tick should be called on a regular interval from the main loop. It scans
// for devices, auto-connects to a preferred one, and detects disappearance.
func (w *Watcher) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if !w.lastRescanAt.IsZero() && now.Sub(w.lastRescanAt) < w.opts.Rescan {
		return
	}
	w.lastRescanAt = now

	inputs := w.listInputs()

	if w.connected {
		for _, n := range inputs {
			if n == w.selectedName {
				return
			}
		}
		w.logger.Warn("midi: device disappeared", "device", w.selectedName)
		w.closeConn()
		w.lastRescanAt = time.Time{} // rescan immediately next tick
		if w.onDisconnect != nil {
			go w.onDisconnect()
		}
		return
	}

	if len(inputs) == 0 {
		return
	}
	cand, ok := pickPreferred(inputs, w.opts.Preferred)
	if !ok {
		w.logger.Debug("midi: no preferred device", "available", strings.Join(inputs, ", "))
		return
	}
	if err := w.openByName(cand); err != nil {
		w.logger.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// -------------------- internal --------------------

func (w *Watcher) listInputs() []string {
	ins, err := w.drv.Ins()
	if err != nil {
		w.logger.Error("midi: list inputs failed", "err", err)
		return nil
	}
	var names []string
	for _, in := range ins {
		name := in.String()
		if matchesAny(name, w.opts.Excluded) {
			w.logger.Debug("midi: input excluded", "device", name)
			continue
		}
		names = append(names, name)
	}
	w.logger.Debug("midi: inputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

func pickPreferred(inputs, preferred []string) (string, bool) {
	for _, pat := range preferred {
		for _, name := range inputs {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(inputs) == 1 {
		return inputs[0], true
	}
	return "", false
}

func (w *Watcher) closeConn() {
	if w.stopFn != nil {
		w.stopFn()
		w.stopFn = nil
	}
	if w.inPort != nil {
		_ = w.inPort.Close()
		w.inPort = nil
	}
	w.connected = false
	w.selectedName = ""
}

func (w *Watcher) openByName(name string) error {
	ins, err := w.drv.Ins()
	if err != nil {
		return err
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("input %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := midi.ListenTo(found, w.handle, midi.HandleError(func(listenErr error) {
		w.logger.Warn("midi: listener error", "device", name, "err", listenErr)
		// closeConn must not run on the listener goroutine.
		go func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.connected && w.selectedName == name {
				w.closeConn()
				w.lastRescanAt = time.Time{}
				if w.onDisconnect != nil {
					go w.onDisconnect()
				}
			}
		}()
	}))
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}

	w.inPort = found
	w.stopFn = stop
	w.connected = true
	w.selectedName = name
	w.logger.Info("midi: connected", "device", name)
	return nil
}

func (w *Watcher) handle(msg midi.Message, _ int32) {
	ev, ok := Translate(msg)
	if !ok {
		w.logger.Debug("midi: unhandled message", "msg", msg.String())
		return
	}
	w.logger.Debug("midi: key", "note", ev.NoteWithOctave(), "down", ev.Down, "vel", ev.Velocity, "ch", ev.Channel)
	if w.onKey != nil {
		w.onKey(ev)
	}
}

// -------------------- utility --------------------

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if containsCI(s, p) {
			return true
		}
	}
	return false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
