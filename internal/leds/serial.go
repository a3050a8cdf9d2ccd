package leds

import (
	"fmt"
	"io"
	"log/slog"

	"go.bug.st/serial"
)

// Port writes frames to an LED controller.
type Port struct {
	w      io.WriteCloser
	logger *slog.Logger
}

// Open opens the named serial device at the given baud rate.
func Open(device string, baud int, logger *slog.Logger) (*Port, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}
	logger.Info("serial: port opened", "device", device, "baud", baud)
	return NewPort(p, logger), nil
}

// NewPort wraps an already open connection.
func NewPort(w io.WriteCloser, logger *slog.Logger) *Port {
	if logger == nil {
		logger = slog.Default()
	}
	return &Port{w: w, logger: logger}
}

// SendFrame encodes and writes f.
func (p *Port) SendFrame(f Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	n, err := p.w.Write(data)
	if err != nil {
		p.logger.Error("serial: write error", "err", err)
		return fmt.Errorf("serial: write: %w", err)
	}
	p.logger.Debug("serial: frame sent", "bytes", n, "seq", f.Seq, "strings", len(f.Marked))
	return nil
}

// Close closes the underlying connection.
func (p *Port) Close() error {
	p.logger.Info("serial: closing port")
	return p.w.Close()
}
