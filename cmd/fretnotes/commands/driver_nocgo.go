//go:build !cgo

package commands

import (
	"errors"

	"gitlab.com/gomidi/midi/v2/drivers"
)

// without cgo there is no rtmidi backend
func newDriver() (drivers.Driver, error) {
	return nil, errors.New("midi input needs a cgo build")
}
