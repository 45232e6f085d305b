// Package midiout sends candidate fingerings to a hardware MIDI output.
// The engine never touches this; only the play command does.
package midiout

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

// Sender is an open connection to one MIDI output port.
type Sender struct {
	out  drivers.Out
	send func(midi.Message) error
}

// Ports lists the available MIDI output port names.
func Ports() []string {
	outs := midi.GetOutPorts()
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.String()
	}
	return names
}

// Open connects to the first output port whose name contains the given
// substring (case-insensitive). An empty name picks the first available
// port.
func Open(name string) (*Sender, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, apperrors.ErrNoDevice
	}

	var out drivers.Out
	if name == "" {
		out = outs[0]
	} else {
		for _, o := range outs {
			if strings.Contains(strings.ToLower(o.String()), strings.ToLower(name)) {
				out = o
				break
			}
		}
		if out == nil {
			return nil, fmt.Errorf("%w: no port matching %q", apperrors.ErrNoDevice, name)
		}
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open port %q: %w", out.String(), err)
	}
	return &Sender{out: out, send: send}, nil
}

// Port returns the connected port name.
func (s *Sender) Port() string {
	return s.out.String()
}

// PlayChord sounds all notes simultaneously for the hold duration.
func (s *Sender) PlayChord(notes []int, velocity uint8, hold time.Duration) error {
	for _, n := range notes {
		if n < 0 || n > 127 {
			continue
		}
		if err := s.send(midi.NoteOn(0, uint8(n), velocity)); err != nil {
			return fmt.Errorf("note on %d: %w", n, err)
		}
	}
	time.Sleep(hold)
	for _, n := range notes {
		if n < 0 || n > 127 {
			continue
		}
		if err := s.send(midi.NoteOff(0, uint8(n))); err != nil {
			return fmt.Errorf("note off %d: %w", n, err)
		}
	}
	return nil
}

// Close releases the port and the underlying driver.
func (s *Sender) Close() {
	midi.CloseDriver()
}
