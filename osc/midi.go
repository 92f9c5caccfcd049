package osc

import "fmt"

// MidiMessage is the payload of an 'm' argument: a MIDI message
// framed for transport over a virtual port, high byte first on the
// wire (port id, status byte, two data bytes).
type MidiMessage struct {
	Port   byte
	Status byte
	Data1  byte
	Data2  byte
}

// midiCommand describes one MIDI status nibble: how many of the two
// data bytes are meaningful, and its conventional name. Values below
// are the well-known channel voice messages; System messages (status
// 0xF0 and above) are not decoded further here, matching this
// package's scope of a wire codec and not a MIDI sequencer.
var midiCommands = map[byte]struct {
	name      string
	dataBytes int
}{
	0x80: {"Note Off", 2},
	0x90: {"Note On", 2},
	0xA0: {"Polyphonic Key Pressure", 2},
	0xB0: {"Control Change", 2},
	0xC0: {"Program Change", 1},
	0xD0: {"Channel Pressure", 1},
	0xE0: {"Pitch Bend Change", 2},
}

// CommandName returns the conventional name of m's status byte's high
// nibble, e.g. "Note On", or "Unknown" if the nibble isn't one of the
// channel voice messages this package recognizes.
func (m MidiMessage) CommandName() string {
	if cmd, ok := midiCommands[m.Status&0xF0]; ok {
		return cmd.name
	}
	return "Unknown"
}

// Channel returns the MIDI channel number (0-15) encoded in the low
// nibble of the status byte.
func (m MidiMessage) Channel() byte {
	return m.Status & 0x0F
}

func (m MidiMessage) String() string {
	return fmt.Sprintf("MIDI(port=%d, %s, chan=%d, %d, %d)",
		m.Port, m.CommandName(), m.Channel(), m.Data1, m.Data2)
}
