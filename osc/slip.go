package osc

import "fmt"

// SLIP (RFC 1055) framing bytes. A packet's raw bytes are escaped
// byte-by-byte and terminated with SlipEnd, letting a decoder
// resynchronize on the next End byte after any corruption instead of
// needing a length prefix. Grounded directly on
// original_source/.../Osc99/OscSlip.c and OscSlip.h, since no example
// repo in this corpus implements SLIP.
const (
	SlipEnd    = 0xC0
	SlipEsc    = 0xDB
	SlipEscEnd = 0xDC
	SlipEscEsc = 0xDD
)

// FrameHandler is called once per complete, successfully decoded
// Packet a SlipDecoder assembles from a byte stream.
type FrameHandler func(pkt *Packet) error

// SlipDecoder reassembles SLIP-framed bytes, one at a time, into
// Packets. It holds a fixed-size receive buffer; a frame exceeding
// that buffer is dropped rather than truncated silently, per
// SPEC_FULL.md §4 resolution 4.
type SlipDecoder struct {
	buffer     []byte
	writeIdx   int
	inEscape   bool
	overflowed bool

	handler FrameHandler
	limits  Limits
}

// NewSlipDecoder returns a SlipDecoder that calls handler with each
// decoded Packet.
func NewSlipDecoder(handler FrameHandler, opts ...SlipOption) (*SlipDecoder, error) {
	d := &SlipDecoder{handler: handler, limits: DefaultLimits()}
	d.buffer = make([]byte, d.limits.OSCSlipDecoderBufferSize)
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ProcessByte feeds one byte of a SLIP stream to the decoder. It
// returns nil while a frame is still being assembled, except that a
// byte following an escape byte that is neither SlipEscEnd nor
// SlipEscEsc discards the frame so far and returns ErrInvalidEscape
// at once. On a frame boundary (SlipEnd) it either calls the handler
// and returns its error, or returns ErrFrameDropped if the frame
// overran the receive buffer.
func (d *SlipDecoder) ProcessByte(b byte) error {
	switch {
	case b == SlipEnd:
		return d.endFrame()

	case b == SlipEsc:
		d.inEscape = true
		return nil

	default:
		actual := b
		if d.inEscape {
			d.inEscape = false
			switch b {
			case SlipEscEnd:
				actual = SlipEnd
			case SlipEscEsc:
				actual = SlipEsc
			default:
				d.writeIdx = 0
				d.overflowed = false
				return fmt.Errorf("osc: escape byte followed by %#x: %w", b, ErrInvalidEscape)
			}
		}
		return d.writeByte(actual)
	}
}

func (d *SlipDecoder) writeByte(b byte) error {
	if d.writeIdx >= len(d.buffer) {
		d.overflowed = true
		return nil
	}
	d.buffer[d.writeIdx] = b
	d.writeIdx++
	return nil
}

func (d *SlipDecoder) endFrame() error {
	defer func() {
		d.writeIdx = 0
		d.inEscape = false
		d.overflowed = false
	}()

	if d.overflowed {
		return ErrFrameDropped
	}
	if d.writeIdx == 0 {
		// A bare or repeated End byte; SLIP treats it as a frame
		// separator with nothing to deliver.
		return nil
	}
	if d.handler == nil {
		return ErrNoHandler
	}

	frame := make([]byte, d.writeIdx)
	copy(frame, d.buffer[:d.writeIdx])
	pkt, err := NewPacketFromBytes(frame, WithPacketLimits(d.limits))
	if err != nil {
		return err
	}
	return d.handler(pkt)
}

// EncodePacket escapes data's SlipEnd and SlipEsc bytes and appends a
// terminating SlipEnd, producing a frame safe to write to a SLIP
// transport. Fails with ErrCapacity if the encoded frame would exceed
// limits.MaxSLIPFrameSize.
func EncodePacket(data []byte, limits Limits) ([]byte, error) {
	buf := make([]byte, 0, len(data)+len(data)/8+1)
	for _, b := range data {
		switch b {
		case SlipEnd:
			buf = append(buf, SlipEsc, SlipEscEnd)
		case SlipEsc:
			buf = append(buf, SlipEsc, SlipEscEsc)
		default:
			buf = append(buf, b)
		}
	}
	buf = append(buf, SlipEnd)
	if len(buf) > limits.MaxSLIPFrameSize {
		return nil, fmt.Errorf("osc: encoded SLIP frame of %d bytes exceeds limit %d: %w",
			len(buf), limits.MaxSLIPFrameSize, ErrCapacity)
	}
	return buf, nil
}
