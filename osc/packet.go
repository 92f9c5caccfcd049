package osc

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Packet is a top-level OSC transmission unit: the raw bytes of
// either a single Message or a Bundle, not yet classified. Process
// walks it recursively, since a Bundle's elements are themselves
// Messages or Bundles.
type Packet struct {
	contents []byte
	limits   Limits
}

// NewPacket returns an empty Packet. A Packet holding contents is
// built with NewPacketFromContents or NewPacketFromBytes instead;
// there is no method that fills an existing Packet.
func NewPacket(opts ...PacketOption) (*Packet, error) {
	p := &Packet{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewPacketFromContents serializes c (a Message or Bundle) and wraps
// the result in a Packet.
//
// The original C source's OscPacketInitialiseFromContents returns an
// error code unconditionally after a successful serialize, a bug
// documented in SPEC_FULL.md §4 resolution 1: this constructor
// returns a nil error whenever serialization itself succeeds.
func NewPacketFromContents(c Content, opts ...PacketOption) (*Packet, error) {
	p := &Packet{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	data, err := c.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(data) > p.limits.MaxOSCPacketSize {
		return nil, fmt.Errorf("osc: packet of %d bytes exceeds limit %d: %w",
			len(data), p.limits.MaxOSCPacketSize, ErrCapacity)
	}
	p.contents = data
	return p, nil
}

// NewPacketFromBytes wraps an already-serialized buffer, e.g. one
// just decoded off a SLIP frame.
func NewPacketFromBytes(data []byte, opts ...PacketOption) (*Packet, error) {
	p := &Packet{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if len(data) > p.limits.MaxOSCPacketSize {
		return nil, fmt.Errorf("osc: packet of %d bytes exceeds limit %d: %w",
			len(data), p.limits.MaxOSCPacketSize, ErrCapacity)
	}
	p.contents = data
	return p, nil
}

// Contents returns the packet's raw, unclassified bytes.
func (p *Packet) Contents() []byte { return p.contents }

// Size returns the length of the packet's contents.
func (p *Packet) Size() int { return len(p.contents) }

// Handler is called once per Message a Packet's contents resolve to,
// whether the Message sat at the top level or nested inside one or
// more Bundles. tt is TimeTagUnspecified for a bare top-level
// Message, which carries no time tag of its own, or the enclosing
// Bundle's time tag otherwise.
type Handler func(tt TimeTag, msg *Message) error

// Process walks p's contents, dispatching every Message it contains
// to h. A Bundle's elements are visited in wire order, each carrying
// its enclosing Bundle's time tag down to any Messages it directly
// contains or indirectly contains through further nested Bundles.
// Processing stops at the first error, whether from parsing or from
// h itself.
func (p *Packet) Process(h Handler) error {
	if h == nil {
		return ErrNoHandler
	}
	if len(p.contents) == 0 {
		return fmt.Errorf("osc: empty packet: %w", ErrInvalidContents)
	}
	// A bare top-level message carries no time tag of its own; pass
	// the "unspecified" sentinel rather than "immediately" so a
	// downstream scheduler isn't told to fire it right away.
	return deconstruct(p.contents, TimeTagUnspecified, h, p.limits)
}

func deconstruct(data []byte, tt TimeTag, h Handler, limits Limits) error {
	if len(data) == 0 {
		return fmt.Errorf("osc: empty packet contents: %w", ErrInvalidContents)
	}
	switch data[0] {
	case '/':
		msg, err := ParseMessage(data, WithMessageLimits(limits))
		if err != nil {
			return err
		}
		return h(tt, msg)

	case '#':
		bundle, err := ParseBundle(data, WithBundleLimits(limits))
		if err != nil {
			return err
		}
		log.Debugf("deconstructing bundle with time tag %d", bundle.TimeTag())
		for bundle.ElementAvailable() {
			elem, err := bundle.NextElement()
			if err != nil {
				return err
			}
			if err := deconstruct(elem.Contents, bundle.TimeTag(), h, limits); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("osc: contents start with %q, neither '/' nor '#': %w", data[0], ErrInvalidContents)
	}
}
