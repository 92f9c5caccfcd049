package osc

// Limits bounds the codec's fixed-capacity buffers. The zero value is
// not usable; construct one with DefaultLimits and override fields
// that need a different bound, the way kward-go-osc's serverOptions
// take a read timeout default that callers can override with an
// option function.
//
// A Limits value is immutable once attached to a Message, Bundle,
// Packet, or SlipDecoder: there is no dynamic growth past the bound a
// caller chose at construction time.
type Limits struct {
	// MaxOSCAddressPatternLength bounds an address pattern, not
	// counting the terminating null.
	MaxOSCAddressPatternLength int
	// MaxNumberOfArguments bounds the count of type-tag characters
	// (excluding the leading comma) a Message may carry.
	MaxNumberOfArguments int
	// MaxArgumentsSize bounds the combined argument payload, in bytes.
	MaxArgumentsSize int
	// MaxOSCBundleElementsSize bounds a Bundle's element region, in
	// bytes, not counting the "#bundle\0" header or the time tag.
	MaxOSCBundleElementsSize int
	// MaxOSCPacketSize bounds a top-level Packet.
	MaxOSCPacketSize int
	// MinOSCMessageSize is the smallest valid serialized Message.
	MinOSCMessageSize int
	// MinOSCBundleSize is the smallest valid serialized Bundle (header
	// plus time tag, zero elements).
	MinOSCBundleSize int
	// MaxOSCMessageSize bounds a parsed Message. Not named separately
	// in the OSC spec's constant list; this module defines it equal to
	// MaxOSCPacketSize since a Message is always either a whole packet
	// or a bundle element, both already bounded that way.
	MaxOSCMessageSize int
	// MaxOSCBundleSize bounds a parsed Bundle, for the same reason.
	MaxOSCBundleSize int
	// OSCSlipDecoderBufferSize bounds the SLIP decoder's receive
	// buffer. Bytes of a frame beyond this bound are not stored, and
	// the whole frame is dropped with ErrFrameDropped at its END byte.
	OSCSlipDecoderBufferSize int
	// MaxSLIPFrameSize bounds an encoded SLIP frame. Worst case every
	// byte of the packet escapes to two bytes, plus the trailing END.
	MaxSLIPFrameSize int
}

// DefaultLimits returns the capacity bounds this module ships with: a
// host-sized 64KiB packet budget, generous enough for UDP without being
// unbounded. Embedded targets with a smaller memory budget should build
// their own Limits.
func DefaultLimits() Limits {
	const maxPacket = 65536
	return Limits{
		MaxOSCAddressPatternLength: 255,
		MaxNumberOfArguments:       64,
		MaxArgumentsSize:           16384,
		MaxOSCBundleElementsSize:   maxPacket - 40,
		MaxOSCPacketSize:           maxPacket,
		MinOSCMessageSize:          8,
		MinOSCBundleSize:           16,
		MaxOSCMessageSize:          maxPacket,
		MaxOSCBundleSize:           maxPacket,
		OSCSlipDecoderBufferSize:   maxPacket,
		MaxSLIPFrameSize:           2*maxPacket + 1,
	}
}

// MessageOption configures a Message at construction or parse time.
type MessageOption func(*Message) error

// WithMessageLimits overrides the default capacity bounds.
func WithMessageLimits(l Limits) MessageOption {
	return func(m *Message) error {
		m.limits = l
		return nil
	}
}

// BundleOption configures a Bundle at construction or parse time.
type BundleOption func(*Bundle) error

// WithBundleLimits overrides the default capacity bounds.
func WithBundleLimits(l Limits) BundleOption {
	return func(b *Bundle) error {
		b.limits = l
		return nil
	}
}

// PacketOption configures a Packet at construction time.
type PacketOption func(*Packet) error

// WithPacketLimits overrides the default capacity bounds.
func WithPacketLimits(l Limits) PacketOption {
	return func(p *Packet) error {
		p.limits = l
		return nil
	}
}

// SlipOption configures a SlipDecoder at construction time.
type SlipOption func(*SlipDecoder) error

// WithSlipLimits overrides the default capacity bounds.
func WithSlipLimits(l Limits) SlipOption {
	return func(d *SlipDecoder) error {
		d.limits = l
		d.buffer = make([]byte, l.OSCSlipDecoderBufferSize)
		return nil
	}
}
