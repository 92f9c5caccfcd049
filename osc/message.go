package osc

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Message is an OSC address pattern plus zero or more typed
// arguments. A freshly built Message accumulates arguments with the
// Append<Kind> methods; a parsed Message exposes them for sequential
// reading through ArgumentAvailable/CurrentTag/Get<Kind>, mirroring
// how kward-go-osc/osc/message.go builds a Message but replacing its
// loosely typed []interface{} Arguments slice with the cursor pair
// SPEC_FULL.md's read-side invariants require: a failed Get must
// leave both the type-tag and payload cursors exactly where they
// were.
type Message struct {
	address  string
	typeTags []byte // without the leading comma
	payload  []byte

	tagCursor     int
	payloadCursor int

	limits Limits
}

// NewMessage returns an empty Message addressed to address, ready for
// Append<Kind> calls. address must start with '/' and fit within
// Limits.MaxOSCAddressPatternLength.
func NewMessage(address string, opts ...MessageOption) (*Message, error) {
	m := &Message{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if err := validateAddress(address, m.limits); err != nil {
		return nil, err
	}
	m.address = address
	return m, nil
}

func validateAddress(address string, limits Limits) error {
	if !strings.HasPrefix(address, "/") {
		return fmt.Errorf("osc: address %q: %w", address, ErrInvalidAddress)
	}
	if len(address) > limits.MaxOSCAddressPatternLength {
		return fmt.Errorf("osc: address %q exceeds %d bytes: %w", address, limits.MaxOSCAddressPatternLength, ErrCapacity)
	}
	return nil
}

// Address returns the message's address pattern.
func (m *Message) Address() string { return m.address }

// ParseMessage decodes a single OSC message from data: a padded
// address string, a padded type-tag string beginning with ',', and
// the packed argument payload. data must contain exactly one message,
// with no trailing bytes, matching how a Packet hands a Message its
// slice of the wire buffer.
func ParseMessage(data []byte, opts ...MessageOption) (*Message, error) {
	m := &Message{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if len(data) < m.limits.MinOSCMessageSize {
		return nil, fmt.Errorf("osc: message of %d bytes shorter than minimum %d: %w",
			len(data), m.limits.MinOSCMessageSize, ErrTruncated)
	}
	if len(data) > m.limits.MaxOSCMessageSize {
		return nil, fmt.Errorf("osc: message of %d bytes exceeds limit %d: %w",
			len(data), m.limits.MaxOSCMessageSize, ErrCapacity)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("osc: message of %d bytes not a multiple of 4: %w", len(data), ErrMisaligned)
	}

	address, offset, err := readOSCString(data, 0)
	if err != nil {
		return nil, fmt.Errorf("osc: parsing address: %w", err)
	}
	if err := validateAddress(address, m.limits); err != nil {
		return nil, err
	}
	log.Debugf("parsed OSC address: %s", address)

	tagString, offset, err := readOSCString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("osc: parsing type tags: %w", err)
	}
	if tagString == "" || tagString[0] != ',' {
		return nil, fmt.Errorf("osc: type tag string %q missing leading comma: %w", tagString, ErrInvalidContents)
	}
	tags := []byte(tagString[1:])
	if len(tags) > m.limits.MaxNumberOfArguments {
		return nil, fmt.Errorf("osc: %d arguments exceeds limit %d: %w", len(tags), m.limits.MaxNumberOfArguments, ErrCapacity)
	}
	for _, tag := range tags {
		if !isKnownTag(tag) {
			return nil, fmt.Errorf("osc: unknown type tag %q: %w", tag, ErrUnexpectedType)
		}
	}

	payload := data[offset:]
	if len(payload) > m.limits.MaxArgumentsSize {
		return nil, fmt.Errorf("osc: argument payload of %d bytes exceeds limit %d: %w",
			len(payload), m.limits.MaxArgumentsSize, ErrCapacity)
	}

	log.Debugf("parsed %d OSC arguments with type tags %q", len(tags), string(tags))
	m.address = address
	m.typeTags = tags
	m.payload = payload
	return m, nil
}

// Serialize encodes m to its wire form: padded address, padded
// ",tags" string, then the packed argument payload.
func (m *Message) Serialize() ([]byte, error) {
	buf := make([]byte, 0, len(m.address)+len(m.typeTags)+len(m.payload)+8)
	buf, err := writeOSCString(buf, m.address, len(buf)+len(m.address)+padBytesNeeded(len(m.address)))
	if err != nil {
		return nil, err
	}
	tagString := "," + string(m.typeTags)
	buf, err = writeOSCString(buf, tagString, len(buf)+len(tagString)+padBytesNeeded(len(tagString)))
	if err != nil {
		return nil, err
	}
	buf = append(buf, m.payload...)
	return buf, nil
}

// Size returns the length of m's serialized form.
func (m *Message) Size() int {
	return alignTo4(len(m.address)+1) + alignTo4(len(m.typeTags)+2) + len(m.payload)
}

func (m *Message) checkArgCapacity(payloadBytes int) error {
	if len(m.typeTags)+1 > m.limits.MaxNumberOfArguments {
		return fmt.Errorf("osc: message %q: %d arguments exceeds limit %d: %w",
			m.address, len(m.typeTags)+1, m.limits.MaxNumberOfArguments, ErrCapacity)
	}
	if len(m.payload)+payloadBytes > m.limits.MaxArgumentsSize {
		return fmt.Errorf("osc: message %q: argument payload would exceed limit %d: %w",
			m.address, m.limits.MaxArgumentsSize, ErrCapacity)
	}
	return nil
}

// AppendInt32 appends an 'i' argument.
func (m *Message) AppendInt32(v int32) error {
	if err := m.checkArgCapacity(4); err != nil {
		return err
	}
	m.payload = appendInt32(m.payload, v)
	m.typeTags = append(m.typeTags, TagInt32)
	return nil
}

// AppendFloat32 appends an 'f' argument.
func (m *Message) AppendFloat32(v float32) error {
	if err := m.checkArgCapacity(4); err != nil {
		return err
	}
	m.payload = appendFloat32(m.payload, v)
	m.typeTags = append(m.typeTags, TagFloat32)
	return nil
}

// AppendString appends an 's' argument.
func (m *Message) AppendString(s string) error {
	n := len(s) + padBytesNeeded(len(s))
	if err := m.checkArgCapacity(n); err != nil {
		return err
	}
	buf, err := writeOSCString(m.payload, s, len(m.payload)+n)
	if err != nil {
		return err
	}
	m.payload = buf
	m.typeTags = append(m.typeTags, TagString)
	return nil
}

// AppendAltString appends an 'S' argument: a second string kind some
// OSC implementations use for symbols, identical on the wire to 's'.
func (m *Message) AppendAltString(s string) error {
	n := len(s) + padBytesNeeded(len(s))
	if err := m.checkArgCapacity(n); err != nil {
		return err
	}
	buf, err := writeOSCString(m.payload, s, len(m.payload)+n)
	if err != nil {
		return err
	}
	m.payload = buf
	m.typeTags = append(m.typeTags, TagAltString)
	return nil
}

// AppendBlob appends a 'b' argument: a length-prefixed, zero-padded
// byte string.
func (m *Message) AppendBlob(data []byte) error {
	n := 4 + alignTo4(len(data))
	if err := m.checkArgCapacity(n); err != nil {
		return err
	}
	m.payload = appendInt32(m.payload, int32(len(data)))
	m.payload = append(m.payload, data...)
	for i := 0; i < alignTo4(len(data))-len(data); i++ {
		m.payload = append(m.payload, 0)
	}
	m.typeTags = append(m.typeTags, TagBlob)
	return nil
}

// AppendInt64 appends an 'h' argument.
func (m *Message) AppendInt64(v int64) error {
	if err := m.checkArgCapacity(8); err != nil {
		return err
	}
	m.payload = appendInt64(m.payload, v)
	m.typeTags = append(m.typeTags, TagInt64)
	return nil
}

// AppendTimeTag appends a 't' argument.
func (m *Message) AppendTimeTag(t TimeTag) error {
	if err := m.checkArgCapacity(8); err != nil {
		return err
	}
	m.payload = appendUint64(m.payload, uint64(t))
	m.typeTags = append(m.typeTags, TagTimeTag)
	return nil
}

// AppendDouble appends a 'd' argument.
func (m *Message) AppendDouble(v float64) error {
	if err := m.checkArgCapacity(8); err != nil {
		return err
	}
	m.payload = appendFloat64(m.payload, v)
	m.typeTags = append(m.typeTags, TagDouble)
	return nil
}

// AppendChar appends a 'c' argument: an ASCII character packed as the
// low byte of a big-endian 32-bit word.
func (m *Message) AppendChar(c byte) error {
	if err := m.checkArgCapacity(4); err != nil {
		return err
	}
	m.payload = appendInt32(m.payload, int32(c))
	m.typeTags = append(m.typeTags, TagChar)
	return nil
}

// AppendRGBA appends an 'r' argument.
func (m *Message) AppendRGBA(c RgbaColor) error {
	if err := m.checkArgCapacity(4); err != nil {
		return err
	}
	m.payload = append(m.payload, c.R, c.G, c.B, c.A)
	m.typeTags = append(m.typeTags, TagRGBA)
	return nil
}

// AppendMIDI appends an 'm' argument.
func (m *Message) AppendMIDI(msg MidiMessage) error {
	if err := m.checkArgCapacity(4); err != nil {
		return err
	}
	m.payload = append(m.payload, msg.Port, msg.Status, msg.Data1, msg.Data2)
	m.typeTags = append(m.typeTags, TagMIDI)
	return nil
}

// AppendBool appends a 'T' or 'F' argument; neither carries a payload.
func (m *Message) AppendBool(v bool) error {
	if err := m.checkArgCapacity(0); err != nil {
		return err
	}
	if v {
		m.typeTags = append(m.typeTags, TagTrue)
	} else {
		m.typeTags = append(m.typeTags, TagFalse)
	}
	return nil
}

// AppendNil appends an 'N' argument.
func (m *Message) AppendNil() error { return m.appendBareTag(TagNil) }

// AppendInfinitum appends an 'I' argument.
func (m *Message) AppendInfinitum() error { return m.appendBareTag(TagInfinitum) }

// AppendArrayStart appends a '[' argument, opening a nested array of
// arguments. Arrays are not otherwise interpreted by this package;
// callers are responsible for balancing '[' and ']'.
func (m *Message) AppendArrayStart() error { return m.appendBareTag(TagArrayStart) }

// AppendArrayEnd appends a ']' argument, closing a nested array.
func (m *Message) AppendArrayEnd() error { return m.appendBareTag(TagArrayEnd) }

func (m *Message) appendBareTag(tag byte) error {
	if err := m.checkArgCapacity(0); err != nil {
		return err
	}
	m.typeTags = append(m.typeTags, tag)
	return nil
}

// ArgumentAvailable reports whether a further Get<Kind> or
// SkipArgument call has an argument to consume.
func (m *Message) ArgumentAvailable() bool {
	return m.tagCursor < len(m.typeTags)
}

// CurrentTag returns the type tag at the read cursor, or 0 if no
// argument is available.
func (m *Message) CurrentTag() byte {
	if !m.ArgumentAvailable() {
		return 0
	}
	return m.typeTags[m.tagCursor]
}

// SkipArgument advances past the current argument without decoding
// it, moving both the type-tag and payload cursors together.
//
// The original C source leaves the payload cursor behind when
// skipping a payload-bearing tag like 'i' or 's', so later reads
// decode the skipped argument's bytes. This is
// fixed here per SPEC_FULL.md §4 resolution 3: SkipArgument always
// advances both cursors in lockstep, so ArgumentAvailable/CurrentTag
// and a subsequent Get<Kind> stay consistent regardless of which
// kinds were skipped.
func (m *Message) SkipArgument() error {
	if !m.ArgumentAvailable() {
		return &UnexpectedTypeError{Got: 0}
	}
	tag := m.typeTags[m.tagCursor]
	size, err := wireSizeAt(tag, m.payload, m.payloadCursor)
	if err != nil {
		return err
	}
	m.tagCursor++
	m.payloadCursor += size
	return nil
}

func (m *Message) requireTag(want byte) error {
	if !m.ArgumentAvailable() {
		return &UnexpectedTypeError{Want: want, Got: 0}
	}
	if got := m.typeTags[m.tagCursor]; got != want {
		return &UnexpectedTypeError{Want: want, Got: got}
	}
	return nil
}

// requireTagSized is requireTag plus the remaining-bytes check spec
// §4.2's read contract requires before a fixed-size reader touches
// the payload: reuses wireSizeAt the same way GetBlob already does,
// so a truncated payload fails with ErrTruncated instead of a slice
// panic.
func (m *Message) requireTagSized(want byte) error {
	if err := m.requireTag(want); err != nil {
		return err
	}
	if _, err := wireSizeAt(want, m.payload, m.payloadCursor); err != nil {
		return err
	}
	return nil
}

// GetInt32 reads an 'i' argument and advances the cursor. On failure
// neither cursor moves.
func (m *Message) GetInt32() (int32, error) {
	if err := m.requireTagSized(TagInt32); err != nil {
		return 0, err
	}
	v := readInt32(m.payload[m.payloadCursor : m.payloadCursor+4])
	m.tagCursor++
	m.payloadCursor += 4
	return v, nil
}

// GetFloat32 reads an 'f' argument.
func (m *Message) GetFloat32() (float32, error) {
	if err := m.requireTagSized(TagFloat32); err != nil {
		return 0, err
	}
	v := readFloat32(m.payload[m.payloadCursor : m.payloadCursor+4])
	m.tagCursor++
	m.payloadCursor += 4
	return v, nil
}

// GetString reads an 's' or 'S' argument. Both tags decode the same
// way on the wire; OSC implementations differ on which they emit for
// symbols, so a reader built against this package should accept
// either.
func (m *Message) GetString() (string, error) {
	if !m.ArgumentAvailable() {
		return "", &UnexpectedTypeError{Want: TagString, Got: 0}
	}
	got := m.typeTags[m.tagCursor]
	if got != TagString && got != TagAltString {
		return "", &UnexpectedTypeError{Want: TagString, Got: got}
	}
	s, next, err := readOSCString(m.payload, m.payloadCursor)
	if err != nil {
		return "", err
	}
	m.tagCursor++
	m.payloadCursor = next
	return s, nil
}

// GetBlob reads a 'b' argument.
func (m *Message) GetBlob() ([]byte, error) {
	if err := m.requireTag(TagBlob); err != nil {
		return nil, err
	}
	size, err := wireSizeAt(TagBlob, m.payload, m.payloadCursor)
	if err != nil {
		return nil, err
	}
	blobLen := readInt32(m.payload[m.payloadCursor : m.payloadCursor+4])
	data := make([]byte, blobLen)
	copy(data, m.payload[m.payloadCursor+4:m.payloadCursor+4+int(blobLen)])
	m.tagCursor++
	m.payloadCursor += size
	return data, nil
}

// GetInt64 reads an 'h' argument.
func (m *Message) GetInt64() (int64, error) {
	if err := m.requireTagSized(TagInt64); err != nil {
		return 0, err
	}
	v := readInt64(m.payload[m.payloadCursor : m.payloadCursor+8])
	m.tagCursor++
	m.payloadCursor += 8
	return v, nil
}

// GetTimeTag reads a 't' argument.
func (m *Message) GetTimeTag() (TimeTag, error) {
	if err := m.requireTagSized(TagTimeTag); err != nil {
		return 0, err
	}
	v := readUint64(m.payload[m.payloadCursor : m.payloadCursor+8])
	m.tagCursor++
	m.payloadCursor += 8
	return TimeTag(v), nil
}

// GetDouble reads a 'd' argument.
func (m *Message) GetDouble() (float64, error) {
	if err := m.requireTagSized(TagDouble); err != nil {
		return 0, err
	}
	v := readFloat64(m.payload[m.payloadCursor : m.payloadCursor+8])
	m.tagCursor++
	m.payloadCursor += 8
	return v, nil
}

// GetChar reads a 'c' argument.
func (m *Message) GetChar() (byte, error) {
	if err := m.requireTagSized(TagChar); err != nil {
		return 0, err
	}
	v := readInt32(m.payload[m.payloadCursor : m.payloadCursor+4])
	m.tagCursor++
	m.payloadCursor += 4
	return byte(v), nil
}

// GetRGBA reads an 'r' argument.
func (m *Message) GetRGBA() (RgbaColor, error) {
	if err := m.requireTagSized(TagRGBA); err != nil {
		return RgbaColor{}, err
	}
	b := m.payload[m.payloadCursor : m.payloadCursor+4]
	c := RgbaColor{R: b[0], G: b[1], B: b[2], A: b[3]}
	m.tagCursor++
	m.payloadCursor += 4
	return c, nil
}

// GetMIDI reads an 'm' argument.
func (m *Message) GetMIDI() (MidiMessage, error) {
	if err := m.requireTagSized(TagMIDI); err != nil {
		return MidiMessage{}, err
	}
	b := m.payload[m.payloadCursor : m.payloadCursor+4]
	msg := MidiMessage{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]}
	m.tagCursor++
	m.payloadCursor += 4
	return msg, nil
}

// GetBool reads a 'T' or 'F' argument.
func (m *Message) GetBool() (bool, error) {
	if !m.ArgumentAvailable() {
		return false, &UnexpectedTypeError{Want: TagTrue, Got: 0}
	}
	switch got := m.typeTags[m.tagCursor]; got {
	case TagTrue:
		m.tagCursor++
		return true, nil
	case TagFalse:
		m.tagCursor++
		return false, nil
	default:
		return false, &UnexpectedTypeError{Want: TagTrue, Got: got}
	}
}

// GetNil consumes an 'N' argument.
func (m *Message) GetNil() error { return m.expect(TagNil) }

// GetInfinitum consumes an 'I' argument.
func (m *Message) GetInfinitum() error { return m.expect(TagInfinitum) }

// GetArrayStart consumes a '[' argument.
func (m *Message) GetArrayStart() error { return m.expect(TagArrayStart) }

// GetArrayEnd consumes a ']' argument.
func (m *Message) GetArrayEnd() error { return m.expect(TagArrayEnd) }

func (m *Message) expect(tag byte) error {
	if err := m.requireTag(tag); err != nil {
		return err
	}
	m.tagCursor++
	return nil
}

// MarshalBinary implements Content so a Message can be appended
// directly to a Bundle.
func (m *Message) MarshalBinary() ([]byte, error) { return m.Serialize() }
