package osc

import (
	"bytes"
	"fmt"
)

var bundleTag = []byte("#bundle\x00")

// Content is anything that can be packed as a Bundle element: a
// Message or another Bundle.
type Content interface {
	MarshalBinary() ([]byte, error)
}

var (
	_ Content = (*Message)(nil)
	_ Content = (*Bundle)(nil)
)

// Bundle is a time tag plus an ordered sequence of length-prefixed
// elements, each itself a Message or a nested Bundle.
//
// kward-go-osc/osc/bundle.go splits children into separate Messages
// and Bundles slices, which silently reorders a bundle whose elements
// interleave the two kinds. SPEC_FULL.md §3.4 calls this out as a
// correctness bug, not a style choice: this type instead keeps one
// ordered buffer of raw, already-length-prefixed element bytes, the
// way the wire format itself does, so iteration order always matches
// serialization order.
type Bundle struct {
	timeTag TimeTag

	// elements holds the packed element region: a sequence of
	// (int32 length, content bytes) pairs, already padded, in
	// append/wire order.
	elements []byte

	readCursor int

	limits Limits
}

// NewBundle returns an empty Bundle carrying the given time tag.
func NewBundle(tt TimeTag, opts ...BundleOption) (*Bundle, error) {
	b := &Bundle{timeTag: tt, limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// TimeTag returns the bundle's time tag.
func (b *Bundle) TimeTag() TimeTag { return b.timeTag }

// SetTimeTag replaces the bundle's time tag.
func (b *Bundle) SetTimeTag(tt TimeTag) { b.timeTag = tt }

// AppendContents serializes c and appends it as the next element,
// preserving whatever order contents are appended in. Fails with
// ErrCapacity without modifying the bundle if the result would exceed
// Limits.MaxOSCBundleElementsSize.
func (b *Bundle) AppendContents(c Content) error {
	data, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	n := 4 + len(data)
	if len(b.elements)+n > b.limits.MaxOSCBundleElementsSize {
		return fmt.Errorf("osc: bundle element of %d bytes would exceed limit %d: %w",
			n, b.limits.MaxOSCBundleElementsSize, ErrCapacity)
	}
	b.elements = appendInt32(b.elements, int32(len(data)))
	b.elements = append(b.elements, data...)
	return nil
}

// Empty discards every element, keeping the time tag.
func (b *Bundle) Empty() {
	b.elements = nil
	b.readCursor = 0
}

// IsEmpty reports whether the bundle has zero elements.
func (b *Bundle) IsEmpty() bool { return len(b.elements) == 0 }

// RemainingCapacity returns how many more element bytes (including
// each element's own 4-byte length prefix) can still be appended.
func (b *Bundle) RemainingCapacity() int {
	return b.limits.MaxOSCBundleElementsSize - len(b.elements)
}

// Size returns the length of b's serialized form.
func (b *Bundle) Size() int {
	return len(bundleTag) + 8 + len(b.elements)
}

// Serialize encodes b to its wire form: "#bundle\0", the time tag,
// then the packed element region.
func (b *Bundle) Serialize() ([]byte, error) {
	if b.Size() > b.limits.MaxOSCBundleSize {
		return nil, fmt.Errorf("osc: bundle of %d bytes exceeds limit %d: %w",
			b.Size(), b.limits.MaxOSCBundleSize, ErrCapacity)
	}
	buf := make([]byte, 0, b.Size())
	buf = append(buf, bundleTag...)
	buf = appendUint64(buf, uint64(b.timeTag))
	buf = append(buf, b.elements...)
	return buf, nil
}

// MarshalBinary implements Content so a Bundle can nest inside
// another Bundle.
func (b *Bundle) MarshalBinary() ([]byte, error) { return b.Serialize() }

// ParseBundle decodes a Bundle from data: the literal header
// "#bundle\0", an 8-byte time tag, and the packed element region.
// Individual elements are validated lazily as NextElement walks them,
// not up front.
func ParseBundle(data []byte, opts ...BundleOption) (*Bundle, error) {
	b := &Bundle{limits: DefaultLimits()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if len(data) < b.limits.MinOSCBundleSize {
		return nil, fmt.Errorf("osc: bundle of %d bytes shorter than minimum %d: %w",
			len(data), b.limits.MinOSCBundleSize, ErrTruncated)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("osc: bundle of %d bytes not a multiple of 4: %w", len(data), ErrMisaligned)
	}
	if !bytes.Equal(data[:8], bundleTag) {
		return nil, fmt.Errorf("osc: missing %q header: %w", bundleTag, ErrInvalidContents)
	}
	b.timeTag = TimeTag(readUint64(data[8:16]))
	elements := data[16:]
	if len(elements) > b.limits.MaxOSCBundleElementsSize {
		return nil, fmt.Errorf("osc: bundle elements of %d bytes exceeds limit %d: %w",
			len(elements), b.limits.MaxOSCBundleElementsSize, ErrCapacity)
	}
	b.elements = elements
	return b, nil
}

// RawElement is one bundle element as seen by NextElement: its
// content bytes, not yet decoded as a Message or Bundle. Packet's
// visitor distinguishes the two by the leading byte, the same way a
// top-level packet does.
type RawElement struct {
	Contents []byte
}

// ElementAvailable reports whether NextElement has another element to
// return.
func (b *Bundle) ElementAvailable() bool { return b.readCursor < len(b.elements) }

// NextElement returns the next bundle element and advances the
// iteration cursor. On failure the cursor is left unchanged.
func (b *Bundle) NextElement() (RawElement, error) {
	if !b.ElementAvailable() {
		return RawElement{}, fmt.Errorf("osc: no more bundle elements: %w", ErrTruncated)
	}
	if b.readCursor+4 > len(b.elements) {
		return RawElement{}, fmt.Errorf("osc: truncated element length: %w", ErrTruncated)
	}
	size := readInt32(b.elements[b.readCursor : b.readCursor+4])
	if size < 0 {
		return RawElement{}, fmt.Errorf("osc: element length %d: %w", size, ErrNegativeSize)
	}
	if size%4 != 0 {
		return RawElement{}, fmt.Errorf("osc: element length %d not a multiple of 4: %w", size, ErrMisaligned)
	}
	start := b.readCursor + 4
	end := start + int(size)
	if end > len(b.elements) {
		return RawElement{}, fmt.Errorf("osc: truncated element of %d bytes: %w", size, ErrTruncated)
	}
	b.readCursor = end
	return RawElement{Contents: b.elements[start:end]}, nil
}
