package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleEmptyRoundTrip(t *testing.T) {
	b, err := NewBundle(TimeTagImmediate)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())

	data, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, 16, len(data))

	parsed, err := ParseBundle(data)
	require.NoError(t, err)
	assert.Equal(t, TimeTagImmediate, parsed.TimeTag())
	assert.True(t, parsed.IsEmpty())
	assert.False(t, parsed.ElementAvailable())
}

func TestBundlePreservesInterleaveOrder(t *testing.T) {
	b, err := NewBundle(TimeTag(42))
	require.NoError(t, err)

	m1, err := NewMessage("/one")
	require.NoError(t, err)
	inner, err := NewBundle(TimeTag(7))
	require.NoError(t, err)
	m2, err := NewMessage("/two")
	require.NoError(t, err)
	require.NoError(t, inner.AppendContents(m2))
	m3, err := NewMessage("/three")
	require.NoError(t, err)

	require.NoError(t, b.AppendContents(m1))
	require.NoError(t, b.AppendContents(inner))
	require.NoError(t, b.AppendContents(m3))

	data, err := b.Serialize()
	require.NoError(t, err)

	parsed, err := ParseBundle(data)
	require.NoError(t, err)

	var addrs []string
	for parsed.ElementAvailable() {
		elem, err := parsed.NextElement()
		require.NoError(t, err)
		switch elem.Contents[0] {
		case '/':
			msg, err := ParseMessage(elem.Contents)
			require.NoError(t, err)
			addrs = append(addrs, msg.Address())
		case '#':
			nested, err := ParseBundle(elem.Contents)
			require.NoError(t, err)
			require.True(t, nested.ElementAvailable())
			nestedElem, err := nested.NextElement()
			require.NoError(t, err)
			msg, err := ParseMessage(nestedElem.Contents)
			require.NoError(t, err)
			addrs = append(addrs, "nested:"+msg.Address())
		}
	}
	// Order must match append order: message, bundle, message - not
	// grouped by kind.
	assert.Equal(t, []string{"/one", "nested:/two", "/three"}, addrs)
}

func TestBundleAppendContentsCapacity(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxOSCBundleElementsSize = 4
	b, err := NewBundle(TimeTagImmediate, WithBundleLimits(limits))
	require.NoError(t, err)

	m, err := NewMessage("/toolong")
	require.NoError(t, err)
	err = b.AppendContents(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.True(t, b.IsEmpty(), "a failed append must not partially add an element")
}

func TestParseBundleMissingHeader(t *testing.T) {
	data := make([]byte, 16)
	copy(data, "not a bundle!!!")
	_, err := ParseBundle(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidContents)
}

func TestParseBundleMisaligned(t *testing.T) {
	b, err := NewBundle(TimeTagImmediate)
	require.NoError(t, err)
	data, err := b.Serialize()
	require.NoError(t, err)
	data = append(data, 0) // one stray trailing byte

	_, err = ParseBundle(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestBundleNextElementMisaligned(t *testing.T) {
	b, err := NewBundle(TimeTagImmediate)
	require.NoError(t, err)
	data, err := b.Serialize()
	require.NoError(t, err)
	// An element claiming a length of 3, which is not a multiple of 4;
	// pad the trailing content to 4 bytes so the overall bundle length
	// itself stays a multiple of 4 and this test isolates the
	// element-length check from the whole-bundle alignment check.
	data = appendInt32(data, 3)
	data = append(data, 1, 2, 3, 0)

	parsed, err := ParseBundle(data)
	require.NoError(t, err)
	require.True(t, parsed.ElementAvailable())
	_, err = parsed.NextElement()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestBundleNextElementTruncated(t *testing.T) {
	b, err := NewBundle(TimeTagImmediate)
	require.NoError(t, err)
	data, err := b.Serialize()
	require.NoError(t, err)
	// Append a bogus, too-large element length with no content.
	data = appendInt32(data, 100)

	parsed, err := ParseBundle(data)
	require.NoError(t, err)
	require.True(t, parsed.ElementAvailable())
	_, err = parsed.NextElement()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}
