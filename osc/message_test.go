package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageValidatesAddress(t *testing.T) {
	_, err := NewMessage("no-leading-slash")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	m, err := NewMessage("/synth/1/freq")
	require.NoError(t, err)
	assert.Equal(t, "/synth/1/freq", m.Address())
}

func TestNewMessageAddressTooLong(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxOSCAddressPatternLength = 4
	_, err := NewMessage("/toolong", WithMessageLimits(limits))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestMessageAppendAndGetEveryKind(t *testing.T) {
	m, err := NewMessage("/all")
	require.NoError(t, err)

	require.NoError(t, m.AppendInt32(-42))
	require.NoError(t, m.AppendFloat32(1.5))
	require.NoError(t, m.AppendString("hello"))
	require.NoError(t, m.AppendAltString("world"))
	require.NoError(t, m.AppendBlob([]byte{1, 2, 3}))
	require.NoError(t, m.AppendInt64(-9876543210))
	require.NoError(t, m.AppendTimeTag(TimeTagImmediate))
	require.NoError(t, m.AppendDouble(-2.5))
	require.NoError(t, m.AppendChar('Q'))
	require.NoError(t, m.AppendRGBA(RgbaColor{R: 1, G: 2, B: 3, A: 4}))
	require.NoError(t, m.AppendMIDI(MidiMessage{Port: 0, Status: 0x90, Data1: 60, Data2: 127}))
	require.NoError(t, m.AppendBool(true))
	require.NoError(t, m.AppendBool(false))
	require.NoError(t, m.AppendNil())
	require.NoError(t, m.AppendInfinitum())
	require.NoError(t, m.AppendArrayStart())
	require.NoError(t, m.AppendInt32(7))
	require.NoError(t, m.AppendArrayEnd())

	data, err := m.Serialize()
	require.NoError(t, err)
	assert.Zero(t, len(data)%4, "serialized message must be 4-aligned")
	assert.Equal(t, m.Size(), len(data))

	parsed, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, "/all", parsed.Address())

	i, err := parsed.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i)

	f, err := parsed.GetFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	s, err := parsed.GetString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s2, err := parsed.GetString()
	require.NoError(t, err)
	assert.Equal(t, "world", s2, "GetString must accept the 'S' tag too")

	b, err := parsed.GetBlob()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	h, err := parsed.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9876543210), h)

	tt, err := parsed.GetTimeTag()
	require.NoError(t, err)
	assert.Equal(t, TimeTagImmediate, tt)

	d, err := parsed.GetDouble()
	require.NoError(t, err)
	assert.Equal(t, -2.5, d)

	c, err := parsed.GetChar()
	require.NoError(t, err)
	assert.Equal(t, byte('Q'), c)

	rgba, err := parsed.GetRGBA()
	require.NoError(t, err)
	assert.Equal(t, RgbaColor{R: 1, G: 2, B: 3, A: 4}, rgba)

	midi, err := parsed.GetMIDI()
	require.NoError(t, err)
	assert.Equal(t, MidiMessage{Port: 0, Status: 0x90, Data1: 60, Data2: 127}, midi)

	boolTrue, err := parsed.GetBool()
	require.NoError(t, err)
	assert.True(t, boolTrue)

	boolFalse, err := parsed.GetBool()
	require.NoError(t, err)
	assert.False(t, boolFalse)

	require.NoError(t, parsed.GetNil())
	require.NoError(t, parsed.GetInfinitum())
	require.NoError(t, parsed.GetArrayStart())

	arrInt, err := parsed.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(7), arrInt)

	require.NoError(t, parsed.GetArrayEnd())
	assert.False(t, parsed.ArgumentAvailable())
}

func TestMessageGetWrongTypeLeavesCursorUnchanged(t *testing.T) {
	m, err := NewMessage("/x")
	require.NoError(t, err)
	require.NoError(t, m.AppendInt32(5))
	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := ParseMessage(data)
	require.NoError(t, err)

	_, err = parsed.GetFloat32()
	require.Error(t, err)
	var typeErr *UnexpectedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, byte(TagFloat32), typeErr.Want)
	assert.Equal(t, byte(TagInt32), typeErr.Got)

	// The cursor must not have moved: the int32 is still readable.
	i, err := parsed.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(5), i)
}

func TestMessageGetPastEndLeavesCursorUnchanged(t *testing.T) {
	m, err := NewMessage("/empty")
	require.NoError(t, err)
	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := ParseMessage(data)
	require.NoError(t, err)
	assert.False(t, parsed.ArgumentAvailable())

	_, err = parsed.GetInt32()
	require.Error(t, err)
	var typeErr *UnexpectedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, byte(0), typeErr.Got)

	assert.Equal(t, byte(0), parsed.CurrentTag())
}

func TestMessageSkipArgumentAdvancesBothCursors(t *testing.T) {
	m, err := NewMessage("/skip")
	require.NoError(t, err)
	require.NoError(t, m.AppendBool(true)) // no payload
	require.NoError(t, m.AppendString("xy"))
	require.NoError(t, m.AppendInt32(9))
	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := ParseMessage(data)
	require.NoError(t, err)

	require.NoError(t, parsed.SkipArgument()) // skip the bool
	require.NoError(t, parsed.SkipArgument()) // skip the string

	s := parsed.CurrentTag()
	assert.Equal(t, byte(TagInt32), s)
	i, err := parsed.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(9), i)
}

func TestMessageAppendCapacityLimits(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxNumberOfArguments = 1
	m, err := NewMessage("/cap", WithMessageLimits(limits))
	require.NoError(t, err)
	require.NoError(t, m.AppendInt32(1))
	err = m.AppendInt32(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)
	// A failed append must not have changed the argument count: exactly
	// one argument is there to read.
	_, err = m.GetInt32()
	require.NoError(t, err)
	assert.False(t, m.ArgumentAvailable())
}

func TestParseMessageMissingComma(t *testing.T) {
	var buf []byte
	buf, err := writeOSCString(buf, "/x", 4)
	require.NoError(t, err)
	buf = append(buf, "noc"...)
	buf = append(buf, 0)
	_, err = ParseMessage(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidContents)
}

func TestParseMessageTruncated(t *testing.T) {
	_, err := ParseMessage([]byte{'/', 0, 0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestParseMessageMisaligned(t *testing.T) {
	// A well-formed 8-byte message ("/x\0\0" + ",\0\0\0") with one
	// stray trailing byte: 9 bytes total, above the minimum size but
	// not a multiple of 4.
	data := []byte{'/', 'x', 0, 0, ',', 0, 0, 0, 0}
	_, err := ParseMessage(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestMessageGetTruncatedPayloadReturnsErrorNotPanic(t *testing.T) {
	// address "/x" (padded to 4), type tags ",i" (padded to 4), but no
	// payload bytes at all: a crafted message claiming an int32
	// argument it doesn't actually carry.
	data := []byte{'/', 'x', 0, 0, ',', 'i', 0, 0}
	parsed, err := ParseMessage(data)
	require.NoError(t, err)

	_, err = parsed.GetInt32()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	// Cursors must not have moved.
	assert.True(t, parsed.ArgumentAvailable())
	assert.Equal(t, byte(TagInt32), parsed.CurrentTag())
}
