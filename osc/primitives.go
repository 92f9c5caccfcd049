package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// alignTo4 returns n rounded up to the next multiple of 4.
func alignTo4(n int) int {
	return (n + 3) &^ 3
}

// padBytesNeeded returns the number of zero bytes needed to bring a
// null-terminated OSC-string of the given (unterminated) length up to
// a multiple of 4, the terminator included. Mirrors
// kward-go-osc/osc/osc.go's padBytesNeeded, generalized to the
// zero-length case (an empty string still needs 4 bytes: the null plus
// three pad bytes).
func padBytesNeeded(elementLen int) int {
	return 4*(elementLen/4+1) - elementLen
}

func appendInt32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func appendFloat32(buf []byte, v float32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
	return append(buf, tmp[:]...)
}

func appendFloat64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readInt32(b []byte) int32     { return int32(binary.BigEndian.Uint32(b)) }
func readInt64(b []byte) int64     { return int64(binary.BigEndian.Uint64(b)) }
func readUint64(b []byte) uint64   { return binary.BigEndian.Uint64(b) }
func readFloat32(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }
func readFloat64(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }

// writeOSCString appends str as an OSC-string (non-null bytes, one
// terminating null, zero-padded to a multiple of 4) to buf. Fails with
// ErrCapacity if the resulting slice, buf's existing bytes included,
// would be longer than maxLen.
//
// Grounded on kward-go-osc/osc/osc.go's writePaddedString, rewritten to
// append to a slice instead of a bytes.Buffer so a failed append can be
// rolled back by the caller simply discarding the returned slice
// without having mutated any shared state (§4.2's "write is a no-op on
// failure" requirement).
func writeOSCString(buf []byte, str string, maxLen int) ([]byte, error) {
	n := len(str) + padBytesNeeded(len(str))
	if len(buf)+n > maxLen {
		return nil, fmt.Errorf("osc: writing string %q: %w", str, ErrCapacity)
	}
	buf = append(buf, str...)
	for i := 0; i < n-len(str); i++ {
		buf = append(buf, 0)
	}
	return buf, nil
}

// readOSCString reads an OSC-string starting at offset within src,
// returning the decoded string (without the terminator or padding) and
// the offset of the first byte following the string's padding. Fails
// with ErrTruncated if no null byte is found before the end of src.
//
// Grounded on kward-go-osc/osc/osc.go's readPaddedString, rewritten
// against a byte slice and explicit offset instead of a bufio.Reader so
// a failed read never consumes bytes from a shared cursor.
func readOSCString(src []byte, offset int) (string, int, error) {
	end := offset
	for end < len(src) && src[end] != 0 {
		end++
	}
	if end >= len(src) {
		return "", offset, fmt.Errorf("osc: reading string at offset %d: %w", offset, ErrTruncated)
	}
	s := string(src[offset:end])
	next := alignTo4(end + 1)
	if next > len(src) {
		return "", offset, fmt.Errorf("osc: reading string at offset %d: %w", offset, ErrTruncated)
	}
	return s, next, nil
}
