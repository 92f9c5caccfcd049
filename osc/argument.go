package osc

import "fmt"

// Type tag characters, one per argument kind, per spec.md §3.1. Named
// Tag rather than following the original source's enum-like
// OscTypeTagXxx names, since in Go these are just bytes compared
// directly against a message's type-tag string.
const (
	TagInt32      = 'i'
	TagFloat32    = 'f'
	TagString     = 's'
	TagBlob       = 'b'
	TagInt64      = 'h'
	TagTimeTag    = 't'
	TagDouble     = 'd'
	TagAltString  = 'S'
	TagChar       = 'c'
	TagRGBA       = 'r'
	TagMIDI       = 'm'
	TagTrue       = 'T'
	TagFalse      = 'F'
	TagNil        = 'N'
	TagInfinitum  = 'I'
	TagArrayStart = '['
	TagArrayEnd   = ']'
)

// isKnownTag reports whether b is one of the 17 argument-kind tags.
func isKnownTag(b byte) bool {
	switch b {
	case TagInt32, TagFloat32, TagString, TagBlob, TagInt64, TagTimeTag, TagDouble,
		TagAltString, TagChar, TagRGBA, TagMIDI, TagTrue, TagFalse, TagNil,
		TagInfinitum, TagArrayStart, TagArrayEnd:
		return true
	}
	return false
}

// wireSizeAt returns the number of payload bytes the argument tagged
// tag consumes starting at offset in payload, without decoding it.
// Used by both SkipArgument (to advance the payload cursor the
// documented quirk leaves behind, see spec.md §9 and SPEC_FULL.md §4
// resolution 3) and by the Get<Kind> readers sharing the same bounds
// checks.
func wireSizeAt(tag byte, payload []byte, offset int) (int, error) {
	switch tag {
	case TagInt32, TagFloat32, TagChar, TagRGBA, TagMIDI:
		if offset+4 > len(payload) {
			return 0, fmt.Errorf("osc: argument %q: %w", tag, ErrTruncated)
		}
		return 4, nil

	case TagInt64, TagTimeTag, TagDouble:
		if offset+8 > len(payload) {
			return 0, fmt.Errorf("osc: argument %q: %w", tag, ErrTruncated)
		}
		return 8, nil

	case TagTrue, TagFalse, TagNil, TagInfinitum, TagArrayStart, TagArrayEnd:
		return 0, nil

	case TagString, TagAltString:
		end := offset
		for end < len(payload) && payload[end] != 0 {
			end++
		}
		if end >= len(payload) {
			return 0, fmt.Errorf("osc: argument %q: %w", tag, ErrTruncated)
		}
		return alignTo4(end+1) - offset, nil

	case TagBlob:
		if offset+4 > len(payload) {
			return 0, fmt.Errorf("osc: argument %q: %w", tag, ErrTruncated)
		}
		blobLen := readInt32(payload[offset : offset+4])
		if blobLen < 0 {
			return 0, fmt.Errorf("osc: blob length %d: %w", blobLen, ErrNegativeSize)
		}
		size := 4 + alignTo4(int(blobLen))
		if offset+size > len(payload) {
			return 0, fmt.Errorf("osc: argument %q: %w", tag, ErrTruncated)
		}
		return size, nil

	default:
		return 0, fmt.Errorf("osc: unknown type tag %q: %w", tag, ErrUnexpectedType)
	}
}
