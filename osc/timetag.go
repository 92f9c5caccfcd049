package osc

// TimeTag is an opaque 64-bit NTP-format timestamp: the upper 32 bits
// are seconds since 1900-01-01 UTC, the lower 32 bits are a binary
// fraction of a second. The codec never interprets these bits; it only
// packs and unpacks them big-endian. Any clock arithmetic belongs to
// the caller.
type TimeTag uint64

const (
	// TimeTagUnspecified is the zero value, meaning "unspecified".
	TimeTagUnspecified TimeTag = 0
	// TimeTagImmediate means "execute immediately, ignore the time".
	TimeTagImmediate TimeTag = 1
)
