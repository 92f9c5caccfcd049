// Package osc implements the Open Sound Control 1.0 wire format: a
// bit-exact, big-endian, 4-byte-aligned binary codec for OSC messages,
// bundles, and SLIP transport framing. See http://opensoundcontrol.org/spec-1_0.
//
// The package does not open sockets, match address patterns, or run a
// dispatcher; it only builds and tears apart the bytes. Callers own the
// transport and the routing.
package osc
