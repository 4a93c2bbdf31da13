package machine

import (
	"encoding/binary"
	"fmt"
)

// UInt32Get converts the first 4 bytes of p to a uint32.
//
// Requires p be at least 4 bytes long.
//
// Decodes in big-endian byte order, the inverse of UInt32Put.
func UInt32Get(p []byte) uint32 {
	return binary.BigEndian.Uint32(p)
}

// UInt32Put stores n to the first 4 bytes of p
//
// Requires p to be at least 4 bytes long.
//
// The most significant byte goes first, so a stream of words from a random
// source is laid out in the order the source produced its bits.
func UInt32Put(p []byte, n uint32) {
	binary.BigEndian.PutUint32(p, n)
}

// FillUInt32 overwrites p with consecutive words drawn from next.
//
// Requires len(p) to be a multiple of 4.
func FillUInt32(p []byte, next func() uint32) {
	if len(p)%4 != 0 {
		panic(fmt.Errorf("p is not word-sized (%d bytes)", len(p)))
	}
	for i := 0; i < len(p); i += 4 {
		UInt32Put(p[i:], next())
	}
}
