// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bitfield provides the fixed-length bit-packed containers used by
// the approval-voting core for assignment and approval membership: per-word
// Set/Test/And/popcount instead of per-bit iteration, and a byte encoding
// with bit 0 of byte 0 as the least-significant bit, stable across
// implementations (see the persisted layout notes in persisted/codec.go).
package bitfield

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Bitfield is a fixed-length bit-sequence of size n. Bit i is addressed by
// ValidatorIndex i; a zero value is not usable, use New.
type Bitfield struct {
	bits *bitset.BitSet
	n    uint
}

// New returns a Bitfield of length n with every bit clear.
func New(n uint) Bitfield {
	return Bitfield{bits: bitset.New(n), n: n}
}

// Len returns the fixed length of the bitfield.
func (b Bitfield) Len() uint {
	return b.n
}

// Set sets bit i. Idempotent.
func (b Bitfield) Set(i uint) {
	if i >= b.n {
		panic(fmt.Sprintf("bitfield: index %d out of range for length %d", i, b.n))
	}
	b.bits.Set(i)
}

// Get reports whether bit i is set. Out-of-range indices read as unset.
func (b Bitfield) Get(i uint) bool {
	if i >= b.n {
		return false
	}
	return b.bits.Test(i)
}

// Count returns the number of set bits (popcount).
func (b Bitfield) Count() uint {
	return b.bits.Count()
}

// Clone returns an independent copy of the bitfield.
func (b Bitfield) Clone() Bitfield {
	return Bitfield{bits: b.bits.Clone(), n: b.n}
}

// And returns a new bitfield containing the bitwise AND of b and other.
// Panics if the lengths differ.
func (b Bitfield) And(other Bitfield) Bitfield {
	if b.n != other.n {
		panic(fmt.Sprintf("bitfield: length mismatch %d != %d", b.n, other.n))
	}
	return Bitfield{bits: b.bits.Intersection(other.bits), n: b.n}
}

// Bytes encodes the bitfield least-significant-bit-first: bit i lives at
// byte i/8, bit position i%8 (LSB of the byte). This ordering must be
// preserved across implementations to keep on-disk state compatible.
func (b Bitfield) Bytes() []byte {
	nBytes := (b.n + 7) / 8
	out := make([]byte, nBytes)
	for i := uint(0); i < b.n; i++ {
		if b.bits.Test(i) {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// FromBytes reconstructs a Bitfield of length n from its LSB0 byte encoding.
// Trailing bits beyond n within the final byte are ignored.
func FromBytes(n uint, data []byte) (Bitfield, error) {
	nBytes := (n + 7) / 8
	if uint(len(data)) != nBytes {
		return Bitfield{}, fmt.Errorf("bitfield: expected %d bytes for length %d, got %d", nBytes, n, len(data))
	}
	b := New(n)
	for i := uint(0); i < n; i++ {
		if data[i/8]&(1<<(i%8)) != 0 {
			b.Set(i)
		}
	}
	return b, nil
}

// String renders the bitfield as a sequence of set indices, for debugging.
func (b Bitfield) String() string {
	return b.bits.String()
}
