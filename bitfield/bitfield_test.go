// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bitfield

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetCount(t *testing.T) {
	require := require.New(t)

	b := New(10)
	require.EqualValues(10, b.Len())
	require.False(b.Get(3))

	b.Set(3)
	b.Set(7)
	require.True(b.Get(3))
	require.True(b.Get(7))
	require.False(b.Get(0))
	require.EqualValues(2, b.Count())
}

func TestGetOutOfRangeIsUnset(t *testing.T) {
	b := New(4)
	require.False(t, b.Get(100))
}

func TestSetOutOfRangePanics(t *testing.T) {
	b := New(4)
	require.Panics(t, func() { b.Set(4) })
}

func TestAnd(t *testing.T) {
	require := require.New(t)

	a := New(8)
	a.Set(0)
	a.Set(1)
	a.Set(2)

	b := New(8)
	b.Set(1)
	b.Set(2)
	b.Set(3)

	c := a.And(b)
	require.True(c.Get(1))
	require.True(c.Get(2))
	require.False(c.Get(0))
	require.False(c.Get(3))
	require.EqualValues(2, c.Count())
}

func TestAndLengthMismatchPanics(t *testing.T) {
	a := New(4)
	b := New(8)
	require.Panics(t, func() { a.And(b) })
}

func TestClone(t *testing.T) {
	require := require.New(t)

	a := New(4)
	a.Set(1)
	clone := a.Clone()
	clone.Set(2)

	require.False(a.Get(2))
	require.True(clone.Get(2))
}

func TestBytesRoundTripLsb0(t *testing.T) {
	require := require.New(t)

	b := New(12)
	b.Set(0)
	b.Set(1)
	b.Set(9)

	data := b.Bytes()
	require.Len(data, 2)
	// bit 0 and bit 1 set -> low two bits of byte 0
	require.EqualValues(0x03, data[0])
	// bit 9 set -> bit 1 of byte 1
	require.EqualValues(0x02, data[1])

	rt, err := FromBytes(12, data)
	require.NoError(err)
	require.True(rt.Get(0))
	require.True(rt.Get(1))
	require.True(rt.Get(9))
	require.EqualValues(3, rt.Count())
}

func TestFromBytesWrongLength(t *testing.T) {
	_, err := FromBytes(12, []byte{0x01})
	require.Error(t, err)
}

func TestEmptyBitfield(t *testing.T) {
	require := require.New(t)

	b := New(0)
	require.EqualValues(0, b.Count())
	require.Empty(b.Bytes())
}
