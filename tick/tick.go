// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tick defines the discrete time units the approval-voting core
// operates over. A Tick is a monotonic unit derived from slot duration;
// a DelayTranche is a non-negative wave index. Both are plain integers —
// the core never touches a wall clock, it only ever sees these values.
package tick

// Tick is a monotonic discrete time unit. All durations and deadlines in
// the approval-voting core are expressed in ticks.
type Tick uint64

// DelayTranche indexes the wave in which a validator is obligated to
// check. Tranche t for a block activates at block_tick + t.
type DelayTranche uint32

// At returns the wall-clock tick at which tranche t activates, given the
// tick the enclosing block was produced at.
func (t DelayTranche) At(blockTick Tick) Tick {
	return blockTick + Tick(t)
}
