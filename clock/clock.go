// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clock provides the tick source the subsystem uses to compute
// trancheNow and to schedule wakeups. The clock is mockable so tests can
// advance time deterministically instead of sleeping.
package clock

import (
	"context"
	"time"

	"github.com/luxfi/approval-voting/tick"
)

// Clock is a mockable source of the current tick. Real usage wraps
// time.Now(); tests call Set/Advance to drive trancheNow deterministically.
type Clock struct {
	now    time.Time
	mocked bool

	// epoch is the time instant that corresponds to tick 0.
	epoch    time.Time
	tickSize time.Duration
}

// New returns a Clock ticking in increments of tickSize starting at epoch.
func New(epoch time.Time, tickSize time.Duration) *Clock {
	return &Clock{
		now:      time.Now(),
		epoch:    epoch,
		tickSize: tickSize,
	}
}

// Now returns the current wall-clock time, or the mocked time if Set has
// been called.
func (c *Clock) Now() time.Time {
	if c.mocked {
		return c.now
	}
	return time.Now()
}

// TickNow converts the current time into a Tick relative to the clock's
// epoch and tick size.
func (c *Clock) TickNow() tick.Tick {
	elapsed := c.Now().Sub(c.epoch)
	if elapsed <= 0 {
		return 0
	}
	return tick.Tick(elapsed / c.tickSize)
}

// Set pins the clock to t, switching it into mocked mode.
func (c *Clock) Set(t time.Time) {
	c.now = t
	c.mocked = true
}

// Advance moves a mocked clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// AdvanceTicks moves a mocked clock forward by n ticks.
func (c *Clock) AdvanceTicks(n tick.Tick) {
	c.Advance(time.Duration(n) * c.tickSize)
}

// Real switches the clock back to wall-clock time.
func (c *Clock) Real() {
	c.mocked = false
}

// Wait blocks until the clock reaches target or ctx is cancelled,
// returning ctx.Err() in the latter case. A mocked clock is re-checked
// once per tick of real time, since Set/Advance move it from outside.
func (c *Clock) Wait(ctx context.Context, target tick.Tick) error {
	for {
		if c.TickNow() >= target {
			return nil
		}

		d := c.tickSize
		if !c.mocked {
			deadline := c.epoch.Add(time.Duration(target) * c.tickSize)
			if until := time.Until(deadline); until > d {
				d = until
			}
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
