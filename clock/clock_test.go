// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/approval-voting/tick"
)

func TestTickNowAtEpochIsZero(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, 6*time.Second)
	c.Set(epoch)
	require.Equal(t, tick.Tick(0), c.TickNow())
}

func TestTickNowAdvancesWithTicks(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, 6*time.Second)
	c.Set(epoch)
	c.AdvanceTicks(5)
	require.Equal(t, tick.Tick(5), c.TickNow())
}

func TestTickNowBeforeEpochClampsToZero(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, 6*time.Second)
	c.Set(epoch.Add(-time.Minute))
	require.Equal(t, tick.Tick(0), c.TickNow())
}

func TestWaitReturnsWhenTickReached(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, 6*time.Second)
	c.Set(epoch)
	c.AdvanceTicks(10)
	require.NoError(t, c.Wait(context.Background(), 10))
}

func TestWaitHonorsCancellation(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, time.Millisecond)
	c.Set(epoch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Wait(ctx, 100), context.Canceled)
}

func TestRealSwitchesOffMockedTime(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(epoch, 6*time.Second)
	c.Set(epoch)
	c.Real()
	require.True(t, c.Now().After(epoch))
}
