// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the session-level configuration the approval-voting
// core is parameterized over: how many non-no-show approvals are needed,
// and how long an assignment waits before it is classified as a no-show.
package config

import "errors"

var (
	// ErrInvalidNeededApprovals is returned when NeededApprovals is negative.
	ErrInvalidNeededApprovals = errors.New("config: needed approvals must be non-negative")

	// ErrInvalidNoShowDuration is returned when NoShowDuration is zero — a
	// zero grace period would classify every assignment as a no-show the
	// instant it is observed.
	ErrInvalidNoShowDuration = errors.New("config: no-show duration must be positive")
)

// SessionConfig parameterizes TranchesToApprove for one session.
type SessionConfig struct {
	// NeededApprovals is the configured minimum number of non-no-show
	// approvals.
	NeededApprovals int
	// NoShowDuration is the grace period, in ticks, after assignment
	// observation within which an approval must land to avoid the
	// assignment being classified as a no-show.
	NoShowDuration uint64
}

// DefaultConfig mirrors the production relay-chain default: 30 minimum
// non-no-show approvals and a one-minute no-show grace period measured in
// 6-second-slot ticks.
var DefaultConfig = SessionConfig{
	NeededApprovals: 30,
	NoShowDuration:  10,
}

// TestConfig is a small configuration suitable for unit tests.
var TestConfig = SessionConfig{
	NeededApprovals: 4,
	NoShowDuration:  10,
}

// Validate checks the configuration for internal consistency.
func (c SessionConfig) Validate() error {
	if c.NeededApprovals < 0 {
		return ErrInvalidNeededApprovals
	}
	if c.NoShowDuration == 0 {
		return ErrInvalidNoShowDuration
	}
	return nil
}
