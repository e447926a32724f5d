// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package persisted holds the typed, per-candidate and per-approval
// containers the approval-voting core reads: CandidateEntry, ApprovalEntry,
// and TrancheEntry, along with the bit-set accessor operations the tranche
// state machine and approval predicate consume. The core never mutates
// these; only the accessor methods defined here do.
package persisted

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/tick"
)

// ValidatorIndex is a dense, non-negative index into the validator set for
// the current session. It is unrelated to a validator's NodeID.
type ValidatorIndex uint32

// GroupIndex identifies a backing-validator subset.
type GroupIndex uint32

// AssignmentRecord is a single validator's assignment within a tranche,
// along with the tick at which it was observed.
type AssignmentRecord struct {
	Validator ValidatorIndex
	Tick      tick.Tick
}

// TrancheEntry is the set of assignments observed at a single delay
// tranche. Within an entry every ValidatorIndex is unique.
type TrancheEntry struct {
	tranche     tick.DelayTranche
	assignments []AssignmentRecord
}

// Tranche returns the delay tranche this entry covers.
func (t *TrancheEntry) Tranche() tick.DelayTranche {
	return t.tranche
}

// Assignments returns the assignments recorded in this tranche, in the
// order they were imported.
func (t *TrancheEntry) Assignments() []AssignmentRecord {
	return t.assignments
}

// CandidateReceipt is the minimal candidate identity the core needs; the
// collaborators that produce and validate the underlying candidate block
// live outside this module.
type CandidateReceipt struct {
	CandidateHash ids.ID
	RelayParent   ids.ID
}

// OurAssignment records this node's own assignment to a candidate, so the
// surrounding subsystem knows whether (and at which tranche) it owes a
// broadcast.
type OurAssignment struct {
	Tranche   tick.DelayTranche
	Triggered bool
}
