// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package persisted

import (
	"fmt"
	"sort"

	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/bitfield"
	"github.com/luxfi/approval-voting/tick"
)

// ApprovalEntry is the per-(block, candidate) state the tranche state
// machine and approval predicate read: the ordered tranche list, the
// assignment bitfield derived from it, the backing group, and the sticky
// approved flag.
//
// Each ApprovalEntry is exclusively owned by the CandidateEntry that
// contains it.
type ApprovalEntry struct {
	tranches      []*TrancheEntry
	assignedAt    map[ValidatorIndex]tick.DelayTranche
	assignments   bitfield.Bitfield
	backingGroup  GroupIndex
	ourAssignment *OurAssignment
	approved      bool
}

// NewApprovalEntry returns an empty ApprovalEntry for a candidate backed by
// backingGroup, sized for nValidators validators in the session.
func NewApprovalEntry(nValidators uint, backingGroup GroupIndex) *ApprovalEntry {
	return &ApprovalEntry{
		assignedAt:   make(map[ValidatorIndex]tick.DelayTranche),
		assignments:  bitfield.New(nValidators),
		backingGroup: backingGroup,
	}
}

// NValidators returns the session validator count this entry is sized for.
func (a *ApprovalEntry) NValidators() uint {
	return a.assignments.Len()
}

// Tranches returns the tranche list in ascending tranche order. Treated as
// immutable by the core; callers must not mutate the returned entries
// except through ImportAssignment.
func (a *ApprovalEntry) Tranches() []*TrancheEntry {
	return a.tranches
}

// BackingGroup returns the identifier of the backing validator subset.
func (a *ApprovalEntry) BackingGroup() GroupIndex {
	return a.backingGroup
}

// OurAssignment returns this node's own assignment, if any.
func (a *ApprovalEntry) OurAssignment() *OurAssignment {
	return a.ourAssignment
}

// SetOurAssignment records this node's own assignment.
func (a *ApprovalEntry) SetOurAssignment(oa *OurAssignment) {
	a.ourAssignment = oa
}

// Approved reports the sticky approved flag.
func (a *ApprovalEntry) Approved() bool {
	return a.approved
}

// MarkApproved sets the sticky approved flag. Idempotent; once set it is
// never cleared.
func (a *ApprovalEntry) MarkApproved() {
	a.approved = true
}

// AssignmentsUpTo returns a copy of the assignment bitfield restricted to
// validators with assignment tranche <= t. Bit i is unset (including
// absent) for validators with no assignment at all.
func (a *ApprovalEntry) AssignmentsUpTo(t tick.DelayTranche) bitfield.Bitfield {
	out := bitfield.New(a.assignments.Len())
	for validator, tranche := range a.assignedAt {
		if tranche <= t {
			out.Set(uint(validator))
		}
	}
	return out
}

// ImportAssignment inserts validator's assignment at tranche, observed at
// tick at, creating the tranche entry if absent and preserving ascending
// tranche order. Returns an error if the validator already has an
// assignment recorded at any tranche, or if the validator index is out of
// range, so the message-handling path that feeds it untrusted assignment
// certs can reject one without taking the node down.
func (a *ApprovalEntry) ImportAssignment(tr tick.DelayTranche, validator ValidatorIndex, at tick.Tick) error {
	if uint(validator) >= a.assignments.Len() {
		return fmt.Errorf("persisted: validator index %d out of range for %d validators", validator, a.assignments.Len())
	}
	if existing, ok := a.assignedAt[validator]; ok {
		return fmt.Errorf("persisted: validator %d already assigned at tranche %d", validator, existing)
	}

	idx := sort.Search(len(a.tranches), func(i int) bool {
		return a.tranches[i].tranche >= tr
	})

	var entry *TrancheEntry
	if idx < len(a.tranches) && a.tranches[idx].tranche == tr {
		entry = a.tranches[idx]
	} else {
		entry = &TrancheEntry{tranche: tr}
		a.tranches = append(a.tranches, nil)
		copy(a.tranches[idx+1:], a.tranches[idx:])
		a.tranches[idx] = entry
	}

	entry.assignments = append(entry.assignments, AssignmentRecord{Validator: validator, Tick: at})
	a.assignedAt[validator] = tr
	a.assignments.Set(uint(validator))
	return nil
}

// NewApprovalEntryFixture builds an ApprovalEntry directly from a fully
// formed tranche list. Some test fixtures are built one assignment at a
// time through ImportAssignment; others are assembled as a complete
// tranche list up front. The caller is responsible for upholding the usual
// invariants: ascending tranches, unique validators.
func NewApprovalEntryFixture(nValidators uint, backingGroup GroupIndex, tranches []TrancheEntry) *ApprovalEntry {
	a := NewApprovalEntry(nValidators, backingGroup)
	for i := range tranches {
		t := tranches[i]
		entry := &TrancheEntry{tranche: t.tranche, assignments: t.assignments}
		a.tranches = append(a.tranches, entry)
		for _, rec := range t.assignments {
			a.assignedAt[rec.Validator] = t.tranche
			a.assignments.Set(uint(rec.Validator))
		}
	}
	return a
}

// NewTrancheEntry constructs a TrancheEntry for use with
// NewApprovalEntryFixture.
func NewTrancheEntry(tranche tick.DelayTranche, assignments []AssignmentRecord) TrancheEntry {
	return TrancheEntry{tranche: tranche, assignments: assignments}
}

// candidateBlockKey is the block hash under which a CandidateEntry keeps an
// ApprovalEntry, used as the map key on CandidateEntry. It is an alias of
// ids.ID, named so the map's key reads clearly.
type candidateBlockKey = ids.ID
