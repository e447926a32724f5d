// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package persisted

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/bitfield"
	"github.com/luxfi/approval-voting/tick"
)

// CodecVersion tags the wire format of a persisted entry: bump it
// whenever a field is added, removed, or reinterpreted, never when only
// encoding speed changes.
type CodecVersion uint16

// CurrentVersion is the codec version this build writes. Readers must
// accept it and may additionally accept older versions they know how to
// upgrade.
const CurrentVersion CodecVersion = 1

// wireTrancheEntry mirrors TrancheEntry's exported wire shape.
type wireTrancheEntry struct {
	Tranche     tick.DelayTranche `json:"tranche"`
	Assignments []AssignmentRecord `json:"assignments"`
}

// wireApprovalEntry is the persisted layout for ApprovalEntry: the
// tranche list (ascending), assignment bitfield, our_assignment option,
// backing group, and approved flag. Session index is carried on the
// owning CandidateEntry's wire form, not duplicated here.
type wireApprovalEntry struct {
	Version       CodecVersion       `json:"version"`
	Tranches      []wireTrancheEntry `json:"tranches"`
	NValidators   uint               `json:"n_validators"`
	Assignments   []byte             `json:"assignments"`
	OurAssignment *OurAssignment     `json:"our_assignment,omitempty"`
	BackingGroup  GroupIndex         `json:"backing_group"`
	Approved      bool               `json:"approved"`
}

// MarshalApprovalEntry encodes an ApprovalEntry. The assignment bitfield
// is encoded least-significant-bit-first, per bitfield.Bitfield.Bytes.
func MarshalApprovalEntry(a *ApprovalEntry) ([]byte, error) {
	w := wireApprovalEntry{
		Version:       CurrentVersion,
		NValidators:   a.assignments.Len(),
		Assignments:   a.assignments.Bytes(),
		OurAssignment: a.ourAssignment,
		BackingGroup:  a.backingGroup,
		Approved:      a.approved,
	}
	for _, t := range a.tranches {
		w.Tranches = append(w.Tranches, wireTrancheEntry{Tranche: t.tranche, Assignments: t.assignments})
	}
	return json.Marshal(w)
}

// UnmarshalApprovalEntry decodes an ApprovalEntry previously produced by
// MarshalApprovalEntry.
func UnmarshalApprovalEntry(data []byte) (*ApprovalEntry, error) {
	var w wireApprovalEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Version != CurrentVersion {
		return nil, fmt.Errorf("persisted: unsupported approval entry codec version %d", w.Version)
	}

	assignments, err := bitfield.FromBytes(w.NValidators, w.Assignments)
	if err != nil {
		return nil, fmt.Errorf("persisted: decoding assignment bitfield: %w", err)
	}

	a := &ApprovalEntry{
		assignedAt:    make(map[ValidatorIndex]tick.DelayTranche),
		assignments:   assignments,
		backingGroup:  w.BackingGroup,
		ourAssignment: w.OurAssignment,
		approved:      w.Approved,
	}
	prev := tick.DelayTranche(0)
	for i, wt := range w.Tranches {
		if i > 0 && wt.Tranche <= prev {
			return nil, fmt.Errorf("persisted: tranche list not strictly ascending at index %d", i)
		}
		prev = wt.Tranche
		entry := &TrancheEntry{tranche: wt.Tranche, assignments: wt.Assignments}
		for _, rec := range wt.Assignments {
			if _, dup := a.assignedAt[rec.Validator]; dup {
				return nil, fmt.Errorf("persisted: validator %d assigned in more than one tranche", rec.Validator)
			}
			a.assignedAt[rec.Validator] = wt.Tranche
		}
		a.tranches = append(a.tranches, entry)
	}
	return a, nil
}

// wireCandidateEntry is the persisted layout for CandidateEntry: the
// candidate receipt, session, block->approval-entry map, and approvals
// bitfield.
type wireCandidateEntry struct {
	Version     CodecVersion      `json:"version"`
	Receipt     CandidateReceipt  `json:"receipt"`
	Session     uint32            `json:"session"`
	NValidators uint              `json:"n_validators"`
	Approvals   []byte            `json:"approvals"`
	ByBlock     map[string][]byte `json:"by_block"`
}

// MarshalCandidateEntry encodes a CandidateEntry, recursively encoding
// each of its ApprovalEntry values with MarshalApprovalEntry.
func MarshalCandidateEntry(c *CandidateEntry) ([]byte, error) {
	w := wireCandidateEntry{
		Version:     CurrentVersion,
		Receipt:     c.receipt,
		Session:     c.session,
		NValidators: c.approvals.Len(),
		Approvals:   c.approvals.Bytes(),
		ByBlock:     make(map[string][]byte, len(c.byBlock)),
	}
	for blockHash, ae := range c.byBlock {
		encoded, err := MarshalApprovalEntry(ae)
		if err != nil {
			return nil, fmt.Errorf("persisted: encoding approval entry for block %s: %w", blockHash, err)
		}
		w.ByBlock[blockHash.String()] = encoded
	}
	return json.Marshal(w)
}

// UnmarshalCandidateEntry decodes a CandidateEntry previously produced by
// MarshalCandidateEntry.
func UnmarshalCandidateEntry(data []byte) (*CandidateEntry, error) {
	var w wireCandidateEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Version != CurrentVersion {
		return nil, fmt.Errorf("persisted: unsupported candidate entry codec version %d", w.Version)
	}

	approvals, err := bitfield.FromBytes(w.NValidators, w.Approvals)
	if err != nil {
		return nil, fmt.Errorf("persisted: decoding approvals bitfield: %w", err)
	}

	c := &CandidateEntry{
		receipt:   w.Receipt,
		session:   w.Session,
		approvals: approvals,
		byBlock:   make(map[candidateBlockKey]*ApprovalEntry, len(w.ByBlock)),
	}
	for blockHashStr, encoded := range w.ByBlock {
		blockHash, err := ids.FromString(blockHashStr)
		if err != nil {
			return nil, fmt.Errorf("persisted: decoding block hash %q: %w", blockHashStr, err)
		}
		ae, err := UnmarshalApprovalEntry(encoded)
		if err != nil {
			return nil, fmt.Errorf("persisted: decoding approval entry for block %s: %w", blockHashStr, err)
		}
		c.byBlock[blockHash] = ae
	}
	return c, nil
}
