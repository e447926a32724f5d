// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package persisted

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/bitfield"
)

// CandidateEntry is the per-candidate state, independent of any particular
// block: the approval bitfield (shared across all blocks that include the
// candidate), the per-block approval entries, the session index, and the
// candidate receipt.
type CandidateEntry struct {
	receipt   CandidateReceipt
	session   uint32
	approvals bitfield.Bitfield
	byBlock   map[candidateBlockKey]*ApprovalEntry
}

// NewCandidateEntry returns a CandidateEntry for receipt in session, with
// an approval bitfield sized for nValidators.
func NewCandidateEntry(receipt CandidateReceipt, session uint32, nValidators uint) *CandidateEntry {
	return &CandidateEntry{
		receipt:   receipt,
		session:   session,
		approvals: bitfield.New(nValidators),
		byBlock:   make(map[candidateBlockKey]*ApprovalEntry),
	}
}

// Receipt returns the candidate receipt.
func (c *CandidateEntry) Receipt() CandidateReceipt {
	return c.receipt
}

// Session returns the session index this candidate belongs to.
func (c *CandidateEntry) Session() uint32 {
	return c.session
}

// Approvals returns the approval bitfield. The state machine reads it by
// reference without taking ownership; callers must not mutate it directly,
// only through MarkApproval.
func (c *CandidateEntry) Approvals() bitfield.Bitfield {
	return c.approvals
}

// MarkApproval sets bit v of the approval bitfield. Idempotent. Bits are
// never cleared within a single decision; this method never clears one
// either.
func (c *CandidateEntry) MarkApproval(v ValidatorIndex) {
	c.approvals.Set(uint(v))
}

// ApprovalEntry returns the ApprovalEntry for blockHash, if the candidate
// is known to be included in that block.
func (c *CandidateEntry) ApprovalEntry(blockHash ids.ID) (*ApprovalEntry, bool) {
	ae, ok := c.byBlock[blockHash]
	return ae, ok
}

// SetApprovalEntry associates blockHash with ae. Used when a block
// introducing the candidate is imported.
func (c *CandidateEntry) SetApprovalEntry(blockHash ids.ID, ae *ApprovalEntry) {
	c.byBlock[blockHash] = ae
}

// RemoveApprovalEntry drops the association for blockHash, used when the
// block is finalized or discarded (the ApprovalEntry itself is pruned along
// with it; the shared approval bitfield on CandidateEntry is untouched).
func (c *CandidateEntry) RemoveApprovalEntry(blockHash ids.ID) {
	delete(c.byBlock, blockHash)
}

// BlockHashes returns the block hashes this candidate currently has an
// approval entry under. Order is non-deterministic.
func (c *CandidateEntry) BlockHashes() []ids.ID {
	out := make([]ids.ID, 0, len(c.byBlock))
	for h := range c.byBlock {
		out = append(out, h)
	}
	return out
}
