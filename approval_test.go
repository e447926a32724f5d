// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package approval

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/approval-voting/persisted"
)

func newCandidate(n uint, approved ...persisted.ValidatorIndex) *persisted.CandidateEntry {
	ce := persisted.NewCandidateEntry(persisted.CandidateReceipt{
		CandidateHash: ids.Empty,
		RelayParent:   ids.Empty,
	}, 0, n)
	for _, v := range approved {
		ce.MarkApproval(v)
	}
	return ce
}

func TestPendingNeverApproves(t *testing.T) {
	require := require.New(t)

	ce := newCandidate(4, 0, 1, 2, 3)
	ae := buildEntry(t, 4, []trancheSpec{
		{tranche: 0, validators: []persisted.ValidatorIndex{0, 1, 2, 3}, tick: 0},
	})

	require.False(CheckApproval(ce, ae, PendingRequired(0)))
	require.False(CheckApproval(ce, ae, PendingRequired(100)))
}

func TestSupermajorityUnderAll(t *testing.T) {
	require := require.New(t)

	ae := persisted.NewApprovalEntry(10, 0)

	ce := newCandidate(10, 0, 1, 2, 3, 4, 5)
	require.False(CheckApproval(ce, ae, AllRequired()))

	ce.MarkApproval(6)
	require.True(CheckApproval(ce, ae, AllRequired()))
}

func TestAllWithZeroValidatorsRejects(t *testing.T) {
	ce := newCandidate(0)
	ae := persisted.NewApprovalEntry(0, 0)
	require.False(t, CheckApproval(ce, ae, AllRequired()))
}

func TestExactTrimming(t *testing.T) {
	require := require.New(t)

	ae := buildEntry(t, 10, []trancheSpec{
		{tranche: 0, validators: []persisted.ValidatorIndex{0, 1, 2, 3}, tick: 0},
		{tranche: 1, validators: []persisted.ValidatorIndex{4, 5}, tick: 1},
		{tranche: 2, validators: []persisted.ValidatorIndex{6, 7, 8, 9}, tick: 0},
	})
	ce := newCandidate(10, 0, 1, 2, 3, 4, 5)

	require.True(CheckApproval(ce, ae, ExactRequired(1, 0)))
	require.False(CheckApproval(ce, ae, ExactRequired(2, 0)))
	require.True(CheckApproval(ce, ae, ExactRequired(2, 4)))
}

func TestExactWithEmptyMaskApproves(t *testing.T) {
	// No validators assigned through the tranche window: nothing is owed.
	ce := newCandidate(4)
	ae := persisted.NewApprovalEntry(4, 0)
	require.True(t, CheckApproval(ce, ae, ExactRequired(5, 0)))
}

func TestCheckApprovalMonotoneInApprovals(t *testing.T) {
	require := require.New(t)

	ae := buildEntry(t, 8, []trancheSpec{
		{tranche: 0, validators: []persisted.ValidatorIndex{0, 1, 2, 3}, tick: 0},
	})

	ce := newCandidate(8, 0, 1, 2)
	verdict := ExactRequired(0, 1)
	require.True(CheckApproval(ce, ae, verdict))

	// Adding approvals can never flip an approving verdict back.
	for v := persisted.ValidatorIndex(3); v < 8; v++ {
		ce.MarkApproval(v)
		require.True(CheckApproval(ce, ae, verdict))
	}

	ce = newCandidate(8, 0, 1, 2, 3, 4, 5, 6)
	require.True(CheckApproval(ce, ae, AllRequired()))
	ce.MarkApproval(7)
	require.True(CheckApproval(ce, ae, AllRequired()))
}

// An Exact verdict produced by the tranche walk approves exactly when the
// approvals cover all assigned validators in the window except for at most
// the allowed no-shows.
func TestVerdictRoundTrip(t *testing.T) {
	require := require.New(t)

	build := func() *persisted.ApprovalEntry {
		return buildEntry(t, 8, []trancheSpec{
			{tranche: 0, validators: []persisted.ValidatorIndex{0, 1}, tick: 20},
			{tranche: 1, validators: []persisted.ValidatorIndex{2, 3}, tick: 20},
			{tranche: 2, validators: []persisted.ValidatorIndex{4, 5}, tick: 20},
		})
	}

	ae := build()
	ce := newCandidate(8, 0, 1, 3, 4, 5)
	verdict := TranchesToApprove(ae, ce.Approvals(), 11, 20, testNoShowDuration, testNeededApprovals)
	require.Equal(ExactRequired(2, 1), verdict)

	// Five of six assigned validators approved, one allowed no-show: true.
	require.True(CheckApproval(ce, ae, verdict))

	// Two missing approvals against one allowed no-show: false.
	ae = build()
	ce = newCandidate(8, 0, 1, 4, 5)
	require.False(CheckApproval(ce, ae, verdict))
}
