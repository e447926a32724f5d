// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package persisted

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestImportAssignmentOrdersTranches(t *testing.T) {
	require := require.New(t)

	ae := NewApprovalEntry(4, 0)
	require.NoError(ae.ImportAssignment(1, 2, 10))
	require.NoError(ae.ImportAssignment(0, 0, 10))
	require.NoError(ae.ImportAssignment(0, 1, 10))
	require.NoError(ae.ImportAssignment(1, 3, 11))

	tranches := ae.Tranches()
	require.Len(tranches, 2)
	require.EqualValues(0, tranches[0].Tranche())
	require.EqualValues(1, tranches[1].Tranche())
	require.Len(tranches[0].Assignments(), 2)
	require.Len(tranches[1].Assignments(), 2)
}

func TestImportAssignmentRejectsDuplicateValidator(t *testing.T) {
	require := require.New(t)

	ae := NewApprovalEntry(4, 0)
	require.NoError(ae.ImportAssignment(0, 0, 10))
	err := ae.ImportAssignment(1, 0, 11)
	require.Error(err)
}

func TestImportAssignmentRejectsOutOfRangeValidator(t *testing.T) {
	ae := NewApprovalEntry(4, 0)
	err := ae.ImportAssignment(0, 10, 10)
	require.Error(t, err)
}

func TestAssignmentsUpTo(t *testing.T) {
	require := require.New(t)

	ae := NewApprovalEntry(4, 0)
	require.NoError(ae.ImportAssignment(0, 0, 10))
	require.NoError(ae.ImportAssignment(0, 1, 10))
	require.NoError(ae.ImportAssignment(1, 2, 10))
	require.NoError(ae.ImportAssignment(2, 3, 10))

	up0 := ae.AssignmentsUpTo(0)
	require.True(up0.Get(0))
	require.True(up0.Get(1))
	require.False(up0.Get(2))
	require.False(up0.Get(3))

	up1 := ae.AssignmentsUpTo(1)
	require.True(up1.Get(2))
	require.False(up1.Get(3))
}

func TestCandidateEntryMarkApprovalIdempotent(t *testing.T) {
	require := require.New(t)

	c := NewCandidateEntry(CandidateReceipt{}, 0, 4)
	c.MarkApproval(1)
	c.MarkApproval(1)
	require.True(c.Approvals().Get(1))
	require.EqualValues(1, c.Approvals().Count())
}

func TestCandidateEntryApprovalEntryByBlock(t *testing.T) {
	require := require.New(t)

	c := NewCandidateEntry(CandidateReceipt{}, 0, 4)
	blockHash := ids.GenerateTestID()
	ae := NewApprovalEntry(4, 0)
	c.SetApprovalEntry(blockHash, ae)

	got, ok := c.ApprovalEntry(blockHash)
	require.True(ok)
	require.Same(ae, got)

	c.RemoveApprovalEntry(blockHash)
	_, ok = c.ApprovalEntry(blockHash)
	require.False(ok)
}

func TestApprovedStickyFlag(t *testing.T) {
	require := require.New(t)

	ae := NewApprovalEntry(4, 0)
	require.False(ae.Approved())
	ae.MarkApproved()
	require.True(ae.Approved())
}

func TestMarshalUnmarshalApprovalEntryRoundTrip(t *testing.T) {
	require := require.New(t)

	ae := NewApprovalEntry(4, 7)
	require.NoError(ae.ImportAssignment(0, 0, 20))
	require.NoError(ae.ImportAssignment(0, 1, 20))
	require.NoError(ae.ImportAssignment(1, 2, 21))
	ae.SetOurAssignment(&OurAssignment{Tranche: 0, Triggered: true})
	ae.MarkApproved()

	data, err := MarshalApprovalEntry(ae)
	require.NoError(err)

	got, err := UnmarshalApprovalEntry(data)
	require.NoError(err)

	require.EqualValues(4, got.NValidators())
	require.True(got.Approved())
	require.EqualValues(7, got.BackingGroup())
	require.NotNil(got.OurAssignment())
	require.True(got.OurAssignment().Triggered)
	require.Len(got.Tranches(), 2)

	up1 := got.AssignmentsUpTo(1)
	require.EqualValues(3, up1.Count())
}

func TestMarshalUnmarshalCandidateEntryRoundTrip(t *testing.T) {
	require := require.New(t)

	receipt := CandidateReceipt{CandidateHash: ids.GenerateTestID(), RelayParent: ids.GenerateTestID()}
	c := NewCandidateEntry(receipt, 5, 4)
	c.MarkApproval(0)
	c.MarkApproval(2)

	blockHash := ids.GenerateTestID()
	ae := NewApprovalEntry(4, 0)
	require.NoError(ae.ImportAssignment(0, 1, 10))
	c.SetApprovalEntry(blockHash, ae)

	data, err := MarshalCandidateEntry(c)
	require.NoError(err)

	got, err := UnmarshalCandidateEntry(data)
	require.NoError(err)

	require.EqualValues(5, got.Session())
	require.Equal(receipt, got.Receipt())
	require.EqualValues(2, got.Approvals().Count())

	gotAE, ok := got.ApprovalEntry(blockHash)
	require.True(ok)
	require.Len(gotAE.Tranches(), 1)
}

func TestUnmarshalApprovalEntryRejectsUnorderedTranches(t *testing.T) {
	bad := []byte(`{"version":1,"n_validators":4,"assignments":"AA==","tranches":[{"tranche":2,"assignments":[]},{"tranche":1,"assignments":[]}]}`)
	_, err := UnmarshalApprovalEntry(bad)
	require.Error(t, err)
}
