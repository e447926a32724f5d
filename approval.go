// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package approval

import (
	"github.com/luxfi/approval-voting/persisted"
)

// CheckApproval decides whether candidate is approved under required, the
// verdict TranchesToApprove computed for one of its ApprovalEntry values.
//
//   - Pending never approves.
//   - All approves iff strictly more than two thirds of the validator set
//     have approved.
//   - Exact(t, k) approves iff, of the validators assigned through tranche
//     t, all but at most k have approved.
//
// approval and candidate must agree on validator-set length; mismatched
// lengths are a programming error in the caller. For an Exact verdict this
// function panics with ErrLengthMismatch rather than silently misbehaving;
// Pending and All verdicts do not compare the lengths.
func CheckApproval(candidate *persisted.CandidateEntry, approval *persisted.ApprovalEntry, required RequiredTranches) bool {
	switch required.Kind {
	case KindPending:
		return false
	case KindAll:
		approvals := candidate.Approvals()
		return 3*approvals.Count() > 2*approvals.Len()
	case KindExact:
		assignedMask := approval.AssignmentsUpTo(required.Tranche)
		approvals := candidate.Approvals()
		if assignedMask.Len() != approvals.Len() {
			panic(ErrLengthMismatch)
		}

		nAssigned := assignedMask.Count()
		approvedAssigned := assignedMask.And(approvals)
		nApproved := approvedAssigned.Count()

		// The process that computes required only chooses Exact once it
		// will surpass the needed approvals, so the approved count plus
		// allowed no-shows should not typically exceed the assigned
		// count by much; this is not re-verified here.
		return nApproved+uint(required.NoShows) >= nAssigned
	default:
		return false
	}
}
