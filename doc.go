// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package approval is the approval-checking core of a BFT-style parachain
// approval-voting subsystem: given the assignments a candidate has drawn
// and the approval votes it has received, decide whether enough
// independently selected validators have checked it to call it approved,
// with confidence staggered over discrete delay tranches.
//
// The package is split in two: TranchesToApprove walks a candidate's
// tranche list to produce a RequiredTranches verdict, and CheckApproval
// turns that verdict plus the current approval bitfield into a bool. Both
// are pure functions over the persisted.ApprovalEntry / persisted.CandidateEntry
// snapshots passed in — no locking, no I/O, no clock access.
package approval
