// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package approval

import (
	"github.com/luxfi/approval-voting/bitfield"
	"github.com/luxfi/approval-voting/persisted"
	"github.com/luxfi/approval-voting/tick"
)

// RequiredTranchesKind discriminates the three shapes RequiredTranches can
// take. Kept as an explicit tag rather than three separate types so
// RequiredTranches stays a plain comparable value.
type RequiredTranchesKind uint8

const (
	// KindAll means the no-show cascade has reached the whole validator
	// set; only the supermajority rule in CheckApproval can still approve.
	KindAll RequiredTranchesKind = iota
	// KindPending means the verdict is not yet decidable; the caller
	// should broadcast/await assignments through Tranche and re-evaluate.
	KindPending
	// KindExact means taking assignments up to Tranche, and allowing
	// NoShows no-shows inside that window, is sufficient.
	KindExact
)

// String returns the verdict kind as a short lowercase label.
func (k RequiredTranchesKind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindPending:
		return "pending"
	case KindExact:
		return "exact"
	default:
		return "unknown"
	}
}

// RequiredTranches is the verdict TranchesToApprove produces.
//
//   - All: Tranche and NoShows are unused.
//   - Pending(u): Tranche holds u, the upper bound of tranches that should
//     broadcast based on the last no-show.
//   - Exact(t, k): Tranche holds t, NoShows holds k.
type RequiredTranches struct {
	Kind    RequiredTranchesKind
	Tranche tick.DelayTranche
	NoShows int
}

// AllRequired returns the All verdict.
func AllRequired() RequiredTranches {
	return RequiredTranches{Kind: KindAll}
}

// PendingRequired returns the Pending(u) verdict.
func PendingRequired(u tick.DelayTranche) RequiredTranches {
	return RequiredTranches{Kind: KindPending, Tranche: u}
}

// ExactRequired returns the Exact(t, k) verdict.
func ExactRequired(t tick.DelayTranche, noShows int) RequiredTranches {
	return RequiredTranches{Kind: KindExact, Tranche: t, NoShows: noShows}
}

// tranchesState is the two-regime walk state, kept as a tagged union
// rather than flattened flags so the rounds-of-coverage invariant stays
// visible.
type tranchesState interface {
	output(tranche, trancheNow tick.DelayTranche, neededApprovals int, nValidators uint) RequiredTranches
}

// initialCountState accumulates distinct assigned validators and no-shows
// until assignments reaches neededApprovals.
type initialCountState struct {
	assignments int
	noShows     int
}

func (s initialCountState) output(tranche, trancheNow tick.DelayTranche, neededApprovals int, nValidators uint) RequiredTranches {
	if s.assignments >= neededApprovals && s.noShows == 0 {
		return ExactRequired(tranche, 0)
	}
	// This happens only if there are not enough assignments, period.
	//
	// Within this method it can in principle also happen with enough
	// assignments but outstanding no-shows, but the calling loop
	// transitions to coverNoShowsState before that case is reached. The
	// final arm is kept as a defensive no-op.
	if s.noShows == 0 {
		return PendingRequired(trancheNow)
	}
	if s.assignments < neededApprovals {
		return PendingRequired(trancheNow)
	}
	return PendingRequired(tranche + tick.DelayTranche(s.noShows))
}

// coverNoShowsState covers outstanding no-shows in rounds: each non-empty
// tranche retires one previous-round no-show and may introduce new ones.
type coverNoShowsState struct {
	totalAssignments int
	covered          int
	covering         int
	uncovered        int
}

func (s coverNoShowsState) output(tranche, trancheNow tick.DelayTranche, neededApprovals int, nValidators uint) RequiredTranches {
	if s.covering == 0 && s.uncovered == 0 {
		return ExactRequired(tranche, s.covered)
	}
	if uint(s.totalAssignments+s.covering+s.uncovered) >= nValidators {
		return AllRequired()
	}
	return PendingRequired(tranche + tick.DelayTranche(s.covering+s.uncovered))
}

// TranchesToApprove walks approvalEntry's tranches in ascending order up to
// trancheNow, computing the amount of assignment coverage needed for the
// candidate to be considered approved.
//
// The walk starts by counting assignments until neededApprovals distinct
// validators have been seen. If any of them are no-shows by then, it
// switches to covering them in rounds: each non-empty tranche retires one
// outstanding no-show and may introduce new ones, and a round closes when
// nothing remains uncovered. If the activated and outstanding validators
// would exceed the whole set, the verdict escalates to All.
func TranchesToApprove(
	approvalEntry *persisted.ApprovalEntry,
	approvals bitfield.Bitfield,
	trancheNow tick.DelayTranche,
	blockTick tick.Tick,
	noShowDuration tick.Tick,
	neededApprovals int,
) RequiredTranches {
	tickNow := trancheNow.At(blockTick)
	nValidators := approvalEntry.NValidators()

	var state tranchesState = initialCountState{}
	var last RequiredTranches
	haveLast := false

	for _, tr := range approvalEntry.Tranches() {
		if tr.Tranche() > trancheNow {
			break
		}

		assignments := tr.Assignments()
		noShows := 0
		for _, rec := range assignments {
			if rec.Tick+noShowDuration <= tickNow && !approvals.Get(uint(rec.Validator)) {
				noShows++
			}
		}

		switch s := state.(type) {
		case initialCountState:
			totalNoShows := s.noShows + noShows
			totalAssignments := s.assignments + len(assignments)
			if totalAssignments >= neededApprovals {
				if totalNoShows == 0 {
					state = initialCountState{assignments: totalAssignments, noShows: 0}
				} else {
					state = coverNoShowsState{totalAssignments: totalAssignments, covered: 0, covering: totalNoShows, uncovered: 0}
				}
			} else {
				state = initialCountState{assignments: totalAssignments, noShows: totalNoShows}
			}
		case coverNoShowsState:
			uncovered := noShows + s.uncovered
			totalAssignments := s.totalAssignments + len(assignments)
			switch {
			case len(assignments) == 0:
				state = coverNoShowsState{totalAssignments: totalAssignments, covered: s.covered, covering: s.covering, uncovered: uncovered}
			case s.covering == 1:
				state = coverNoShowsState{totalAssignments: totalAssignments, covered: s.covered + 1, covering: uncovered, uncovered: 0}
			default:
				state = coverNoShowsState{totalAssignments: totalAssignments, covered: s.covered + 1, covering: s.covering - 1, uncovered: uncovered}
			}
		}

		out := state.output(tr.Tranche(), trancheNow, neededApprovals, nValidators)
		last = out
		haveLast = true

		if out.Kind == KindExact || out.Kind == KindAll {
			return out
		}
	}

	if !haveLast {
		// No assignments up to trancheNow at all; typically trancheNow==0.
		return PendingRequired(trancheNow)
	}
	return last
}
