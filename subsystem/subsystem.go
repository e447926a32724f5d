// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package subsystem ties the approval-voting pieces together: it imports
// blocks, assignments, and approval votes into the persisted entries,
// evaluates candidates through the decision core, seals approvals, and
// reports the wakeup the caller should schedule next.
//
// The coordinator owning a Subsystem is the single writer of its state;
// evaluation itself never mutates anything except the sticky approved flag
// and the metrics.
package subsystem

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	approval "github.com/luxfi/approval-voting"
	"github.com/luxfi/approval-voting/assignment"
	"github.com/luxfi/approval-voting/clock"
	"github.com/luxfi/approval-voting/config"
	"github.com/luxfi/approval-voting/metrics"
	"github.com/luxfi/approval-voting/persisted"
	"github.com/luxfi/approval-voting/storage"
	"github.com/luxfi/approval-voting/tick"
)

var (
	// ErrUnknownBlock is returned when a message references a block with no
	// stored entry.
	ErrUnknownBlock = errors.New("subsystem: unknown block")

	// ErrUnknownCandidate is returned when a message references a candidate
	// with no stored entry.
	ErrUnknownCandidate = errors.New("subsystem: unknown candidate")

	// ErrCandidateGroupMismatch is returned by ImportBlock when the backing
	// group list does not align with the block's candidate list.
	ErrCandidateGroupMismatch = errors.New("subsystem: backing group count does not match candidate count")
)

// Config collects a Subsystem's collaborators.
type Config struct {
	Log      log.Logger
	Params   config.SessionConfig
	Store    storage.Store
	Clock    *clock.Clock
	Criteria assignment.Criteria
	Metrics  *metrics.Metrics
}

// Subsystem coordinates approval state for the blocks and candidates it has
// imported.
type Subsystem struct {
	log      log.Logger
	params   config.SessionConfig
	store    storage.Store
	clock    *clock.Clock
	criteria assignment.Criteria
	metrics  *metrics.Metrics
}

// New returns a Subsystem over cfg. The logger defaults to a no-op logger
// when unset.
func New(cfg Config) (*Subsystem, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Subsystem{
		log:      logger,
		params:   cfg.Params,
		store:    cfg.Store,
		clock:    cfg.Clock,
		criteria: cfg.Criteria,
		metrics:  cfg.Metrics,
	}, nil
}

// WakeupHint tells the caller when to re-evaluate a candidate. A nil hint
// means no further wakeup is needed.
type WakeupHint struct {
	BlockHash     ids.ID
	CandidateHash ids.ID
	Tick          tick.Tick
}

// ImportBlock records a block entry and creates the approval state for each
// candidate it introduced. backingGroups aligns index-for-index with
// entry.Candidates. Own assignments are computed from relayVRFStory and
// recorded so the caller knows which candidates it owes a broadcast for.
func (s *Subsystem) ImportBlock(
	entry *storage.BlockEntry,
	relayVRFStory ids.ID,
	nValidators uint,
	backingGroups []persisted.GroupIndex,
) error {
	if len(backingGroups) != len(entry.Candidates) {
		return ErrCandidateGroupMismatch
	}
	if err := s.store.WriteBlockEntry(entry); err != nil {
		return err
	}

	candidateHashes := make([]ids.ID, len(entry.Candidates))
	for i, ref := range entry.Candidates {
		candidateHashes[i] = ref.CandidateHash
	}
	ours := s.criteria.ComputeAssignments(relayVRFStory, candidateHashes)

	for i, ref := range entry.Candidates {
		ce, err := s.store.LoadCandidateEntry(ref.CandidateHash)
		if errors.Is(err, storage.ErrNotFound) {
			ce = persisted.NewCandidateEntry(persisted.CandidateReceipt{
				CandidateHash: ref.CandidateHash,
				RelayParent:   entry.ParentHash,
			}, entry.Session, nValidators)
		} else if err != nil {
			return err
		}

		ae := persisted.NewApprovalEntry(nValidators, backingGroups[i])
		if own, ok := ours[ref.CandidateHash]; ok {
			ae.SetOurAssignment(&persisted.OurAssignment{Tranche: own.Tranche})
			s.log.Debug("own assignment recorded",
				log.Stringer("candidate", ref.CandidateHash),
				log.Uint32("tranche", uint32(own.Tranche)),
			)
		}
		ce.SetApprovalEntry(entry.BlockHash, ae)

		if err := s.store.WriteCandidateEntry(ref.CandidateHash, ce); err != nil {
			return err
		}
	}

	s.log.Info("imported block",
		log.Stringer("block", entry.BlockHash),
		log.Int("candidates", len(entry.Candidates)),
	)
	return nil
}

// ImportAssignment verifies cert through the assignment criteria and, if
// valid, records the assignment at the tranche the criteria reports.
func (s *Subsystem) ImportAssignment(
	relayVRFStory ids.ID,
	blockHash ids.ID,
	candidateHash ids.ID,
	cert assignment.Cert,
) error {
	tranche, err := s.criteria.CheckAssignmentCert(relayVRFStory, candidateHash, cert)
	if err != nil {
		s.log.Debug("rejected assignment cert",
			log.Stringer("candidate", candidateHash),
			log.Uint32("validator", uint32(cert.Validator)),
			log.Err(err),
		)
		return err
	}

	ce, ae, err := s.loadEntries(blockHash, candidateHash)
	if err != nil {
		return err
	}
	if err := ae.ImportAssignment(tranche, cert.Validator, s.clock.TickNow()); err != nil {
		return err
	}
	if err := s.store.WriteCandidateEntry(candidateHash, ce); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AssignmentsImported.Inc()
	}
	s.log.Debug("imported assignment",
		log.Stringer("candidate", candidateHash),
		log.Uint32("validator", uint32(cert.Validator)),
		log.Uint32("tranche", uint32(tranche)),
	)
	return nil
}

// ImportApproval records validator's approval vote for the candidate. The
// vote covers the candidate under every block that includes it.
func (s *Subsystem) ImportApproval(candidateHash ids.ID, validator persisted.ValidatorIndex) error {
	ce, err := s.store.LoadCandidateEntry(candidateHash)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownCandidate, candidateHash)
	} else if err != nil {
		return err
	}

	ce.MarkApproval(validator)
	if err := s.store.WriteCandidateEntry(candidateHash, ce); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ApprovalsImported.Inc()
	}
	s.log.Debug("imported approval",
		log.Stringer("candidate", candidateHash),
		log.Uint32("validator", uint32(validator)),
	)
	return nil
}

// Evaluate runs the decision core for the candidate under blockHash and
// returns the verdict, whether the candidate is approved, and the wakeup
// the caller should schedule (nil when none is needed). The sticky
// approved flag is sealed and persisted on the first approving evaluation.
func (s *Subsystem) Evaluate(blockHash ids.ID, candidateHash ids.ID) (approval.RequiredTranches, bool, *WakeupHint, error) {
	start := s.clock.Now()

	blockEntry, err := s.store.LoadBlockEntry(blockHash)
	if errors.Is(err, storage.ErrNotFound) {
		return approval.RequiredTranches{}, false, nil, fmt.Errorf("%w: %s", ErrUnknownBlock, blockHash)
	} else if err != nil {
		return approval.RequiredTranches{}, false, nil, err
	}

	ce, ae, err := s.loadEntries(blockHash, candidateHash)
	if err != nil {
		return approval.RequiredTranches{}, false, nil, err
	}

	tickNow := s.clock.TickNow()
	trancheNow := tick.DelayTranche(0)
	if tickNow > blockEntry.BlockTick {
		trancheNow = tick.DelayTranche(tickNow - blockEntry.BlockTick)
	}

	verdict := approval.TranchesToApprove(
		ae,
		ce.Approvals(),
		trancheNow,
		blockEntry.BlockTick,
		tick.Tick(s.params.NoShowDuration),
		s.params.NeededApprovals,
	)
	approved := approval.CheckApproval(ce, ae, verdict)

	s.observe(verdict, start)
	s.log.Debug("evaluated candidate",
		log.Stringer("block", blockHash),
		log.Stringer("candidate", candidateHash),
		log.Stringer("verdict", verdict.Kind),
		log.Uint32("trancheNow", uint32(trancheNow)),
	)

	if approved && !ae.Approved() {
		ae.MarkApproved()
		if err := s.store.WriteCandidateEntry(candidateHash, ce); err != nil {
			return verdict, approved, nil, err
		}
		if s.metrics != nil {
			s.metrics.CandidatesApproved.Inc()
		}
		s.log.Info("candidate approved",
			log.Stringer("block", blockHash),
			log.Stringer("candidate", candidateHash),
			log.Uint32("tranche", uint32(verdict.Tranche)),
		)
	}

	var hint *WakeupHint
	if verdict.Kind == approval.KindPending {
		hint = &WakeupHint{
			BlockHash:     blockHash,
			CandidateHash: candidateHash,
			Tick:          verdict.Tranche.At(blockEntry.BlockTick),
		}
	}
	return verdict, approved, hint, nil
}

// loadEntries fetches the candidate entry and its approval entry for
// blockHash, mapping missing state onto the unknown-block and
// unknown-candidate sentinels.
func (s *Subsystem) loadEntries(blockHash ids.ID, candidateHash ids.ID) (*persisted.CandidateEntry, *persisted.ApprovalEntry, error) {
	ce, err := s.store.LoadCandidateEntry(candidateHash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, candidateHash)
	} else if err != nil {
		return nil, nil, err
	}
	ae, ok := ce.ApprovalEntry(blockHash)
	if !ok {
		return nil, nil, fmt.Errorf("%w: candidate %s not included in %s", ErrUnknownBlock, candidateHash, blockHash)
	}
	return ce, ae, nil
}

func (s *Subsystem) observe(verdict approval.RequiredTranches, start time.Time) {
	if s.metrics == nil {
		return
	}
	switch verdict.Kind {
	case approval.KindExact:
		s.metrics.VerdictsExact.Inc()
		s.metrics.NoShows.Add(float64(verdict.NoShows))
	case approval.KindPending:
		s.metrics.VerdictsPending.Inc()
	case approval.KindAll:
		s.metrics.VerdictsAll.Inc()
	}
	s.metrics.EvaluationTime.Observe(float64(s.clock.Now().Sub(start)))
}

// PruneBlock drops the block entry and every approval entry recorded under
// it, used when the block is finalized or abandoned. Candidate entries that
// no longer appear under any block are removed entirely.
func (s *Subsystem) PruneBlock(blockHash ids.ID) error {
	blockEntry, err := s.store.LoadBlockEntry(blockHash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	for _, ref := range blockEntry.Candidates {
		ce, err := s.store.LoadCandidateEntry(ref.CandidateHash)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}

		ce.RemoveApprovalEntry(blockHash)
		if len(ce.BlockHashes()) == 0 {
			err = s.store.DeleteCandidateEntry(ref.CandidateHash)
		} else {
			err = s.store.WriteCandidateEntry(ref.CandidateHash, ce)
		}
		if err != nil {
			return err
		}
	}

	return s.store.DeleteBlockEntry(blockHash)
}
