// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package assignment defines the assignment-criteria collaborator the
// approval-voting subsystem consults to learn which delay tranche, if any,
// a validator is obligated to check a candidate at. The VRF mechanics that
// produce and verify certs live behind this interface; the subsystem only
// requires that an accepted assignment carries a DelayTranche.
package assignment

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/persisted"
	"github.com/luxfi/approval-voting/tick"
)

// ErrInvalidAssignment is returned by CheckAssignmentCert when the cert
// does not prove an assignment for the claimed validator and candidate.
var ErrInvalidAssignment = errors.New("assignment: invalid assignment cert")

// Cert is an opaque, VRF-backed claim by a validator to be a checker for a
// particular candidate. The subsystem never inspects its contents; it hands
// certs to a Criteria for verification.
type Cert struct {
	Validator persisted.ValidatorIndex
	Bytes     []byte
}

// OwnAssignment is a cert this node generated for itself, along with the
// tranche it activates at.
type OwnAssignment struct {
	Cert    Cert
	Tranche tick.DelayTranche
}

// Criteria produces this node's own assignments for a relay block and
// verifies assignment certs received from peers.
type Criteria interface {
	// ComputeAssignments returns this node's own assignments for the
	// candidates included in the block whose relay VRF story is given,
	// keyed by candidate hash. Candidates the node is not assigned to are
	// absent from the map.
	ComputeAssignments(relayVRFStory ids.ID, candidates []ids.ID) map[ids.ID]OwnAssignment

	// CheckAssignmentCert verifies cert against the relay VRF story for
	// candidate and returns the delay tranche the assignment activates at,
	// or ErrInvalidAssignment.
	CheckAssignmentCert(relayVRFStory ids.ID, candidate ids.ID, cert Cert) (tick.DelayTranche, error)
}
