// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes the approval-voting subsystem's operational
// counters: verdict outcomes, observed no-shows, imported assignments and
// approvals, and the latency of candidate evaluation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/approval-voting/internal/errs"
)

// Metrics holds the subsystem's registered collectors.
type Metrics struct {
	// VerdictsExact, VerdictsPending, and VerdictsAll count evaluations by
	// the verdict they produced.
	VerdictsExact   prometheus.Counter
	VerdictsPending prometheus.Counter
	VerdictsAll     prometheus.Counter

	// NoShows sums the allowed no-show count of every Exact verdict an
	// evaluation produces. No-shows seen by Pending or All verdicts are not
	// counted.
	NoShows prometheus.Counter

	// AssignmentsImported and ApprovalsImported count accepted messages.
	AssignmentsImported prometheus.Counter
	ApprovalsImported   prometheus.Counter

	// CandidatesApproved counts candidates sealed approved.
	CandidatesApproved prometheus.Counter

	// EvaluationTime tracks the running average evaluation latency in
	// nanoseconds.
	EvaluationTime Averager
}

// New registers and returns the subsystem metrics on reg.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		VerdictsExact: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_exact",
			Help:      "Number of evaluations that produced an exact verdict",
		}),
		VerdictsPending: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_pending",
			Help:      "Number of evaluations that produced a pending verdict",
		}),
		VerdictsAll: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_all",
			Help:      "Number of evaluations that escalated to the whole validator set",
		}),
		NoShows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_shows",
			Help:      "Number of allowed no-shows in exact verdicts produced by evaluations",
		}),
		AssignmentsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_imported",
			Help:      "Number of accepted assignment certs",
		}),
		ApprovalsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_imported",
			Help:      "Number of accepted approval votes",
		}),
		CandidatesApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_approved",
			Help:      "Number of candidates sealed approved",
		}),
	}

	errList := &errs.Errs{}
	for _, c := range []prometheus.Collector{
		m.VerdictsExact,
		m.VerdictsPending,
		m.VerdictsAll,
		m.NoShows,
		m.AssignmentsImported,
		m.ApprovalsImported,
		m.CandidatesApproved,
	} {
		errList.Add(reg.Register(c))
	}
	m.EvaluationTime = NewAveragerWithErrs(namespace+"_evaluation_time", "evaluation latency in nanoseconds", reg, errList)

	return m, errList.Err()
}
