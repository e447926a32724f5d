// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/approval-voting/internal/errs"
)

// Averager tracks a running average
type Averager interface {
	Observe(value float64)
	Read() float64
}

// averager implements Averager
type averager struct {
	mu    sync.RWMutex
	sum   float64
	count float64

	// Prometheus metrics
	promCount prometheus.Counter
	promSum   prometheus.Gauge
}

// NewAverager returns a new Averager
func NewAverager(name, help string, reg prometheus.Registerer) (Averager, error) {
	// Register two metrics: one for count and one for sum
	count := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_count",
		Help: "Total # of observations of " + help,
	})
	sum := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_sum",
		Help: "Sum of " + help,
	})

	if err := reg.Register(count); err != nil {
		return nil, err
	}
	if err := reg.Register(sum); err != nil {
		return nil, err
	}

	return &averager{
		promCount: count,
		promSum:   sum,
	}, nil
}

// NewAveragerWithErrs returns a new Averager and adds any errors to the provided error list
func NewAveragerWithErrs(name, help string, reg prometheus.Registerer, errList *errs.Errs) Averager {
	a, err := NewAverager(name, help, reg)
	if err != nil {
		errList.Add(err)
		return &averager{
			promCount: prometheus.NewCounter(prometheus.CounterOpts{Name: name + "_count"}),
			promSum:   prometheus.NewGauge(prometheus.GaugeOpts{Name: name + "_sum"}),
		}
	}
	return a
}

// Observe records a new value
func (a *averager) Observe(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sum += value
	a.count++

	a.promCount.Inc()
	a.promSum.Set(a.sum)
}

// Read returns the current average
func (a *averager) Read() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.count == 0 {
		return 0
	}
	return a.sum / a.count
}
