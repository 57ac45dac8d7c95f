// Package metrics exposes the Prometheus instruments of the pricing service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Quote outcomes.
const (
	OutcomeDiscounted = "discounted"
	OutcomeNoDiscount = "no_discount"
	OutcomeFailOpen   = "fail_open"
)

// Fail-open stages.
const (
	StagePrice   = "price"
	StageCatalog = "catalog"
	StagePanic   = "panic"
)

// Ledger operations and outcomes.
const (
	OpRecord = "record"
	OpCancel = "cancel"

	OutcomeSuccess    = "success"
	OutcomeCapReached = "cap_reached"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics holds the service instruments. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry       *prometheus.Registry
	quotes         *prometheus.CounterVec
	failOpen       *prometheus.CounterVec
	ledgerWrites   *prometheus.CounterVec
	reconciliation *prometheus.CounterVec
	discountAmount prometheus.Histogram
}

// New creates the instruments on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_quotes_total",
			Help: "Price quotes served by outcome.",
		}, []string{"outcome"}),
		failOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_fail_open_total",
			Help: "Quotes degraded to the undiscounted price by failing stage.",
		}, []string{"stage"}),
		ledgerWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discount_ledger_writes_total",
			Help: "Usage ledger writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		reconciliation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discount_ledger_reconciliation_items_total",
			Help: "Ledger writes abandoned without a known outcome, needing manual reconciliation.",
		}, []string{"op"}),
		discountAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricing_discount_amount",
			Help:    "Total discount granted per discounted quote.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
	}

	registry.MustRegister(m.quotes, m.failOpen, m.ledgerWrites, m.reconciliation, m.discountAmount)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordQuote counts a served quote.
func (m *Metrics) RecordQuote(outcome string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(outcome).Inc()
}

// RecordFailOpen counts a quote that fell back to the undiscounted price.
func (m *Metrics) RecordFailOpen(stage string) {
	if m == nil {
		return
	}
	m.failOpen.WithLabelValues(stage).Inc()
}

// ObserveDiscount records the total discount of a quote.
func (m *Metrics) ObserveDiscount(amount float64) {
	if m == nil {
		return
	}
	m.discountAmount.Observe(amount)
}

// RecordLedgerWrite counts a ledger write attempt sequence.
func (m *Metrics) RecordLedgerWrite(op, outcome string) {
	if m == nil {
		return
	}
	m.ledgerWrites.WithLabelValues(op, outcome).Inc()
}

// RecordReconciliation counts a ledger write that must be reconciled by hand.
func (m *Metrics) RecordReconciliation(op string) {
	if m == nil {
		return
	}
	m.reconciliation.WithLabelValues(op).Inc()
}
