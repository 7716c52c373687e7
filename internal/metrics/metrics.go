// Package metrics exposes Prometheus counters for refinement passes.
//
// Each Recorder owns its registry so batch runs and tests never collide with
// the global default registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "recut"

// Pass outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeNoClips = "no_clips"
	OutcomeFailed  = "failed"
)

// Recorder collects refinement metrics.
type Recorder struct {
	registry *prometheus.Registry

	// passesTotal counts passes by edit mode ("text", "words") and outcome.
	passesTotal *prometheus.CounterVec
	// passDuration observes wall time per pass.
	// Buckets: 1ms to ~4s, doubling.
	passDuration prometheus.Histogram

	alignmentMisses prometheus.Counter
	nearMatches     prometheus.Counter
	extendedWords   prometheus.Counter
	droppedRanges   prometheus.Counter
	cuesTotal       prometheus.Counter

	// coverage observes the share of edited text recovered by alignment.
	coverage prometheus.Histogram
}

// New builds a Recorder with a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "passes_total",
				Help:      "Total number of refinement passes",
			},
			[]string{"mode", "outcome"},
		),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of refinement passes in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		}),
		alignmentMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alignment_misses_total",
			Help:      "Edited tokens dropped because no source word matched",
		}),
		nearMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alignment_near_matches_total",
			Help:      "Edited tokens bound through near-miss matching",
		}),
		extendedWords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentence_extension_words_total",
			Help:      "Source words prepended to repair mid-sentence starts",
		}),
		droppedRanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_ranges_total",
			Help:      "Keep ranges discarded as shorter than the minimum",
		}),
		cuesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caption_cues_total",
			Help:      "Caption cues produced",
		}),
		coverage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alignment_coverage_ratio",
			Help:      "Cosine similarity between edited text and aligned words",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	r.registry.MustRegister(
		r.passesTotal,
		r.passDuration,
		r.alignmentMisses,
		r.nearMatches,
		r.extendedWords,
		r.droppedRanges,
		r.cuesTotal,
		r.coverage,
	)
	return r
}

// Registry returns the Recorder's registry for exposition.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordPass counts one finished pass.
func (r *Recorder) RecordPass(mode, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.passesTotal.WithLabelValues(mode, outcome).Inc()
	r.passDuration.Observe(seconds)
}

// RecordAlignment adds alignment miss and near-match counts.
func (r *Recorder) RecordAlignment(misses, nearMatches int) {
	if r == nil {
		return
	}
	r.alignmentMisses.Add(float64(misses))
	r.nearMatches.Add(float64(nearMatches))
}

// RecordExtension adds words prepended by sentence extension.
func (r *Recorder) RecordExtension(prepended int) {
	if r == nil {
		return
	}
	r.extendedWords.Add(float64(prepended))
}

// RecordDroppedRanges adds degenerate ranges filtered from a pass.
func (r *Recorder) RecordDroppedRanges(n int) {
	if r == nil {
		return
	}
	r.droppedRanges.Add(float64(n))
}

// RecordCues adds produced caption cues.
func (r *Recorder) RecordCues(n int) {
	if r == nil {
		return
	}
	r.cuesTotal.Add(float64(n))
}

// RecordCoverage observes an alignment coverage ratio.
func (r *Recorder) RecordCoverage(ratio float64) {
	if r == nil {
		return
	}
	r.coverage.Observe(ratio)
}
