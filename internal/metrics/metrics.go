// Package metrics exposes Prometheus instruments for document processing
// and retrieval.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Document pipeline
	DocumentsProcessedTotal *prometheus.CounterVec
	ChunksProducedTotal     prometheus.Counter
	ProcessingDuration      prometheus.Histogram

	// Retrieval
	RetrievalDuration  *prometheus.HistogramVec
	CandidatesTotal    *prometheus.CounterVec
	CitationsReturned  prometheus.Histogram
	ChatResponsesTotal *prometheus.CounterVec
}

// NewMetrics registers all instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.DocumentsProcessedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenregu_documents_processed_total",
			Help: "Documents run through the chunking pipeline, by outcome",
		},
		[]string{"status"},
	)

	m.ChunksProducedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "greenregu_chunks_produced_total",
			Help: "Chunks stored after processing",
		},
	)

	m.ProcessingDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "greenregu_document_processing_duration_seconds",
			Help:    "Time to extract, chunk, embed and store one document",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	m.RetrievalDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenregu_retrieval_duration_seconds",
			Help:    "Duration of retrieval stages in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	m.CandidatesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenregu_retrieval_candidates_total",
			Help: "Vector search hits by what happened to them",
		},
		[]string{"outcome"},
	)

	m.CitationsReturned = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "greenregu_citations_returned",
			Help:    "Number of cited sources per answer",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	m.ChatResponsesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenregu_chat_responses_total",
			Help: "Chat requests by response status",
		},
		[]string{"status"},
	)

	return m
}

// ObserveCandidates records one query's ranking outcome.
func (m *Metrics) ObserveCandidates(kept, belowThreshold, missing int) {
	m.CandidatesTotal.WithLabelValues("kept").Add(float64(kept))
	m.CandidatesTotal.WithLabelValues("below_threshold").Add(float64(belowThreshold))
	m.CandidatesTotal.WithLabelValues("missing").Add(float64(missing))
}

func (m *Metrics) ObserveStage(stage string, started time.Time) {
	m.RetrievalDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveDocument(status string, chunks int, started time.Time) {
	m.DocumentsProcessedTotal.WithLabelValues(status).Inc()
	m.ChunksProducedTotal.Add(float64(chunks))
	m.ProcessingDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveAnswer(status string, citations int) {
	m.ChatResponsesTotal.WithLabelValues(status).Inc()
	m.CitationsReturned.Observe(float64(citations))
}
