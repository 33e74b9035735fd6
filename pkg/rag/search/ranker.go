package search

import (
	"context"
	"errors"
	"time"

	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/rag"

	"go.uber.org/zap"
)

// ErrChunkNotFound is returned by a ChunkFetcher for an unknown id.
var ErrChunkNotFound = errors.New("chunk not found")

// ScoredID is one hit of the vector backend.
type ScoredID struct {
	ChunkID string
	Score   float64
}

// VectorSearcher returns up to k chunk ids ordered by the backend's own
// relevance.
type VectorSearcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]ScoredID, error)
}

// ChunkFetcher loads a full chunk record by id.
type ChunkFetcher interface {
	FetchChunk(ctx context.Context, chunkID string) (*Chunk, error)
}

// Chunk is the stored chunk record a candidate carries.
type Chunk struct {
	ID           string
	DocumentID   string
	Content      string
	PageNumber   int
	SectionTitle string
	ChunkIndex   int
	LocationData *chunking.LocationData
}

// Candidate is a chunk that survived the similarity threshold.
type Candidate struct {
	Chunk Chunk
	Score float64
}

// Recorder observes how many candidates each query kept and dropped.
type Recorder interface {
	ObserveCandidates(kept, belowThreshold, missing int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCandidates(int, int, int) {}

// Config encapsulates search parameters
type Config struct {
	TopK                int
	MaxTopK             int
	SimilarityThreshold float64
	Timeout             time.Duration
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK:                10,
		MaxTopK:             50,
		SimilarityThreshold: 0.7,
		Timeout:             10 * time.Second,
	}
}

// Ranker turns a query into threshold-filtered, fully loaded candidates.
type Ranker struct {
	searcher VectorSearcher
	fetcher  ChunkFetcher
	config   Config
	recorder Recorder
	logger   *zap.Logger
}

func NewRanker(searcher VectorSearcher, fetcher ChunkFetcher, config Config, logger *zap.Logger) *Ranker {
	d := DefaultConfig()
	if config.TopK <= 0 {
		config.TopK = d.TopK
	}
	if config.MaxTopK <= 0 {
		config.MaxTopK = d.MaxTopK
	}
	if config.Timeout <= 0 {
		config.Timeout = d.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		searcher: searcher,
		fetcher:  fetcher,
		config:   config,
		recorder: nopRecorder{},
		logger:   logger,
	}
}

// WithRecorder attaches a candidate recorder.
func (r *Ranker) WithRecorder(rec Recorder) *Ranker {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Limit clamps a requested k to the configured bounds.
func (r *Ranker) Limit(k int) int {
	if k <= 0 {
		return r.config.TopK
	}
	if k > r.config.MaxTopK {
		return r.config.MaxTopK
	}
	return k
}

// Rank returns candidates in the backend's order. A candidate whose chunk
// no longer exists is logged and dropped; any other store failure fails the
// query. An empty result is not an error.
func (r *Ranker) Rank(ctx context.Context, query string, k int) ([]Candidate, error) {
	k = r.Limit(k)

	searchCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	hits, err := r.searcher.SimilaritySearch(searchCtx, query, k)
	if err != nil {
		err = rag.NewBackendError(searchCtx, rag.BackendVector, err)
		cancel()
		return nil, err
	}
	cancel()

	candidates := make([]Candidate, 0, len(hits))
	belowThreshold, missing := 0, 0
	for _, hit := range hits {
		if hit.Score < r.config.SimilarityThreshold {
			belowThreshold++
			r.logger.Debug("candidate below threshold",
				zap.String("chunk_id", hit.ChunkID),
				zap.Float64("score", hit.Score),
			)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk, err := r.fetcher.FetchChunk(ctx, hit.ChunkID)
		if errors.Is(err, ErrChunkNotFound) || (err == nil && chunk == nil) {
			missing++
			r.logger.Warn("candidate chunk not found", zap.String("chunk_id", hit.ChunkID))
			continue
		}
		if err != nil {
			return nil, rag.NewBackendError(ctx, rag.BackendStore, err)
		}

		candidates = append(candidates, Candidate{Chunk: *chunk, Score: hit.Score})
	}

	r.recorder.ObserveCandidates(len(candidates), belowThreshold, missing)
	r.logger.Debug("candidates ranked",
		zap.Int("requested", k),
		zap.Int("hits", len(hits)),
		zap.Int("kept", len(candidates)),
		zap.Int("below_threshold", belowThreshold),
		zap.Int("missing", missing),
	)
	return candidates, nil
}
