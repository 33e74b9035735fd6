package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/metrics"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/repository/contract"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/pkg/embedding"
	"greenregu-be/pkg/events"
	"greenregu-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func testLogger() logger.ILogger {
	return logger.NewFromZap(zap.NewNop())
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

// store is an in-memory database shared by every unit of work.
type store struct {
	mu            sync.Mutex
	documents     map[uuid.UUID]*entity.Document
	chunks        map[uuid.UUID][]*entity.Chunk
	conversations map[uuid.UUID]*entity.Conversation
	messages      []*entity.Message
	scored        []*entity.ScoredChunk

	failCreateBulk bool
	failSearch     error
	commits        int
	rollbacks      int
}

func newStore() *store {
	return &store{
		documents:     make(map[uuid.UUID]*entity.Document),
		chunks:        make(map[uuid.UUID][]*entity.Chunk),
		conversations: make(map[uuid.UUID]*entity.Conversation),
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{s: s}
}

func (s *store) document(id uuid.UUID) *entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.documents[id]
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

type fakeUoW struct {
	s      *store
	active bool
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	if u.active {
		return errors.New("transaction already started")
	}
	u.active = true
	return nil
}

func (u *fakeUoW) Commit() error {
	if !u.active {
		return errors.New("no transaction to commit")
	}
	u.active = false
	u.s.commits++
	return nil
}

func (u *fakeUoW) Rollback() error {
	if !u.active {
		return errors.New("no transaction to rollback")
	}
	u.active = false
	u.s.rollbacks++
	return nil
}

func (u *fakeUoW) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{s: u.s}
}

func (u *fakeUoW) ChunkRepository() contract.ChunkRepository {
	return &fakeChunkRepo{s: u.s}
}

func (u *fakeUoW) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{s: u.s}
}

func (u *fakeUoW) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{s: u.s}
}

type fakeDocumentRepo struct{ s *store }

func (r *fakeDocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *d
	r.s.documents[d.Id] = &cp
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	return r.Create(ctx, d)
}

func (r *fakeDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status, message string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.documents[id]
	if !ok {
		return entity.ErrNotFound
	}
	now := time.Now()
	d.Status = status
	d.StatusMessage = message
	d.UpdatedAt = &now
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.documents, id)
	return nil
}

func (r *fakeDocumentRepo) matches(d *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if d.Id != sp.ID {
				return false
			}
		case specification.ByCategory:
			if sp.Category != "" && d.Category != sp.Category {
				return false
			}
		case specification.ByRegion:
			if sp.Region != "" && d.Region != sp.Region {
				return false
			}
		case specification.TitleSearch:
			if sp.Query != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(sp.Query)) {
				return false
			}
		case specification.ByStatuses:
			found := false
			for _, st := range sp.Statuses {
				found = found || d.Status == st
			}
			if !found {
				return false
			}
		case specification.WithoutChunks:
			if len(r.s.chunks[d.Id]) > 0 {
				return false
			}
		case specification.AwaitingSync:
			pending := d.Status == entity.DocumentStatusPending && len(r.s.chunks[d.Id]) == 0
			if !pending && d.Status != entity.DocumentStatusFailed {
				return false
			}
		}
	}
	return true
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.s.documents {
		if r.matches(d, specs) {
			cp := *d
			out = append(out, &cp)
		}
	}
	order := specification.OrderBy{Column: "created_at", Desc: true}
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok {
			order = o
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order.Desc {
			a, b = b, a
		}
		if order.Column == "title" {
			return a.Title < b.Title
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			end := p.Offset + p.Limit
			if end > len(out) {
				end = len(out)
			}
			out = out[p.Offset:end]
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeChunkRepo struct{ s *store }

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreateBulk {
		return errors.New("insert failed")
	}
	for _, c := range chunks {
		r.s.chunks[c.DocumentId] = append(r.s.chunks[c.DocumentId], c)
	}
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.chunks, documentId)
	return nil
}

func (r *fakeChunkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			for _, list := range r.s.chunks {
				for _, c := range list {
					if c.Id == byID.ID {
						return c, nil
					}
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeChunkRepo) ListByDocument(ctx context.Context, documentId uuid.UUID) ([]*entity.Chunk, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]*entity.Chunk(nil), r.s.chunks[documentId]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, list := range r.s.chunks {
		n += len(list)
	}
	return int64(n), nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*entity.ScoredChunk, error) {
	if r.s.failSearch != nil {
		return nil, r.s.failSearch
	}
	out := r.s.scored
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeConversationRepo struct{ s *store }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conversations[c.Id] = &cp
	return nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, c *entity.Conversation) error {
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conversations {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				ok = ok && c.Id == sp.ID
			case specification.OwnedBy:
				ok = ok && c.UserId == sp.UserID
			}
		}
		if ok {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMessageRepo struct{ s *store }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.s.messages {
		ok := true
		for _, spec := range specs {
			if sp, isConv := spec.(specification.ByConversationID); isConv {
				ok = ok && m.ConversationId == sp.ConversationID
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (m *memStorage) Save(id uuid.UUID, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	path := "mem/" + id.String() + ".pdf"
	m.files[path] = data
	return path, int64(len(data)), nil
}

func (m *memStorage) Read(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (m *memStorage) Remove(path string) error {
	delete(m.files, path)
	return nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return embedding.NewResponse([]float32{float32(len(text)), 1}), nil
}

type fakeLLM struct {
	answer   string
	err      error
	block    bool
	messages []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.messages = history
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	ids    []uuid.UUID
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) PublishDocument(ctx context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
	return p.err
}
