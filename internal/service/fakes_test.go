package service

import (
	"context"
	"sort"
	"sync"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/repository/contract"
	"nichelens-be/internal/repository/specification"
	"nichelens-be/internal/repository/unitofwork"
	"nichelens-be/pkg/llm"

	"github.com/google/uuid"
)

// memoryDB backs the fake unit of work. It understands the specifications
// the services use.
type memoryDB struct {
	mu        sync.Mutex
	history   []*entity.History
	users     map[uuid.UUID]*entity.User
	providers []*entity.UserProvider
	analytics []*entity.AnalyticsLog
	commits   int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{users: map[uuid.UUID]*entity.User{}}
}

func (db *memoryDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUow{db: db}
}

type memoryUow struct{ db *memoryDB }

func (u *memoryUow) Begin(ctx context.Context) error { return nil }
func (u *memoryUow) Commit() error {
	u.db.mu.Lock()
	u.db.commits++
	u.db.mu.Unlock()
	return nil
}
func (u *memoryUow) Rollback() error { return nil }

func (u *memoryUow) UserRepository() contract.UserRepository           { return &memoryUsers{u.db} }
func (u *memoryUow) HistoryRepository() contract.HistoryRepository     { return &memoryHistory{u.db} }
func (u *memoryUow) AnalyticsLogRepository() contract.AnalyticsLogRepository {
	return &memoryAnalytics{u.db}
}

type historyFilter struct {
	id     *uuid.UUID
	userID *uuid.UUID
	desc   bool
}

func readHistorySpecs(specs []specification.Specification) historyFilter {
	var f historyFilter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.UserOwnedBy:
			id := v.UserID
			f.userID = &id
		case specification.All:
			inner := readHistorySpecs(v)
			f.desc = f.desc || inner.desc
		case specification.OrderBy:
			f.desc = v.Desc
		}
	}
	return f
}

func (f historyFilter) match(h *entity.History) bool {
	if f.id != nil && h.Id != *f.id {
		return false
	}
	if f.userID != nil && h.UserId != *f.userID {
		return false
	}
	return true
}

type memoryHistory struct{ db *memoryDB }

func (r *memoryHistory) Create(ctx context.Context, h *entity.History) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *h
	r.db.history = append(r.db.history, &cp)
	return nil
}

func (r *memoryHistory) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.History, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f := readHistorySpecs(specs)
	var out []*entity.History
	for _, h := range r.db.history {
		if f.match(h) {
			cp := *h
			out = append(out, &cp)
		}
	}
	if f.desc {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].Timestamp.Equal(out[j].Timestamp) {
				return out[i].Timestamp.After(out[j].Timestamp)
			}
			return out[i].Id.String() > out[j].Id.String()
		})
	}
	return out, nil
}

func (r *memoryHistory) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f := readHistorySpecs(specs)
	kept := r.db.history[:0]
	var n int64
	for _, h := range r.db.history {
		if f.match(h) {
			n++
			continue
		}
		kept = append(kept, h)
	}
	r.db.history = kept
	return n, nil
}

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) Create(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *u
	r.db.users[u.Id] = &cp
	return nil
}

func (r *memoryUsers) Update(ctx context.Context, u *entity.User) error {
	return r.Create(ctx, u)
}

func (r *memoryUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			if u, ok := r.db.users[byID.ID]; ok {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memoryUsers) FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range specs {
		if bp, ok := s.(specification.ByProvider); ok {
			for _, p := range r.db.providers {
				if p.ProviderName == bp.Name && p.ProviderUserId == bp.UserID {
					cp := *p
					return &cp, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *memoryUsers) SaveUserProvider(ctx context.Context, p *entity.UserProvider) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, existing := range r.db.providers {
		if existing.Id == p.Id {
			cp := *p
			r.db.providers[i] = &cp
			return nil
		}
	}
	cp := *p
	r.db.providers = append(r.db.providers, &cp)
	return nil
}

type memoryAnalytics struct{ db *memoryDB }

func (r *memoryAnalytics) Create(ctx context.Context, l *entity.AnalyticsLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *l
	r.db.analytics = append(r.db.analytics, &cp)
	return nil
}

// recordingPublisher captures domain events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) add(e string) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *recordingPublisher) PublishHistoryCreated(ctx context.Context, userId, historyId uuid.UUID, mode string) {
	p.add("history.created:" + mode)
}
func (p *recordingPublisher) PublishHistoryDeleted(ctx context.Context, userId, historyId uuid.UUID) {
	p.add("history.deleted")
}
func (p *recordingPublisher) PublishHistoryCleared(ctx context.Context, userId uuid.UUID, deleted int64) {
	p.add("history.cleared")
}
func (p *recordingPublisher) PublishUserSignedIn(ctx context.Context, userId uuid.UUID, provider string, created bool) {
	if created {
		p.add("user.signed_in:new")
		return
	}
	p.add("user.signed_in")
}

// scriptedLLM returns canned replies and records what it was asked.
type scriptedLLM struct {
	reply   string
	err     error
	prompts []string
	options []llm.Options
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, history[len(history)-1].Content)
	s.options = append(s.options, llm.Apply(llm.Options{}, opts...))
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type imageLLM struct {
	scriptedLLM
	image    string
	imageErr error
}

func (s *imageLLM) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.image, s.imageErr
}
