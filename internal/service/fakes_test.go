package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"road-risk-go/internal/model"
	"road-risk-go/internal/repository"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubScorer детерминированная модель, запоминающая вызовы
type stubScorer struct {
	mu    sync.Mutex
	score float64
	err   error
	calls [][]float64
}

func (s *stubScorer) Score(_ context.Context, features []float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]float64(nil), features...))
	return s.score, s.err
}

func (s *stubScorer) Name() string { return "stub" }

func (s *stubScorer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// memoryRepository хранилище оценок в памяти
type memoryRepository struct {
	mu      sync.Mutex
	items   map[string]*model.Assessment
	failErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[string]*model.Assessment{}}
}

func (r *memoryRepository) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	copied := *a
	r.items[a.ID] = &copied
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("assessment with id %s: %w", id, repository.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (r *memoryRepository) List(_ context.Context, page, pageSize int) ([]*model.Assessment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	all := make([]*model.Assessment, 0, len(r.items))
	for _, a := range r.items {
		copied := *a
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * pageSize
	if start >= len(all) {
		return []*model.Assessment{}, int64(len(all)), nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

var errDatabaseDown = errors.New("database is down")
