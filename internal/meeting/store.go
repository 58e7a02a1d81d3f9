package meeting

import (
	"context"
	"sort"
	"sync"

	"recap/internal/services"
)

// Store persists pipeline jobs keyed by id. Implementations must support
// concurrent insert and read; jobs never share mutable state, so no
// cross-job locking is required of callers.
type Store interface {
	Put(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context) ([]*Job, error)
}

// MemoryStore keeps jobs in process memory for the daemon's lifetime.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore constructs an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

// Put inserts or replaces the stored snapshot of a job.
func (s *MemoryStore) Put(ctx context.Context, job *Job) error {
	if job == nil || job.ID == "" {
		return services.Wrap(services.ErrValidation, "store", "put", "job id required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "store", "get", "unknown job "+id, nil)
	}
	return job.Clone(), nil
}

// List returns snapshots of all jobs ordered by creation time.
func (s *MemoryStore) List(ctx context.Context) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs, nil
}
