package store

import (
	"context"
	"sort"
	"sync"

	"coursetrack/engine"
	"coursetrack/models/progress"
)

// MemoryStore keeps progress records in process memory with the same
// per-key serialization guarantees as the database-backed store. Used
// in tests and for single-node deployments without a database.
type MemoryStore struct {
	mu      sync.Mutex
	records map[engine.ProgressKey]*progress.Record
	locks   map[engine.ProgressKey]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[engine.ProgressKey]*progress.Record),
		locks:   make(map[engine.ProgressKey]*sync.Mutex),
	}
}

func (s *MemoryStore) keyLock(key engine.ProgressKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *MemoryStore) Get(ctx context.Context, learnerID, courseID uint) (*progress.Record, error) {
	key := engine.ProgressKey{LearnerID: learnerID, CourseID: courseID}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return progress.NewRecord(learnerID, courseID), nil
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) AtomicUpdate(ctx context.Context, learnerID, courseID uint, fn engine.Mutator) (*progress.Record, error) {
	key := engine.ProgressKey{LearnerID: learnerID, CourseID: courseID}
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	current, ok := s.records[key]
	s.mu.Unlock()

	// Mutate a copy; the swap below is all-or-nothing.
	next := progress.NewRecord(learnerID, courseID)
	if ok {
		next = current.Clone()
	}
	if err := fn(next); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.records[key] = next
	s.mu.Unlock()
	return next.Clone(), nil
}

func (s *MemoryStore) ListCompletedUncertified(ctx context.Context) ([]engine.ProgressKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []engine.ProgressKey
	for key, rec := range s.records {
		if rec.IsCompleted && rec.Certificate == nil {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LearnerID != keys[j].LearnerID {
			return keys[i].LearnerID < keys[j].LearnerID
		}
		return keys[i].CourseID < keys[j].CourseID
	})
	return keys, nil
}

func (s *MemoryStore) ListCertified(ctx context.Context, learnerID uint) ([]*progress.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recs []*progress.Record
	for key, rec := range s.records {
		if key.LearnerID == learnerID && rec.Certificate != nil {
			recs = append(recs, rec.Clone())
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Certificate.IssuedAt.After(recs[j].Certificate.IssuedAt)
	})
	return recs, nil
}
