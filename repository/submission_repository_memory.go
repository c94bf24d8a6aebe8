package repository

import (
	"context"
	"sync"

	"ecopulse/domain"
)

// SubmissionRepositoryMemory is an in-memory implementation of SubmissionRepository.
// It keeps counts only, so memory stays constant however many submissions arrive.
type SubmissionRepositoryMemory struct {
	mu     sync.RWMutex
	total  int
	byKind map[domain.SubmissionKind]int
}

// NewSubmissionRepositoryMemory creates a new in-memory submission log.
func NewSubmissionRepositoryMemory() *SubmissionRepositoryMemory {
	return &SubmissionRepositoryMemory{
		byKind: map[domain.SubmissionKind]int{
			domain.SubmissionFile:  0,
			domain.SubmissionURL:   0,
			domain.SubmissionEmpty: 0,
		},
	}
}

// Save counts the submission.
func (r *SubmissionRepositoryMemory) Save(
	_ context.Context,
	submission domain.Submission,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	r.byKind[submission.Kind]++
	return nil
}

// Stats returns a copy of the counters.
func (r *SubmissionRepositoryMemory) Stats(_ context.Context) (domain.SubmissionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byKind := make(map[domain.SubmissionKind]int, len(r.byKind))
	for kind, n := range r.byKind {
		byKind[kind] = n
	}
	return domain.SubmissionStats{
		Submissions: r.total,
		ByKind:      byKind,
	}, nil
}
