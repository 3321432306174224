package model

import (
	"sync"
)

// JobStatus represents the status of an async manual check
type JobStatus struct {
	JobID         string      `json:"job_id"`
	Status        string      `json:"status"` // "queued", "processing", "completed", "failed"
	CorrelationID string      `json:"correlation_id,omitempty"`
	Error         string      `json:"error,omitempty"`
	Result        *RunSummary `json:"result,omitempty"`
}

// JobStatusStore is an in-memory store for async job statuses. Statuses are
// stored and returned by value so readers never share memory with the
// goroutine running the check; all mutation goes through Update.
type JobStatusStore struct {
	mu   sync.RWMutex
	jobs map[string]JobStatus
}

// NewJobStatusStore creates a new job status store
func NewJobStatusStore() *JobStatusStore {
	return &JobStatusStore{
		jobs: make(map[string]JobStatus),
	}
}

// Set stores a job status
func (s *JobStatusStore) Set(jobID string, status JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = status
}

// Get retrieves a copy of a job status
func (s *JobStatusStore) Get(jobID string) (JobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, exists := s.jobs[jobID]
	return status, exists
}

// Update applies fn to the stored status under the write lock. Returns false
// if no status exists for the job ID.
func (s *JobStatusStore) Update(jobID string, fn func(*JobStatus)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, exists := s.jobs[jobID]
	if !exists {
		return false
	}
	fn(&status)
	s.jobs[jobID] = status
	return true
}

// Delete removes a job status
func (s *JobStatusStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}
