package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document analysis run.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`

	Stages map[Stage]State `json:"stages"`
	Error  string          `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	text   string
	result *DocumentResult
}

// NewJob creates a queued job for the given document text.
func NewJob(id, filename, text string) *Job {
	now := time.Now()
	return &Job{
		ID:       id,
		Filename: filename,
		Status:   StatusQueued,
		Stages: map[Stage]State{
			StagePreprocessing: StatePending,
			StageSummary:       StatePending,
			StageAction:        StatePending,
			StageRisk:          StatePending,
		},
		CreatedAt: now,
		UpdatedAt: now,
		text:      text,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetStage records a stage transition.
func (j *Job) SetStage(stage Stage, state State) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Stages[stage] = state
	j.UpdatedAt = time.Now()
}

// SetError records a failure message.
func (j *Job) SetError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished result.
func (j *Job) SetResult(res *DocumentResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.UpdatedAt = time.Now()
}

// Result returns the finished result, or nil while the job is running.
func (j *Job) Result() *DocumentResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Text returns the document text to analyze.
func (j *Job) Text() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.text
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string          `json:"job_id"`
	Filename  string          `json:"filename"`
	Status    JobStatus       `json:"status"`
	Stages    map[Stage]State `json:"stages"`
	Error     string          `json:"error,omitempty"`
	HasResult bool            `json:"has_result"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	stages := make(map[Stage]State, len(j.Stages))
	for k, v := range j.Stages {
		stages[k] = v
	}
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Stages:    stages,
		Error:     j.Error,
		HasResult: j.result != nil,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
