package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docrank/internal/analysis"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRanking   JobStatus = "ranking"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Upload is one input document submitted with a job.
type Upload struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a single analysis run.
type Job struct {
	mu sync.Mutex

	ID            string         `json:"job_id"`
	Persona       string         `json:"persona"`
	JobToBeDone   string         `json:"job_to_be_done"`
	ChallengeInfo map[string]any `json:"challenge_info,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	uploads []Upload
	result  *analysis.Result
	errors  []string
}

// DocumentInfo describes one parsed upload.
type DocumentInfo struct {
	Filename    string `json:"filename"`
	Pages       int    `json:"pages"`
	ContentHash string `json:"content_hash"`
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments  int            `json:"total_documents"`
	DocumentsParsed int            `json:"documents_parsed"`
	Documents       []DocumentInfo `json:"documents"`
	Sections        int            `json:"sections"`
	Subsections     int            `json:"subsections"`
	Errors          []string       `json:"errors"`
}

// NewJob creates a queued job with a fresh ID.
func NewJob(persona, jobToBeDone string, uploads []Upload) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Persona:     persona,
		JobToBeDone: jobToBeDone,
		Status:      StatusQueued,
		Phase:       "queued",
		Progress:    Progress{TotalDocuments: len(uploads)},
		CreatedAt:   now,
		UpdatedAt:   now,
		uploads:     uploads,
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

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs idle for longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetChallengeInfo attaches challenge metadata carried into the result.
func (j *Job) SetChallengeInfo(info map[string]any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ChallengeInfo = info
}

func (j *Job) challengeInfo() map[string]any {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.ChallengeInfo
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddDocument records a parsed upload.
func (j *Job) AddDocument(info DocumentInfo) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsParsed++
	j.Progress.Documents = append(j.Progress.Documents, info)
	j.UpdatedAt = time.Now()
}

// Uploads returns the submitted documents.
func (j *Job) Uploads() []Upload {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.uploads
}

// SetResult stores the finished analysis and drops the upload bytes.
func (j *Job) SetResult(res *analysis.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.uploads = nil
	j.Progress.Sections = len(res.ExtractedSections)
	j.Progress.Subsections = len(res.SubsectionAnalysis)
	j.UpdatedAt = time.Now()
}

// Result returns the analysis once the job has completed, or nil.
func (j *Job) Result() *analysis.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Persona     string    `json:"persona"`
	JobToBeDone string    `json:"job_to_be_done"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	docs := make([]DocumentInfo, len(j.Progress.Documents))
	copy(docs, j.Progress.Documents)
	return JobSnapshot{
		ID:          j.ID,
		Persona:     j.Persona,
		JobToBeDone: j.JobToBeDone,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress: Progress{
			TotalDocuments:  j.Progress.TotalDocuments,
			DocumentsParsed: j.Progress.DocumentsParsed,
			Documents:       docs,
			Sections:        j.Progress.Sections,
			Subsections:     j.Progress.Subsections,
			Errors:          errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
