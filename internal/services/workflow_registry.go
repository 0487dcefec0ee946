package services

import (
	"sync"
	"time"
)

// WorkflowRegistry tracks live runs so the HTTP layer can look them up by id.
// Terminal runs linger for Retention so the dashboard can still read the
// outcome, then drop out.
type WorkflowRegistry struct {
	Retention time.Duration

	mu   sync.Mutex
	runs map[string]*WorkflowRun
}

func NewWorkflowRegistry(retention time.Duration) *WorkflowRegistry {
	if retention <= 0 {
		retention = 30 * time.Minute
	}
	return &WorkflowRegistry{
		Retention: retention,
		runs:      make(map[string]*WorkflowRun),
	}
}

func (r *WorkflowRegistry) Put(run *WorkflowRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
}

func (r *WorkflowRegistry) Get(id string) (*WorkflowRun, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	return run, ok
}

// Expire schedules removal of a finished run after the retention window.
func (r *WorkflowRegistry) Expire(id string) {
	time.AfterFunc(r.Retention, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.runs, id)
	})
}
