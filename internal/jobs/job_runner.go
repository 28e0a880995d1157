package jobs

import (
	"fmt"
	"time"

	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/metrics"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/service"
	"docs-approval-backend/internal/storage"
)

// Job names accepted by -run-once
const (
	JobPurgeTransientFiles       = "purge-transient-files"
	JobPendingRegistrationDigest = "pending-registration-digest"
	JobAll                       = "all"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store  repository.Store
	files  storage.FileStore
	email  service.EmailService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, files storage.FileStore, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:  store,
		files:  files,
		email:  email,
		config: cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the outcome
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		metrics.RecordSchedulerJob(jobName, err)
		if err != nil {
			logger.Error("Job failed", "job", jobName, "error", err, "duration_ms", time.Since(start).Milliseconds())
			return
		}
		logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
	}()

	logger.Info("Starting job", "job", jobName)
	return jobFunc()
}

// Run executes a job by name. It returns an error for unknown names.
func (jr *JobRunner) Run(jobName string) error {
	switch jobName {
	case JobPurgeTransientFiles:
		return jr.PurgeTransientFiles()
	case JobPendingRegistrationDigest:
		return jr.SendPendingRegistrationDigest()
	case JobAll:
		return jr.RunAll()
	default:
		return fmt.Errorf("unknown job %q", jobName)
	}
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() error {
	purgeErr := jr.PurgeTransientFiles()
	digestErr := jr.SendPendingRegistrationDigest()
	if purgeErr != nil {
		return purgeErr
	}
	return digestErr
}
