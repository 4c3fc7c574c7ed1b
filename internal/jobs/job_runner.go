package jobs

import (
	"campus-reserve-backend/internal/config"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	registration service.RegistrationService
	config       *config.Config
}

func NewJobRunner(registration service.RegistrationService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		registration: registration,
		config:       cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
