package handlers

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trigg3rX/triggerx-performer/internal/performer/core/execution"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

// TaskExecutor runs one attestation pipeline.
type TaskExecutor interface {
	ExecuteTask(ctx context.Context, taskDefinitionID *int32) (*execution.TaskOutcome, error)
}

// TaskHandler handles task-related requests
type TaskHandler struct {
	logger         logging.Logger
	executor       TaskExecutor
	requestTimeout time.Duration
}

// NewTaskHandler creates a new task handler. A zero requestTimeout leaves the
// request context as the only deadline.
func NewTaskHandler(logger logging.Logger, executor TaskExecutor, requestTimeout time.Duration) *TaskHandler {
	return &TaskHandler{
		logger:         logger,
		executor:       executor,
		requestTimeout: requestTimeout,
	}
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version   string
	performer common.Address
	startTime time.Time
}

func NewHealthHandler(version string, performer common.Address) *HealthHandler {
	return &HealthHandler{
		version:   version,
		performer: performer,
		startTime: time.Now(),
	}
}
