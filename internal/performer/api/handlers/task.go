package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trigg3rX/triggerx-performer/internal/performer/core/execution"
	"github.com/trigg3rX/triggerx-performer/pkg/cryptography"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

const (
	MessageTaskExecuted   = "Task executed successfully"
	MessageNetworkError   = "Network error occurred"
	MessageSubmitFailed   = "Failed to submit task to aggregator"
	MessageInternalError  = "Task execution failed"
	MessageTimeout        = "Task execution timed out"
	MessageInvalidRequest = "Invalid JSON body"

	maxRequestBodyBytes = 1 << 16
)

// ExecuteTask handles POST /task/execute. The body is optional; a missing
// taskDefinitionId is treated as 0.
func (h *TaskHandler) ExecuteTask(c *gin.Context) {
	request, err := parseExecuteRequest(c.Request.Body)
	if err != nil {
		h.logger.Warn("Rejected task request", "error", err)
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   MessageInvalidRequest,
			Details: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	outcome, err := h.executor.ExecuteTask(ctx, request.TaskDefinitionID)
	if err != nil {
		status, message := statusForError(err)
		c.JSON(status, types.ErrorResponse{
			Error:   message,
			Details: err.Error(),
		})
		return
	}

	response := types.ExecuteTaskResponse{
		Message:          MessageTaskExecuted,
		ProofOfTask:      outcome.Record.ProofOfTask,
		TaskDefinitionID: outcome.Record.TaskDefinitionID,
		PerformerAddress: outcome.Record.PerformerAddress.Hex(),
		MessageHash:      outcome.MessageHash.Hex(),
		Signature:        cryptography.FormatSignature(outcome.Signature),
	}
	if outcome.Submission != nil && len(outcome.Submission.Result) > 0 {
		response.Result = outcome.Submission.Result
	}
	c.JSON(http.StatusOK, response)
}

func parseExecuteRequest(body io.Reader) (types.ExecuteTaskRequest, error) {
	var request types.ExecuteTaskRequest
	if body == nil {
		return request, nil
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxRequestBodyBytes))
	if err != nil {
		return request, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return request, nil
	}
	if err := json.Unmarshal(raw, &request); err != nil {
		return request, err
	}
	return request, nil
}

func statusForError(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, MessageTimeout
	}
	stage, _ := execution.FailedStage(err)
	switch stage {
	case execution.StageOracle:
		return http.StatusServiceUnavailable, MessageNetworkError
	case execution.StageSubmission:
		return http.StatusBadGateway, MessageSubmitFailed
	default:
		return http.StatusInternalServerError, MessageInternalError
	}
}
