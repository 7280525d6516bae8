package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trigg3rX/triggerx-performer/pkg/cryptography"
	httppkg "github.com/trigg3rX/triggerx-performer/pkg/http"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

// BuildSendTaskParams returns the positional sendTask parameters:
// proofOfTask, 0x-hex result, taskDefinitionId, checksummed performer address
// and 0x-hex signature.
func BuildSendTaskParams(task *types.SignedTask) []interface{} {
	result := task.Record.Result
	if result == nil {
		result = []byte{}
	}
	return []interface{}{
		task.Record.ProofOfTask,
		hexutil.Bytes(result),
		task.Record.TaskDefinitionID,
		task.Record.PerformerAddress.Hex(),
		cryptography.FormatSignature(task.Signature),
	}
}

// SendTask submits a signed task to the aggregator. It makes exactly one
// request and performs no retry or deduplication.
func (c *AggregatorClient) SendTask(ctx context.Context, task *types.SignedTask) (*SubmissionResult, error) {
	if task == nil {
		return nil, ErrInvalidTask
	}
	if len(task.Signature) == 0 {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidTask)
	}

	c.logger.Debug("Sending task to aggregator",
		"taskDefinitionId", task.Record.TaskDefinitionID,
		"proofOfTask", task.Record.ProofOfTask,
		"performerAddress", task.Record.PerformerAddress.Hex())

	payload := jsonRPCRequest{
		JSONRPC: JSONRPCVersion,
		Method:  MethodSendTask,
		Params:  BuildSendTaskParams(task),
		ID:      DefaultRequestID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshalFailed, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Post(ctx, c.config.AggregatorRPCUrl, "application/json", bytes.NewReader(body))
	if err != nil {
		if isDialError(err) {
			c.logger.Error("Failed to dial aggregator RPC", "url", c.config.AggregatorRPCUrl, "error", err)
			return nil, fmt.Errorf("%w: failed to dial aggregator RPC: %w", ErrRPCFailed, err)
		}
		c.logger.Error("Failed to send task", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRPCFailed, err)
	}

	respBody, err := c.httpClient.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRPCFailed, err)
	}
	duration := time.Since(start)

	decoded := DecodeResponse(respBody)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decoded.Kind == ResponseProtocolError {
			c.logger.Error("Aggregator rejected task", "status", resp.StatusCode, "code", decoded.Error.Code, "message", decoded.Error.Message)
			return nil, decoded.Err()
		}
		c.logger.Error("Aggregator returned non-2xx status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", ErrRPCFailed, &httppkg.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(truncate(respBody, 256)),
		})
	}

	switch decoded.Kind {
	case ResponseSuccess:
		c.logger.Info("Successfully sent task to aggregator",
			"taskDefinitionId", task.Record.TaskDefinitionID,
			"proofOfTask", task.Record.ProofOfTask,
			"result", string(decoded.Result),
			"duration", duration)
		return &SubmissionResult{
			Result:     decoded.Result,
			StatusCode: resp.StatusCode,
			Duration:   duration,
		}, nil
	case ResponseProtocolError:
		c.logger.Error("Aggregator returned RPC error", "code", decoded.Error.Code, "message", decoded.Error.Message)
	default:
		c.logger.Error("Aggregator returned malformed response", "body", string(truncate(respBody, 256)))
	}
	return nil, decoded.Err()
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
