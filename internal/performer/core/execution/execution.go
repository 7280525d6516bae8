package execution

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trigg3rX/triggerx-performer/internal/performer/client/oracle"
	"github.com/trigg3rX/triggerx-performer/internal/performer/config"
	"github.com/trigg3rX/triggerx-performer/internal/performer/metrics"
	"github.com/trigg3rX/triggerx-performer/internal/performer/reporting"
	"github.com/trigg3rX/triggerx-performer/pkg/client/aggregator"
	"github.com/trigg3rX/triggerx-performer/pkg/cryptography"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
	"github.com/trigg3rX/triggerx-performer/pkg/proof"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

// Submitter delivers a signed task to the aggregator.
type Submitter interface {
	SendTask(ctx context.Context, task *types.SignedTask) (*aggregator.SubmissionResult, error)
}

// TaskOutcome is everything produced by one successful pipeline run.
type TaskOutcome struct {
	Quote       types.PriceQuote
	Record      types.TaskRecord
	Payload     []byte
	MessageHash common.Hash
	Signature   []byte
	Submission  *aggregator.SubmissionResult
}

// TaskExecutor runs the fetch-encode-sign-submit pipeline for one task at a time.
type TaskExecutor struct {
	oracle     oracle.Oracle
	signer     cryptography.Signer
	submitter  Submitter
	symbol     string
	taskResult []byte
	recorder   metrics.Recorder
	reporter   reporting.Reporter
	logger     logging.Logger
}

// NewTaskExecutor creates a new instance of TaskExecutor. A nil recorder or
// reporter disables that concern.
func NewTaskExecutor(
	cfg *config.Config,
	priceOracle oracle.Oracle,
	signer cryptography.Signer,
	submitter Submitter,
	recorder metrics.Recorder,
	reporter reporting.Reporter,
	logger logging.Logger,
) *TaskExecutor {
	if recorder == nil {
		recorder = metrics.NoOpRecorder{}
	}
	if reporter == nil {
		reporter = reporting.NoOpReporter{}
	}
	return &TaskExecutor{
		oracle:     priceOracle,
		signer:     signer,
		submitter:  submitter,
		symbol:     cfg.PriceSymbol(),
		taskResult: cfg.TaskResult(),
		recorder:   recorder,
		reporter:   reporter,
		logger:     logger,
	}
}

// ExecuteTask runs one pipeline. A nil taskDefinitionID means 0. Steps run
// strictly in order and the first failure ends the run as a *StageError.
func (e *TaskExecutor) ExecuteTask(ctx context.Context, taskDefinitionID *int32) (*TaskOutcome, error) {
	var id int32
	if taskDefinitionID != nil {
		id = *taskDefinitionID
	}
	start := time.Now()
	e.recorder.TaskReceived(id)
	logger := e.logger.With("taskDefinitionId", id)
	logger.Info("Executing task")

	stageStart := time.Now()
	quote, err := e.oracle.GetPrice(ctx, e.symbol)
	if err != nil {
		return nil, e.fail(StageOracle, err, id, start)
	}
	e.recorder.StageCompleted(string(StageOracle), time.Since(stageStart))
	logger.Debug("Fetched price", "symbol", quote.Symbol, "price", quote.Price)

	// The address is one of the encoded fields, so it is derived first.
	record := types.TaskRecord{
		ProofOfTask:      quote.Price,
		Result:           append([]byte(nil), e.taskResult...),
		PerformerAddress: e.signer.Address(),
		TaskDefinitionID: id,
	}

	stageStart = time.Now()
	encoded, err := proof.EncodeAndHash(&record)
	if err != nil {
		return nil, e.fail(StageEncoding, err, id, start)
	}
	e.recorder.StageCompleted(string(StageEncoding), time.Since(stageStart))
	logger.Debug("Encoded task", "messageHash", encoded.Hash.Hex())

	stageStart = time.Now()
	signature, err := e.signer.SignHash(ctx, encoded.Hash)
	if err != nil {
		return nil, e.fail(StageSigning, err, id, start)
	}
	e.recorder.StageCompleted(string(StageSigning), time.Since(stageStart))

	signed := &types.SignedTask{
		Record:      record,
		MessageHash: encoded.Hash,
		Signature:   signature,
	}

	stageStart = time.Now()
	submission, err := e.submitter.SendTask(ctx, signed)
	e.recorder.AggregatorResponse(responseKind(err))
	if err != nil {
		return nil, e.fail(StageSubmission, err, id, start)
	}
	e.recorder.StageCompleted(string(StageSubmission), time.Since(stageStart))

	e.recorder.TaskSucceeded(time.Since(start))
	logger.Info("Task executed successfully",
		"proofOfTask", record.ProofOfTask,
		"performerAddress", record.PerformerAddress.Hex(),
		"duration", time.Since(start))

	return &TaskOutcome{
		Quote:       *quote,
		Record:      record,
		Payload:     encoded.Payload,
		MessageHash: encoded.Hash,
		Signature:   signature,
		Submission:  submission,
	}, nil
}

func (e *TaskExecutor) fail(stage Stage, err error, id int32, start time.Time) error {
	stageErr := &StageError{Stage: stage, Err: err}
	e.recorder.TaskFailed(string(stage), time.Since(start))
	e.logger.Error("Task execution failed", "stage", string(stage), "taskDefinitionId", id, "error", err)

	// Cancellation is the caller's decision, not a fault worth reporting.
	if !errors.Is(err, context.Canceled) {
		e.reporter.ReportFailure(string(stage), err, map[string]string{
			"taskDefinitionId": strconv.Itoa(int(id)),
			"symbol":           e.symbol,
		})
	}
	return stageErr
}

func responseKind(err error) string {
	if err == nil {
		return aggregator.ResponseSuccess.String()
	}
	var rpcErr *aggregator.RPCError
	switch {
	case errors.As(err, &rpcErr):
		return aggregator.ResponseProtocolError.String()
	case errors.Is(err, aggregator.ErrMalformedResponse):
		return aggregator.ResponseMalformed.String()
	default:
		return "transport"
	}
}
