package executor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/claimwise/automation/action"
	"github.com/claimwise/automation/analytics"
	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/metadata"
	"github.com/claimwise/automation/metrics"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
	"go.uber.org/zap"
)

type Executor interface {
	Start() error
	Stop() error
	Name() string
}

var _ Executor = new(ExecutionWorker)

// ExecutionWorker drains the pending queue in bounded batches. Each pass
// claims an execution atomically, runs its automation's actions through the
// dispatcher and finalizes the row; a finished dispatch loop is success
// regardless of individual action outcomes.
type ExecutionWorker struct {
	storage           persistence.Storage
	automationService metadata.AutomationService
	dispatcher        *action.Dispatcher
	batchSize         int
	pollInterval      time.Duration
	tickWorker        *util.TickWorker
	wg                *sync.WaitGroup
}

func NewExecutionWorker(storage persistence.Storage, automationService metadata.AutomationService,
	dispatcher *action.Dispatcher, batchSize int, pollInterval time.Duration, wg *sync.WaitGroup) *ExecutionWorker {
	return &ExecutionWorker{
		storage:           storage,
		automationService: automationService,
		dispatcher:        dispatcher,
		batchSize:         batchSize,
		pollInterval:      pollInterval,
		wg:                wg,
	}
}

func (w *ExecutionWorker) Start() error {
	recovered, err := w.storage.Executions().RecoverPending(context.Background())
	if err != nil {
		return err
	}
	if recovered > 0 {
		logger.Info("recovered in-flight executions to pending queue", zap.Int("count", recovered))
	}
	w.tickWorker = util.NewTickWorker(w.Name(), w.pollInterval, func() {
		w.ProcessBatch(context.Background())
	}, w.wg)
	w.tickWorker.Start()
	return nil
}

func (w *ExecutionWorker) Stop() error {
	w.tickWorker.Stop()
	return nil
}

func (w *ExecutionWorker) Name() string {
	return "execution-worker"
}

// Wake requests an immediate pass; the trigger receiver calls it after
// enqueueing so callers are acknowledged without waiting for a tick.
func (w *ExecutionWorker) Wake() {
	w.tickWorker.Wake()
}

// ProcessBatch handles up to batchSize pending executions. A failure in one
// execution never prevents the rest of the batch from running.
func (w *ExecutionWorker) ProcessBatch(ctx context.Context) {
	ids, err := w.storage.Executions().PollPending(ctx, w.batchSize)
	if err != nil {
		logger.Error("error polling pending executions", zap.Error(err))
		return
	}
	for _, id := range ids {
		w.processExecution(ctx, id)
	}
}

func (w *ExecutionWorker) processExecution(ctx context.Context, id string) {
	claimed, err := w.storage.Executions().Claim(ctx, id)
	if err != nil {
		// Claim failures are transient storage errors; put the id back so a
		// later pass retries instead of stranding the execution.
		logger.Error("error claiming execution, requeueing", zap.String("executionId", id), zap.Error(err))
		if rqErr := w.storage.Executions().Requeue(ctx, id); rqErr != nil {
			logger.Error("error requeueing execution", zap.String("executionId", id), zap.Error(rqErr))
		}
		return
	}
	if !claimed {
		logger.Debug("execution already claimed by another worker", zap.String("executionId", id))
		if ackErr := w.storage.Executions().Ack(ctx, id); ackErr != nil {
			logger.Error("error acking claimed execution", zap.String("executionId", id), zap.Error(ackErr))
		}
		return
	}

	execution, err := w.storage.Executions().Get(ctx, id)
	if err != nil {
		w.markFailed(ctx, id, "", err.Error())
		return
	}
	automation, err := w.automationService.GetAutomation(ctx, execution.AutomationId)
	if err != nil {
		w.markFailed(ctx, id, execution.AutomationId, err.Error())
		return
	}
	if !automation.IsActive {
		w.markFailed(ctx, id, automation.Id, "automation "+automation.Id+" is not active")
		return
	}

	// A missing subject record is not fatal; handlers that need it fail
	// individually.
	var claim *model.Claim
	if execution.ClaimId != "" {
		claim, err = w.storage.Claims().Get(ctx, execution.ClaimId)
		if err != nil {
			var notFound persistence.NotFoundError
			if !errors.As(err, &notFound) {
				logger.Error("error loading claim", zap.String("executionId", id), zap.String("claimId", execution.ClaimId), zap.Error(err))
			}
			claim = nil
		}
	}

	ec := &action.ExecutionContext{
		ExecutionId:  execution.Id,
		AutomationId: automation.Id,
		ClaimId:      execution.ClaimId,
		Claim:        claim,
		TriggerData:  execution.TriggerData,
	}
	results := w.dispatcher.Dispatch(ctx, automation.Actions, ec)

	err = w.storage.Executions().MarkSucceeded(ctx, id, model.ExecutionResult{Actions: results}, time.Now())
	if err != nil {
		logger.Error("error finalizing execution", zap.String("executionId", id), zap.Error(err))
		return
	}
	metrics.ExecutionsProcessed.WithLabelValues(string(model.EXECUTION_SUCCESS)).Inc()
	analytics.RecordExecution(automation.Id, id, string(model.EXECUTION_SUCCESS))
	logger.Info("execution finished", zap.String("executionId", id), zap.String("automationId", automation.Id), zap.Int("actions", len(results)))
}

func (w *ExecutionWorker) markFailed(ctx context.Context, id string, automationId string, message string) {
	logger.Error("execution failed", zap.String("executionId", id), zap.String("error", message))
	if err := w.storage.Executions().MarkFailed(ctx, id, message, time.Now()); err != nil {
		logger.Error("error marking execution failed", zap.String("executionId", id), zap.Error(err))
		return
	}
	metrics.ExecutionsProcessed.WithLabelValues(string(model.EXECUTION_FAILED)).Inc()
	analytics.RecordExecution(automationId, id, string(model.EXECUTION_FAILED))
}
