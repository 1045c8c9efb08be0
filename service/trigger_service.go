package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/metadata"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"go.uber.org/zap"
)

type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Waker is the worker surface the trigger path needs: a nudge to run a
// poll pass now instead of on the next tick.
type Waker interface {
	Wake()
}

// AutomationTriggerService validates an inbound trigger and enqueues one
// execution. It never waits for the execution to run.
type AutomationTriggerService struct {
	storage           persistence.Storage
	automationService metadata.AutomationService
	worker            Waker
}

func NewAutomationTriggerService(storage persistence.Storage, automationService metadata.AutomationService, worker Waker) *AutomationTriggerService {
	return &AutomationTriggerService{
		storage:           storage,
		automationService: automationService,
		worker:            worker,
	}
}

func (s *AutomationTriggerService) Trigger(ctx context.Context, req model.TriggerRequest) (string, error) {
	if req.AutomationId == "" {
		return "", ValidationError{Message: "automation_id is required"}
	}
	automation, err := s.automationService.GetAutomation(ctx, req.AutomationId)
	if err != nil {
		return "", err
	}
	if !automation.IsActive || automation.TriggerType != model.TRIGGER_TYPE_WEBHOOK {
		return "", persistence.NotFoundError{Kind: "automation", Id: req.AutomationId}
	}

	triggerData := req.TriggerData
	if triggerData == nil {
		triggerData = make(map[string]any)
	}
	execution := model.Execution{
		Id:           uuid.NewString(),
		AutomationId: automation.Id,
		ClaimId:      req.ClaimId,
		TriggerData:  triggerData,
		Status:       model.EXECUTION_PENDING,
		CreatedAt:    time.Now(),
	}
	if err := s.storage.Executions().Create(ctx, execution); err != nil {
		return "", err
	}
	logger.Info("execution enqueued", zap.String("executionId", execution.Id), zap.String("automationId", automation.Id))
	s.worker.Wake()
	return execution.Id, nil
}

func (s *AutomationTriggerService) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	return s.storage.Executions().Get(ctx, id)
}
