package action

import (
	"context"
	"fmt"
	"time"

	"github.com/claimwise/automation/analytics"
	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/metrics"
	"github.com/claimwise/automation/model"
	"go.uber.org/zap"
)

// Dispatcher runs an automation's actions strictly in configured order.
// Failures are isolated per action: an error, an unknown kind or a panic
// becomes a failing ActionResult and the loop moves on.
type Dispatcher struct {
	handlers      map[model.ActionType]Handler
	actionTimeout time.Duration
}

// NewDispatcher registers the given handlers. actionTimeout bounds each
// handler call; zero disables the bound.
func NewDispatcher(actionTimeout time.Duration, handlers ...Handler) *Dispatcher {
	hm := make(map[model.ActionType]Handler, len(handlers))
	for _, h := range handlers {
		hm[h.Type()] = h
	}
	return &Dispatcher{
		handlers:      hm,
		actionTimeout: actionTimeout,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, actions []model.ActionDef, ec *ExecutionContext) []model.ActionResult {
	results := make([]model.ActionResult, 0, len(actions))
	for _, def := range actions {
		result := d.runAction(ctx, def, ec)
		if result.Success {
			metrics.ActionsExecuted.WithLabelValues(string(def.Type), "success").Inc()
			analytics.RecordActionSuccess(ec.AutomationId, ec.ExecutionId, string(def.Type), result.Result)
		} else {
			metrics.ActionsExecuted.WithLabelValues(string(def.Type), "failure").Inc()
			analytics.RecordActionFailure(ec.AutomationId, ec.ExecutionId, string(def.Type), result.Error)
			logger.Error("action failed",
				zap.String("executionId", ec.ExecutionId),
				zap.String("actionType", string(def.Type)),
				zap.String("error", result.Error))
		}
		results = append(results, result)
	}
	return results
}

func (d *Dispatcher) runAction(ctx context.Context, def model.ActionDef, ec *ExecutionContext) (result model.ActionResult) {
	result = model.ActionResult{ActionType: def.Type}
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Result = nil
			result.Error = fmt.Sprintf("action panic: %v", r)
		}
	}()

	handler, ok := d.handlers[def.Type]
	if !ok {
		result.Error = fmt.Sprintf("unknown action type %s", def.Type)
		return result
	}

	if d.actionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.actionTimeout)
		defer cancel()
	}

	out, err := handler.Execute(ctx, def.Config, ec)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.Result = out
	return result
}

// ValidateAutomation checks every action kind is known; the authoring
// surface calls this before activating a rule.
func (d *Dispatcher) ValidateAutomation(automation model.Automation) error {
	for i, def := range automation.Actions {
		if _, ok := d.handlers[def.Type]; !ok {
			return ValidationError{Message: fmt.Sprintf("action %d has unknown type %s", i, def.Type)}
		}
	}
	return nil
}
