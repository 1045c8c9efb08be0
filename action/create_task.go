package action

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
)

type createTaskConfig struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Priority    string `mapstructure:"priority"`
	DueInDays   int    `mapstructure:"due_in_days"`
	DueDateType string `mapstructure:"due_date_type"`
}

type createTaskHandler struct {
	tasks persistence.TaskDao
}

var _ Handler = new(createTaskHandler)

func NewCreateTaskHandler(tasks persistence.TaskDao) *createTaskHandler {
	return &createTaskHandler{tasks: tasks}
}

func (h *createTaskHandler) Type() model.ActionType {
	return model.ACTION_TYPE_CREATE_TASK
}

func (h *createTaskHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[createTaskConfig](config)
	if err != nil {
		return nil, err
	}
	if ec.Claim == nil {
		return nil, ValidationError{Message: "create_task requires a claim"}
	}
	priority := model.TaskPriority(cfg.Priority)
	if priority == "" {
		priority = model.TASK_PRIORITY_MEDIUM
	}
	task := model.Task{
		Id:          uuid.NewString(),
		ClaimId:     ec.Claim.Id,
		Title:       ec.Render(cfg.Title),
		Description: ec.Render(cfg.Description),
		Priority:    priority,
		DueDate:     util.DueDate(time.Now(), cfg.DueInDays, util.ToOffsetType(cfg.DueDateType)),
		Status:      "pending",
		CreatedAt:   time.Now(),
	}
	if err := h.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return map[string]any{"task_id": task.Id, "due_date": task.DueDate.Format("2006-01-02")}, nil
}
