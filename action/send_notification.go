package action

import (
	"context"
	"time"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
)

type sendNotificationConfig struct {
	Message string `mapstructure:"message"`
}

type sendNotificationHandler struct {
	activity persistence.ActivityDao
}

var _ Handler = new(sendNotificationHandler)

func NewSendNotificationHandler(activity persistence.ActivityDao) *sendNotificationHandler {
	return &sendNotificationHandler{activity: activity}
}

func (h *sendNotificationHandler) Type() model.ActionType {
	return model.ACTION_TYPE_SEND_NOTIFICATION
}

func (h *sendNotificationHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[sendNotificationConfig](config)
	if err != nil {
		return nil, err
	}
	if ec.Claim == nil {
		return nil, ValidationError{Message: "send_notification requires a claim"}
	}
	message := ec.Render(cfg.Message)
	entry := model.ActivityEntry{
		ClaimId:   ec.Claim.Id,
		Message:   message,
		Type:      "notification",
		CreatedAt: time.Now(),
	}
	if err := h.activity.Append(ctx, entry); err != nil {
		return nil, err
	}
	return map[string]any{"message": message}, nil
}
