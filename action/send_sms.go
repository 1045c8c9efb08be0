package action

import (
	"context"
	"fmt"
	"time"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/provider"
	"go.uber.org/zap"
)

type sendSMSConfig struct {
	RecipientType string `mapstructure:"recipient_type"`
	Message       string `mapstructure:"message"`
}

type sendSMSHandler struct {
	sms      provider.SMSSender
	activity persistence.ActivityDao
	from     string
}

var _ Handler = new(sendSMSHandler)

func NewSendSMSHandler(sms provider.SMSSender, activity persistence.ActivityDao, from string) *sendSMSHandler {
	return &sendSMSHandler{
		sms:      sms,
		activity: activity,
		from:     from,
	}
}

func (h *sendSMSHandler) Type() model.ActionType {
	return model.ACTION_TYPE_SEND_SMS
}

func (h *sendSMSHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[sendSMSConfig](config)
	if err != nil {
		return nil, err
	}
	to, err := resolveRecipient(ec, cfg.RecipientType, "phone")
	if err != nil {
		return nil, err
	}
	message := ec.Render(cfg.Message)

	result, err := h.sms.Send(ctx, to, h.from, message)
	if err != nil {
		return nil, ProviderError{Provider: "sms", Message: err.Error()}
	}

	if ec.Claim != nil {
		entry := model.ActivityEntry{
			ClaimId:   ec.Claim.Id,
			Message:   fmt.Sprintf("sms sent to %s", to),
			Type:      "sms_sent",
			CreatedAt: time.Now(),
		}
		if err := h.activity.Append(ctx, entry); err != nil {
			logger.Error("error logging sent sms", zap.String("claimId", ec.Claim.Id), zap.Error(err))
		}
	}
	return map[string]any{"sms_id": result.Id, "status": result.Status, "to": to}, nil
}
