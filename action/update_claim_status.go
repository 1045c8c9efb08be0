package action

import (
	"context"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
)

type updateClaimStatusConfig struct {
	NewStatus string `mapstructure:"new_status"`
}

type updateClaimStatusHandler struct {
	claims persistence.ClaimDao
}

var _ Handler = new(updateClaimStatusHandler)

func NewUpdateClaimStatusHandler(claims persistence.ClaimDao) *updateClaimStatusHandler {
	return &updateClaimStatusHandler{claims: claims}
}

func (h *updateClaimStatusHandler) Type() model.ActionType {
	return model.ACTION_TYPE_UPDATE_CLAIM_STATUS
}

func (h *updateClaimStatusHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[updateClaimStatusConfig](config)
	if err != nil {
		return nil, err
	}
	if cfg.NewStatus == "" {
		return nil, ValidationError{Message: "update_claim_status requires new_status"}
	}
	if ec.ClaimId == "" {
		return nil, ValidationError{Message: "update_claim_status requires a claim"}
	}
	if err := h.claims.Update(ctx, ec.ClaimId, map[string]any{"status": cfg.NewStatus}); err != nil {
		return nil, err
	}
	return map[string]any{"status": cfg.NewStatus}, nil
}
