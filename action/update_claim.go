package action

import (
	"context"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
)

type updateClaimConfig struct {
	Fields map[string]any `mapstructure:"fields"`
}

type updateClaimHandler struct {
	claims persistence.ClaimDao
}

var _ Handler = new(updateClaimHandler)

func NewUpdateClaimHandler(claims persistence.ClaimDao) *updateClaimHandler {
	return &updateClaimHandler{claims: claims}
}

func (h *updateClaimHandler) Type() model.ActionType {
	return model.ACTION_TYPE_UPDATE_CLAIM
}

func (h *updateClaimHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[updateClaimConfig](config)
	if err != nil {
		return nil, err
	}
	if len(cfg.Fields) == 0 {
		return nil, ValidationError{Message: "update_claim requires a fields map"}
	}
	if ec.ClaimId == "" {
		return nil, ValidationError{Message: "update_claim requires a claim"}
	}
	if err := h.claims.Update(ctx, ec.ClaimId, cfg.Fields); err != nil {
		return nil, err
	}
	updated := make([]string, 0, len(cfg.Fields))
	for k := range cfg.Fields {
		updated = append(updated, k)
	}
	return map[string]any{"updated_fields": updated}, nil
}
