package action

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/template"
)

// Handler performs the side effect of one action kind.
type Handler interface {
	Type() model.ActionType
	Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error)
}

// ExecutionContext carries everything one execution exposes to its actions.
// Claim is nil when the execution has no subject or the record is missing;
// handlers that need it fail individually.
type ExecutionContext struct {
	ExecutionId  string
	AutomationId string
	ClaimId      string
	Claim        *model.Claim
	TriggerData  map[string]any
}

func (ec *ExecutionContext) Render(tpl string) string {
	return template.Render(tpl, ec.Claim, ec.TriggerData)
}

type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type ProviderError struct {
	Provider string
	Message  string
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

func decodeConfig[T any](config map[string]any) (*T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(config); err != nil {
		return nil, ValidationError{Message: fmt.Sprintf("invalid action config: %v", err)}
	}
	return &out, nil
}
