package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/claimwise/automation/model"
)

type webhookConfig struct {
	Url     string            `mapstructure:"url"`
	Method  string            `mapstructure:"method"`
	Headers map[string]string `mapstructure:"headers"`
}

type webhookHandler struct {
	client *http.Client
}

var _ Handler = new(webhookHandler)

func NewWebhookHandler() *webhookHandler {
	return &webhookHandler{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *webhookHandler) Type() model.ActionType {
	return model.ACTION_TYPE_WEBHOOK
}

func (h *webhookHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[webhookConfig](config)
	if err != nil {
		return nil, err
	}
	if cfg.Url == "" {
		return nil, ValidationError{Message: "webhook requires a url"}
	}
	method := cfg.Method
	if method == "" {
		method = http.MethodPost
	}

	payload := map[string]any{
		"execution_id":  ec.ExecutionId,
		"claim_id":      ec.ClaimId,
		"trigger_data":  ec.TriggerData,
		"automation_id": ec.AutomationId,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, cfg.Url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ProviderError{Provider: "webhook", Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ProviderError{
			Provider: "webhook",
			Message:  fmt.Sprintf("%s %s returned %d %s", method, cfg.Url, resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}
	return map[string]any{"status_code": resp.StatusCode, "url": cfg.Url}, nil
}
