// Package provider wraps the external delivery capabilities the engine
// calls. Each provider is a thin JSON-over-HTTP client behind an interface
// so handlers and tests never depend on a concrete transport.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Attachment struct {
	Filename string `json:"filename"`
	// Content is the base64 encoded file body.
	Content string `json:"content"`
}

type EmailResult struct {
	Id string `json:"id"`
}

type EmailSender interface {
	Send(ctx context.Context, from string, to string, subject string, html string, attachments []Attachment) (*EmailResult, error)
}

type HttpEmailConfig struct {
	Endpoint string
	ApiKey   string
}

type httpEmailSender struct {
	conf   HttpEmailConfig
	client *http.Client
}

var _ EmailSender = new(httpEmailSender)

func NewHttpEmailSender(conf HttpEmailConfig) *httpEmailSender {
	return &httpEmailSender{
		conf:   conf,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpEmailSender) Send(ctx context.Context, from string, to string, subject string, html string, attachments []Attachment) (*EmailResult, error) {
	payload := map[string]any{
		"from":    from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}
	if len(attachments) > 0 {
		payload["attachments"] = attachments
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.conf.ApiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("email provider returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	var result EmailResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
