package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type SMSResult struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type SMSSender interface {
	Send(ctx context.Context, to string, from string, body string) (*SMSResult, error)
}

type HttpSMSConfig struct {
	Endpoint string
	ApiKey   string
}

type httpSMSSender struct {
	conf   HttpSMSConfig
	client *http.Client
}

var _ SMSSender = new(httpSMSSender)

func NewHttpSMSSender(conf HttpSMSConfig) *httpSMSSender {
	return &httpSMSSender{
		conf:   conf,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpSMSSender) Send(ctx context.Context, to string, from string, body string) (*SMSResult, error) {
	payload := map[string]any{
		"to":   to,
		"from": from,
		"body": body,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf.Endpoint, bytes.NewReader(data))
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
		return nil, fmt.Errorf("sms provider returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	var result SMSResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
