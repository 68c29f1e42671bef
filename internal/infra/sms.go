package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSClient posts messages to the store's SMS gateway.
type SMSClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// SMSMessage is the gateway request body.
type SMSMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// SMSResult is the gateway response body.
type SMSResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewSMSClient creates a gateway client with a 30s timeout.
func NewSMSClient(baseURL, token string) *SMSClient {
	return &SMSClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether a gateway URL is configured.
func (c *SMSClient) Enabled() bool { return c.baseURL != "" }

// Send posts one message to {baseURL}/send.
func (c *SMSClient) Send(ctx context.Context, to, text string) (*SMSResult, error) {
	body, err := json.Marshal(SMSMessage{To: to, Text: text})
	if err != nil {
		return nil, fmt.Errorf("sms: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sms: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sms: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sms: gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var result SMSResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("sms: decode response: %w", err)
		}
	}
	if result.Error != "" {
		return &result, fmt.Errorf("sms: gateway error: %s", result.Error)
	}
	return &result, nil
}
