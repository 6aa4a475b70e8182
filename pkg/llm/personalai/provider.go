// Package personalai talks to the Personal.AI message API, the primary
// conversational backend.
package personalai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pilotpro/pkg/llm"
)

type Provider struct {
	BaseURL    string
	APIKey     string
	DomainName string
	Client     *http.Client
}

var _ llm.Provider = (*Provider)(nil)

func New(baseURL, apiKey, domainName string, timeout time.Duration) *Provider {
	return &Provider{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		DomainName: domainName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type messageRequest struct {
	Text       string `json:"Text"`
	DomainName string `json:"DomainName,omitempty"`
	Context    string `json:"Context,omitempty"`
}

type messageResponse struct {
	AiMessage string   `json:"ai_message"`
	AiScore   *float64 `json:"ai_score"`
}

func (p *Provider) Name() string {
	return "personal.ai"
}

func (p *Provider) Send(ctx context.Context, req llm.Request) (string, error) {
	payload := messageRequest{
		Text:       req.Text,
		DomainName: p.DomainName,
		Context:    req.Context,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/message"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("x-api-key", p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("personal.ai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("personal.ai error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var msgResp messageResponse
	if err := json.Unmarshal(bodyBytes, &msgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if msgResp.AiMessage == "" {
		return "", fmt.Errorf("personal.ai returned an empty reply")
	}
	return msgResp.AiMessage, nil
}
