package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DashScopeProvider posts raw JSON to DashScope's text-generation endpoint.
// The response nests the assistant text under output.choices[0].message.content.
type DashScopeProvider struct {
	name       string
	cfg        ProviderConfig
	httpClient *http.Client
}

// NewDashScopeProvider constructs a provider named name from cfg. A nil
// httpClient falls back to http.DefaultClient.
func NewDashScopeProvider(name string, cfg ProviderConfig, httpClient *http.Client) *DashScopeProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DashScopeProvider{
		name:       name,
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Name implements Provider.
func (p *DashScopeProvider) Name() string {
	return p.name
}

// Configured implements Provider.
func (p *DashScopeProvider) Configured() bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

type dashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
}

// Invoke implements Provider.
func (p *DashScopeProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": p.cfg.Model,
		"input": map[string]any{
			"messages": []map[string]any{
				{"role": "user", "content": prompt},
			},
		},
		"parameters": map[string]any{
			"max_tokens": p.cfg.MaxTokens,
		},
	}
	if p.cfg.Temperature != nil {
		body["parameters"].(map[string]any)["temperature"] = *p.cfg.Temperature
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("analysis: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("analysis: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", classifyErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", classifyStatus(resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyErr(err)
	}

	var parsed dashScopeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", ErrInvalidResponse
	}
	if len(parsed.Output.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	text := strings.TrimSpace(parsed.Output.Choices[0].Message.Content)
	if text == "" {
		return "", ErrInvalidResponse
	}
	return text, nil
}
