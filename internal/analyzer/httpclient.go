package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPModelClient is the one concrete ModelClient this repository
// ships: a thin JSON-over-HTTP transport to whatever model endpoint is
// configured. The model itself stays opaque (spec.md §1); this only
// owns the request/response envelope.
type HTTPModelClient struct {
	Endpoint string
	APIKey   string
	http     *http.Client
}

// NewHTTPModelClient constructs a client with a bounded request
// timeout.
func NewHTTPModelClient(endpoint, apiKey string) *HTTPModelClient {
	return &HTTPModelClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	SystemInstruction string `json:"system_instruction"`
	Prompt            string `json:"prompt"`
}

type completionResponse struct {
	Text string `json:"text"`
}

// Complete posts the instruction pair and returns the model's raw text.
func (c *HTTPModelClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	body, err := json.Marshal(completionRequest{SystemInstruction: systemInstruction, Prompt: userPrompt})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decoding model response: %w", err)
	}
	return out.Text, nil
}
