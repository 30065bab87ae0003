package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MistralModel maps a mode to the Mistral chat model.
func MistralModel(m Mode) string {
	if m == ModeAdvanced {
		return "mistral-large-latest"
	}
	return "mistral-small-latest"
}

// MistralClient calls the Mistral chat-completions endpoint in JSON mode.
type MistralClient struct {
	httpClient *http.Client
	cfg        Config
}

func NewMistralClient(cfg Config, httpClient *http.Client) *MistralClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MistralClient{httpClient: httpClient, cfg: cfg}
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralRequest struct {
	Model          string            `json:"model"`
	Messages       []mistralMessage  `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

type mistralResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

func (c *MistralClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(mistralRequest{
		Model:          MistralModel(c.cfg.Mode),
		Messages:       []mistralMessage{{Role: "user", Content: prompt}},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(ProviderMistral, resp)
	}

	var out mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ResponseError{Provider: ProviderMistral, Reason: "decode response", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &ResponseError{Provider: ProviderMistral, Reason: "no choices in response"}
	}
	return out.Choices[0].Message.Content, nil
}
