package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GeminiModel maps a mode to the Gemini model name.
func GeminiModel(m Mode) string {
	if m == ModeAdvanced {
		return "gemini-1.5-pro"
	}
	return "gemini-pro"
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	httpClient *http.Client
	cfg        Config
}

func NewGeminiClient(cfg Config, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{httpClient: httpClient, cfg: cfg}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent    `json:"contents"`
	GenerationConfig map[string]float64 `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// URL builds {endpoint}/models/{model}:generateContent?key={apiKey}.
func (c *GeminiClient) URL() string {
	base := strings.TrimRight(c.cfg.APIEndpoint, "/")
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, GeminiModel(c.cfg.Mode), url.QueryEscape(c.cfg.APIKey))
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: map[string]float64{"temperature": 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the key; keep it out of the message
		return "", fmt.Errorf("http request to %s: %w", c.cfg.APIEndpoint, unwrapURLError(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(ProviderGemini, resp)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ResponseError{Provider: ProviderGemini, Reason: "decode response", Err: err}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &ResponseError{Provider: ProviderGemini, Reason: "no candidates in response"}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func unwrapURLError(err error) error {
	if uerr, ok := err.(*url.Error); ok {
		return uerr.Err
	}
	return err
}
