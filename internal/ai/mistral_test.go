package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMistralModel(t *testing.T) {
	assert.Equal(t, "mistral-small-latest", MistralModel(ModeStandard))
	assert.Equal(t, "mistral-large-latest", MistralModel(ModeAdvanced))
}

func TestMistralComplete_Success(t *testing.T) {
	var got mistralRequest
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": sampleAnalysis}}},
		})
	}))

	c := NewMistralClient(Config{
		Provider:    ProviderMistral,
		APIKey:      "sk-test",
		APIEndpoint: srv.URL + "/v1/chat/completions",
		Mode:        ModeAdvanced,
	}, nil)
	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, sampleAnalysis, out)
	assert.Equal(t, "mistral-large-latest", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestMistralComplete_ErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var e *AuthError
			assert.True(t, errors.As(err, &e))
		}},
		{http.StatusTooManyRequests, func(t *testing.T, err error) {
			var e *RateLimitError
			assert.True(t, errors.As(err, &e))
		}},
		{http.StatusBadRequest, func(t *testing.T, err error) {
			var e *BadRequestError
			assert.True(t, errors.As(err, &e))
		}},
		{http.StatusBadGateway, func(t *testing.T, err error) {
			var e *ServerError
			assert.True(t, errors.As(err, &e))
		}},
		{http.StatusNotFound, func(t *testing.T, err error) {
			var e *APIError
			require.True(t, errors.As(err, &e))
			assert.Equal(t, http.StatusNotFound, e.StatusCode)
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			calls := 0
			srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "nope", "code": "x"}})
			}))
			c := NewMistralClient(Config{Provider: ProviderMistral, APIKey: "k", APIEndpoint: srv.URL}, nil)
			_, err := c.Complete(context.Background(), "p")
			require.Error(t, err)
			tc.check(t, err)
			assert.Contains(t, err.Error(), "nope")
			assert.Equal(t, 1, calls, "no retry")
		})
	}
}

func TestMistralComplete_NoChoices(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	c := NewMistralClient(Config{Provider: ProviderMistral, APIKey: "k", APIEndpoint: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "p")
	var rerr *ResponseError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ProviderMistral, rerr.Provider)
}
