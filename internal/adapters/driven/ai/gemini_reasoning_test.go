package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiReasoning_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiReasoning("", "", "", 0.1)
	require.Error(t, err)
}

func TestGeminiReasoning_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-flash-latest:generateContent", r.URL.Path)
		assert.Equal(t, "key-test", r.Header.Get("x-goog-api-key"))

		var req geminiGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "analyse this", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 512, req.GenerationConfig.MaxOutputTokens)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content":      map[string]any{"parts": []map[string]any{{"text": "the analysis"}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	svc, err := NewGeminiReasoning("key-test", "", server.URL, 0.1)
	require.NoError(t, err)
	defer svc.Close()

	text, err := svc.Generate(context.Background(), "analyse this", 512)
	require.NoError(t, err)
	assert.Equal(t, "the analysis", text)
}

func TestGeminiReasoning_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    400,
				"message": "API key not valid",
				"status":  "INVALID_ARGUMENT",
			},
		})
	}))
	defer server.Close()

	svc, err := NewGeminiReasoning("key-bad", "", server.URL, 0.1)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "prompt", 128)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiReasoning_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	svc, err := NewGeminiReasoning("key-test", "", server.URL, 0.1)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "prompt", 128)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiReasoning_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-flash-latest", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewGeminiReasoning("key-test", "", server.URL, 0.1)
	require.NoError(t, err)
	require.NoError(t, svc.Ping(context.Background()))
}
