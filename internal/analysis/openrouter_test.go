package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-insight/internal/config"
)

func openRouterTestConfig(url string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		APIURL:      url,
		APIKey:      "test-key",
		Model:       "meta-llama/llama-3-8b-instruct",
		Temperature: 0.7,
		QPM:         600,
		Referer:     "https://cv-insight.example.com",
		Title:       "CV Insight Analysis",
	}
}

func TestOpenRouterGenerate(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://cv-insight.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "CV Insight Analysis", r.Header.Get("X-Title"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "the report"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenRouterClient(openRouterTestConfig(server.URL))
	content, err := client.Generate(context.Background(), GenerateRequest{
		SystemPrompt: systemPromptCVAnalysis,
		Prompt:       "analyze this",
		MaxTokens:    2000,
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "the report", content)

	assert.Equal(t, "meta-llama/llama-3-8b-instruct", captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	assert.Equal(t, 2000, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "analyze this", captured.Messages[1].Content)
}

func TestOpenRouterGenerateOmitsSystemMessage(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenRouterClient(openRouterTestConfig(server.URL))
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "p", MaxTokens: 100})
	require.NoError(t, err)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestOpenRouterGenerateMissingKey(t *testing.T) {
	cfg := openRouterTestConfig("http://unused.invalid")
	cfg.APIKey = ""
	client := NewOpenRouterClient(cfg)

	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenRouterGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewOpenRouterClient(openRouterTestConfig(server.URL))
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestOpenRouterGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(openRouterTestConfig(server.URL))
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
