package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chatCfg(apiKey string) ProviderConfig {
	temp := 0.7
	return ProviderConfig{
		APIKey:      apiKey,
		Model:       "deepseek-chat",
		MaxTokens:   256,
		Temperature: &temp,
	}
}

func completionBody(content string) string {
	return `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1756252800,
		"model": "deepseek-chat",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": ` + mustJSON(content) + `}, "finish_reason": "stop"}
		]
	}`
}

func mustJSON(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestChatProviderConfigured(t *testing.T) {
	require.False(t, NewChatProvider("deepseek", chatCfg("")).Configured())
	require.False(t, NewChatProvider("deepseek", chatCfg("   ")).Configured())
	require.True(t, NewChatProvider("deepseek", chatCfg("sk-test")).Configured())
}

func TestChatProviderInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)
		require.Contains(t, req.Messages[0].Content, "daily reflection")
		require.Equal(t, 256, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("A gentle day, well observed.")))
	}))
	defer srv.Close()

	p := NewChatProvider("deepseek", chatCfg("sk-test"), WithChatBaseURL(srv.URL))
	prompt, err := BuildPrompt(sampleEntry())
	require.NoError(t, err)

	text, err := p.Invoke(context.Background(), prompt)
	require.NoError(t, err)
	require.Equal(t, "A gentle day, well observed.", text)
}

func TestChatProviderInvokeErrors(t *testing.T) {
	t.Run("rejected key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "authentication_error"}}`))
		}))
		defer srv.Close()

		p := NewChatProvider("deepseek", chatCfg("sk-bad"), WithChatBaseURL(srv.URL))
		_, err := p.Invoke(context.Background(), "prompt")
		require.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
		}))
		defer srv.Close()

		p := NewChatProvider("deepseek", chatCfg("sk-test"), WithChatBaseURL(srv.URL))
		_, err := p.Invoke(context.Background(), "prompt")
		require.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("blank content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody("   ")))
		}))
		defer srv.Close()

		p := NewChatProvider("deepseek", chatCfg("sk-test"), WithChatBaseURL(srv.URL))
		_, err := p.Invoke(context.Background(), "prompt")
		require.ErrorIs(t, err, ErrInvalidResponse)
	})
}
