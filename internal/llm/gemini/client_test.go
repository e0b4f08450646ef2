package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbridge/dentalbridge/internal/llm/gemini"
)

func TestGenerate_JoinsCandidateParts(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "contents")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "[{\"code\":"}, {"text": "\"D1110\"}]"}]}}]
		}`))
	}))
	defer srv.Close()

	c := gemini.NewClient(gemini.Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	out, err := c.Generate(context.Background(), "gemini-2.0-flash", "prompt")

	require.NoError(t, err)
	assert.Equal(t, `[{"code":"D1110"}]`, out)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
}

func TestGenerate_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := gemini.NewClient(gemini.Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	_, err := c.Generate(context.Background(), "gemini-2.0-flash", "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerate_NoCandidatesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := gemini.NewClient(gemini.Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	_, err := c.Generate(context.Background(), "gemini-2.0-flash", "prompt")

	require.Error(t, err)
}
