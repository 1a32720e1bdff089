package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen2.5:0.5b", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "превет мир")

		json.NewEncoder(w).Encode(generateResponse{Response: " привет мир ", Done: true})
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	out, err := c.CleanupText(context.Background(), "превет мир")
	require.NoError(t, err)
	assert.Equal(t, "привет мир", out)
}

func TestCleanupTextEmptyPassthrough(t *testing.T) {
	c := New("http://127.0.0.1:1", "", time.Second)
	out, err := c.CleanupText(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "   ", out)
}

func TestCleanupTextErrorKeepsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "missing", 0)
	out, err := c.CleanupText(context.Background(), "исходный текст")
	require.Error(t, err)
	assert.Equal(t, "исходный текст", out)
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, New(srv.URL, "", 0).IsAvailable(context.Background()))
	assert.False(t, New("http://127.0.0.1:1", "", time.Second).IsAvailable(context.Background()))
}
