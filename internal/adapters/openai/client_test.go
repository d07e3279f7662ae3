package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	return c, &calls
}

func TestClient_Extract_SendsFixedPrompt(t *testing.T) {
	var got chatRequest
	var rawBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &rawBody))
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"company\":\"Acme\"}"}}]}`)
	})

	msg, err := c.Extract(context.Background(), "https://store.example.com/123-offer_letter.png")
	require.NoError(t, err)
	assert.Equal(t, "assistant", msg.Role)
	assert.JSONEq(t, `{"company":"Acme"}`, msg.Content)

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)

	messages := rawBody["messages"].([]any)
	parts := messages[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, userPrompt, parts[0].(map[string]any)["text"])
	image := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "https://store.example.com/123-offer_letter.png", image["url"])
}

func TestClient_Extract_InvalidInputSkipsNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, in := range []string{"", "   ", "not a url", "/relative.png", "ftp://host/x.png"} {
		_, err := c.Extract(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_Extract_NoChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})
	_, err := c.Extract(context.Background(), "https://store.example.com/a.png")
	assert.ErrorIs(t, err, ErrNoCompletion)
}

func TestClient_Extract_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"error":{"message":"slow down"}}`)
			},
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `<html>gateway</html>`)
			},
		},
		{
			name: "message wrong shape",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"choices":[{"message":"plain"}]}`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, tt.handler)
			_, err := c.Extract(context.Background(), "https://store.example.com/a.png")
			assert.ErrorIs(t, err, ErrServiceError)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "single attempt")
		})
	}
}

func TestClient_Extract_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)
	_, err = c.Extract(context.Background(), "https://store.example.com/a.png")
	assert.ErrorIs(t, err, ErrServiceError)
}

func TestClient_CustomMessagePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"output":{"message":{"role":"assistant","content":"{}"}}}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, MessagePath: "output.message"})
	require.NoError(t, err)
	msg, err := c.Extract(context.Background(), "https://store.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "{}", msg.Content)
}

func TestNewClient_RejectsBadMessagePath(t *testing.T) {
	_, err := NewClient(Config{MessagePath: "choices[0"})
	assert.Error(t, err)
}
