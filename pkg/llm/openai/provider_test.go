package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotpro/pkg/llm"
)

func TestSendSuccess(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "fallback reply"}},
			},
		})
	}))
	defer server.Close()

	p := New(server.URL, "sk-test", "gpt-4", 5*time.Second)
	reply, err := p.Send(context.Background(), llm.Request{
		Text:    "hello",
		Context: "history goes here",
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback reply", reply)

	assert.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "history goes here", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestSendOmitsSystemMessageWithoutContext(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	p := New(server.URL, "", "gpt-4", 5*time.Second)
	_, err := p.Send(context.Background(), llm.Request{Text: "hello"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestSendAPIErrorObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded"},
		})
	}))
	defer server.Close()

	p := New(server.URL, "", "gpt-4", 5*time.Second)
	_, err := p.Send(context.Background(), llm.Request{Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestSendEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	p := New(server.URL, "", "gpt-4", 5*time.Second)
	_, err := p.Send(context.Background(), llm.Request{Text: "hello"})
	assert.Error(t, err)
}
