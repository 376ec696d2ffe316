package assembler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalLLMAssemblerPostsPromptAndReturnsContent(t *testing.T) {
	var receivedAuth string
	var receivedReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedReq))

		resp := chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: "# Example\n\n- [Docs](https://example.com/docs)\n"}}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	a := NewExternalLLMAssembler("test-key", "gpt-4o-mini")
	a.endpoint = server.URL

	out, err := a.Assemble(context.Background(), "Example", "https://example.com", []PageSummary{
		{URL: "https://example.com/docs", Title: "Docs", Category: "Documentation"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", receivedAuth)
	assert.Equal(t, "gpt-4o-mini", receivedReq.Model)
	assert.Contains(t, out, "[Docs](https://example.com/docs)")
}

func TestExternalLLMAssemblerErrorsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	a := NewExternalLLMAssembler("test-key", "gpt-4o-mini")
	a.endpoint = server.URL

	_, err := a.Assemble(context.Background(), "Example", "https://example.com", nil)
	require.Error(t, err)
}

func TestExternalLLMAssemblerErrorsOnEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	a := NewExternalLLMAssembler("test-key", "gpt-4o-mini")
	a.endpoint = server.URL

	_, err := a.Assemble(context.Background(), "Example", "https://example.com", nil)
	require.Error(t, err)
}
