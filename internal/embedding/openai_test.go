package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_GenerateBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		// Out-of-order indices must be placed by index.
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "clip",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.2, 0.2]},
				{"object": "embedding", "index": 0, "embedding": [0.1, 0.1]}
			]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("secret", srv.URL+"/v1")

	resp, err := client.GenerateBatch(context.Background(), BatchRequest{Model: "clip", Prompts: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.1}, {0.2, 0.2}}, resp.Embeddings)
}

func TestOpenAIClient_GenerateCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("k", srv.URL+"/v1")
	_, err := client.Generate(context.Background(), Request{Model: "clip", Prompt: "a"})
	assert.Error(t, err)
}
