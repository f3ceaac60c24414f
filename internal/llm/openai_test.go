package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/renescens/internal"
)

func fakeServer(t *testing.T, content string, captured *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}}},
			"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
}

func TestCompleteReport(t *testing.T) {
	var req map[string]any
	srv := fakeServer(t, `{"summary":"Bonne énergie","sections":[{"title":"Analyse vocale","items":["La domine"]}]}`, &req)
	defer srv.Close()

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, internal.NewNopLogger())
	rep, err := c.CompleteReport(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "Bonne énergie", rep.Summary)
	require.Len(t, rep.Sections, 1)
	assert.Equal(t, []string{"La domine"}, rep.Sections[0].Items)
	assert.Equal(t, Source, rep.Source)

	format, ok := req["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "vocal_report", schema["name"])
	assert.Equal(t, true, schema["strict"])
	assert.Equal(t, "gpt-4o-mini", req["model"])
	assert.Len(t, req["messages"], 2)
}

func TestCompleteReport_BadContent(t *testing.T) {
	srv := fakeServer(t, "not json", nil)
	defer srv.Close()
	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, internal.NewNopLogger())
	_, err := c.CompleteReport(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestCompleteReport_Empty(t *testing.T) {
	srv := fakeServer(t, "  ", nil)
	defer srv.Close()
	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, internal.NewNopLogger())
	_, err := c.CompleteReport(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteReport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()
	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, internal.NewNopLogger())
	_, err := c.CompleteReport(context.Background(), "s", "u")
	assert.Error(t, err)
}
