package openai_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCompleteUsesChatCompletions(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"nodes\":[]}"}}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL+"/v1/", 5*time.Second)
	out, err := c.Complete(context.Background(), "SYSTEM", "USER", 0.7, 256, true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"nodes":[]}` {
		t.Fatalf("unexpected output %q", out)
	}
	if body["model"] != "gpt-4o-mini" || body["temperature"] != 0.7 {
		t.Fatalf("unexpected request body: %#v", body)
	}
	format, _ := body["response_format"].(map[string]interface{})
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %#v", body["response_format"])
	}
	msgs, _ := body["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %#v", body["messages"])
	}
}

func TestCompleteSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-bad", "gpt-4o-mini", srv.URL, 5*time.Second)
	if _, err := c.Complete(context.Background(), "", "USER", 0.7, 0, false); err == nil {
		t.Fatalf("expected error for 401 response")
	}
}
