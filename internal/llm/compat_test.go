package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewGroqProvider(t *testing.T) {
	t.Run("friendly model name", func(t *testing.T) {
		p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", Model: "llama-3.3-70b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "llama-3.3-70b-versatile" {
			t.Errorf("model = %q, want llama-3.3-70b-versatile", p.ModelID())
		}
	})

	t.Run("direct model id", func(t *testing.T) {
		p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", Model: "mixtral-8x7b-32768"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "mixtral-8x7b-32768" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewGroqProvider(GroqConfig{Model: "llama-3.3-70b"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("empty model", func(t *testing.T) {
		if _, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test"}); err == nil {
			t.Fatal("expected error for empty model")
		}
	})
}

func TestGroqProvider_CustomBaseURL(t *testing.T) {
	var gotPath, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-groq",
			"model": body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Week 1: Learn Docker"},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", Model: "llama-3.3-70b", BaseURL: server.URL + "/openai/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := NewCompleter(p, 512).Complete(context.Background(), "roadmap please")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Week 1: Learn Docker" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/openai/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotModel != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model pass-through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "meta-llama/llama-3.3-70b-instruct",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "meta-llama/llama-3.3-70b-instruct" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x/y"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})
}
