package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*OpenAIProvider)(nil)
}

func TestNewOpenAIProvider_Model(t *testing.T) {
	tests := []struct {
		name string
		opts []OpenAIOption
		want string
	}{
		{"default", nil, "gpt-4o"},
		{"override", []OpenAIOption{WithModel("gpt-4o-mini")}, "gpt-4o-mini"},
		{"all options combined", []OpenAIOption{
			WithModel("gpt-3.5-turbo"),
			WithAPIKey("sk-test-key"),
			WithBaseURL("http://localhost:8080/v1"),
			WithTimeout(10 * time.Second),
		}, "gpt-3.5-turbo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewOpenAIProvider(tt.opts...)
			if p.model != tt.want {
				t.Fatalf("model = %q, want %q", p.model, tt.want)
			}
		})
	}
}

func TestToOpenAIMessages(t *testing.T) {
	msgs := toOpenAIMessages([]Message{
		{Role: RoleSystem, Content: "You are a rule content expert."},
		{Role: RoleUser, Content: "Explain this validation failure."},
		{Role: RoleAssistant, Content: "The rule id is missing its namespace prefix."},
		{Role: Role("unknown"), Content: "Falls back to user."},
	})
	if len(msgs) != 4 {
		t.Fatalf("converted %d messages, want 4", len(msgs))
	}

	if got := toOpenAIMessages(nil); len(got) != 0 {
		t.Fatalf("nil input converted to %d messages", len(got))
	}
}

// completionServer fakes the chat completions endpoint with a fixed payload.
func completionServer(t *testing.T, payload map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_Success(t *testing.T) {
	srv := completionServer(t, map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": "The severity value is not in the allowed set.",
					"refusal": "",
				},
				"logprobs": nil,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     42,
			"completion_tokens": 15,
			"total_tokens":      57,
		},
	})

	provider := NewOpenAIProvider(WithBaseURL(srv.URL), WithAPIKey("test-key"))

	resp, err := provider.Complete(context.Background(), []Message{
		{Role: RoleUser, Content: "Explain the failure in bad.yaml."},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "The severity value is not in the allowed set." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.PromptTokens != 42 || resp.CompletionTokens != 15 {
		t.Errorf("usage = %d/%d, want 42/15", resp.PromptTokens, resp.CompletionTokens)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := completionServer(t, map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o",
		"choices": []map[string]any{},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 0,
			"total_tokens":      10,
		},
	})

	provider := NewOpenAIProvider(WithBaseURL(srv.URL), WithAPIKey("test-key"))

	_, err := provider.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "no choices") {
		t.Errorf("err = %q, want mention of 'no choices'", err)
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "server error", "type": "server_error"}}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(WithBaseURL(srv.URL), WithAPIKey("test-key"))

	if _, err := provider.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}}); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
