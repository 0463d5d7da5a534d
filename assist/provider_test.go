package assist

import (
	"context"
	"errors"
	"testing"
)

// MockProvider is a configurable test double for the Provider interface.
// Each call consumes the next configured Response.
type MockProvider struct {
	Responses []Response
	Err       error
	Calls     [][]Message
	callIdx   int
}

func (m *MockProvider) Complete(_ context.Context, messages []Message) (*Response, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.callIdx >= len(m.Responses) {
		return nil, errors.New("mock: no more responses configured")
	}
	resp := m.Responses[m.callIdx]
	m.callIdx++
	return &resp, nil
}

func TestMockProvider_ConsumesResponsesInOrder(t *testing.T) {
	mock := &MockProvider{
		Responses: []Response{
			{Content: "first", PromptTokens: 10, CompletionTokens: 5},
			{Content: "second"},
		},
	}

	resp, err := mock.Complete(context.Background(), []Message{{Role: RoleUser, Content: "a"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "first" || resp.PromptTokens != 10 || resp.CompletionTokens != 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp, err = mock.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "second" {
		t.Fatalf("Content = %q, want %q", resp.Content, "second")
	}

	// Exhausted.
	if _, err := mock.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error once responses are exhausted")
	}

	if len(mock.Calls) != 3 {
		t.Fatalf("recorded %d calls, want 3", len(mock.Calls))
	}
}

func TestMockProvider_Error(t *testing.T) {
	mock := &MockProvider{Err: errors.New("api down")}

	if _, err := mock.Complete(context.Background(), nil); err == nil || err.Error() != "api down" {
		t.Fatalf("err = %v, want 'api down'", err)
	}
}

func TestMockProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*MockProvider)(nil)
}
