package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultModel = "gpt-4o"

// OpenAIProvider implements Provider on top of the official OpenAI Go SDK.
// Any OpenAI-compatible endpoint works via WithBaseURL.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*openaiSettings)

type openaiSettings struct {
	model   string
	apiKey  string
	baseURL string
	timeout time.Duration
}

// WithModel sets the model name (default: "gpt-4o").
func WithModel(model string) OpenAIOption {
	return func(s *openaiSettings) { s.model = model }
}

// WithAPIKey sets the API key. If empty, the SDK falls back to OPENAI_API_KEY.
func WithAPIKey(key string) OpenAIOption {
	return func(s *openaiSettings) { s.apiKey = key }
}

// WithBaseURL points the provider at a custom endpoint, such as Ollama,
// vLLM, or Azure OpenAI.
func WithBaseURL(url string) OpenAIOption {
	return func(s *openaiSettings) { s.baseURL = url }
}

// WithTimeout sets the per-request timeout for API calls.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(s *openaiSettings) { s.timeout = d }
}

// NewOpenAIProvider creates an OpenAIProvider with the given options.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	settings := openaiSettings{model: defaultModel}
	for _, o := range opts {
		o(&settings)
	}

	var clientOpts []option.RequestOption
	if settings.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(settings.apiKey))
	}
	if settings.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(settings.baseURL))
	}
	if settings.timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(settings.timeout))
	}

	return &OpenAIProvider{
		client: openai.NewClient(clientOpts...),
		model:  settings.model,
	}
}

// Complete sends one chat completion request and returns the reply content
// with token usage.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Response{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
	}, nil
}

// toOpenAIMessages converts Message values to the SDK's union type. Unknown
// roles are treated as user messages.
func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = openai.UserMessage(m.Content)
		}
	}
	return out
}
