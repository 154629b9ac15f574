package analysis

import (
	"context"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatProvider talks to an OpenAI-compatible chat-completions endpoint via
// the OpenAI SDK. DeepSeek exposes exactly this surface.
type ChatProvider struct {
	name   string
	cfg    ProviderConfig
	client *openai.Client
}

// ChatProviderOption configures optional provider behaviour.
type ChatProviderOption func(*chatProviderOptions)

type chatProviderOptions struct {
	httpClient *http.Client
	baseURL    string
}

// WithChatHTTPClient replaces the provider's HTTP client (for tests).
func WithChatHTTPClient(client *http.Client) ChatProviderOption {
	return func(opts *chatProviderOptions) {
		opts.httpClient = client
	}
}

// WithChatBaseURL overrides the configured base URL (for tests).
func WithChatBaseURL(url string) ChatProviderOption {
	return func(opts *chatProviderOptions) {
		opts.baseURL = url
	}
}

// NewChatProvider constructs a provider named name from cfg.
func NewChatProvider(name string, cfg ProviderConfig, opts ...ChatProviderOption) *ChatProvider {
	optState := chatProviderOptions{}
	for _, opt := range opts {
		opt(&optState)
	}
	if optState.baseURL != "" {
		cfg.BaseURL = optState.baseURL
	}

	oaOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	if optState.httpClient != nil {
		oaOpts = append(oaOpts, option.WithHTTPClient(optState.httpClient))
	}
	clientVal := openai.NewClient(oaOpts...)

	return &ChatProvider{
		name:   name,
		cfg:    cfg,
		client: &clientVal,
	}
}

// Name implements Provider.
func (p *ChatProvider) Name() string {
	return p.name
}

// Configured implements Provider. The provider is usable once an API key is
// present.
func (p *ChatProvider) Configured() bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

// Invoke implements Provider. Errors are mapped onto the gateway taxonomy;
// a response without assistant text is an InvalidResponse.
func (p *ChatProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(p.cfg.MaxTokens)),
	}
	if p.cfg.Temperature != nil {
		params.Temperature = openai.Float(*p.cfg.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyErr(err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", ErrInvalidResponse
	}
	return text, nil
}
