package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// OpenAIClient talks to the OpenAI chat completions endpoint. It is built
// once at startup and shared by all requests.
type OpenAIClient struct {
	client      openai.Client
	Model       string
	Temperature float64
}

// New creates a client from externally supplied settings. An empty baseURL
// keeps the SDK default. SDK retries are switched off: a failed completion
// is reported to the caller as is.
func New(apiKey, baseURL, model string, temperature float64) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		Model:       model,
		Temperature: temperature,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.Model,
		Temperature: openai.Float(c.Temperature),
		Messages:    toOpenAIMessages(messages),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		case RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case RoleDeveloper:
			out = append(out, openai.DeveloperMessage(m.Content))
		default:
			// unknown roles go upstream as sent and the API decides
			out = append(out, param.Override[openai.ChatCompletionMessageParamUnion](m))
		}
	}
	return out
}

// ErrorMessage returns the text to show a caller for a failed completion:
// the API's own message when the server sent one, otherwise err.Error().
func ErrorMessage(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
