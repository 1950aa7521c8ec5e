package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainClient reaches any OpenAI-compatible server (Ollama, vLLM, ...)
// through langchaingo.
type LangChainClient struct {
	llm         llms.Model
	Temperature float64
}

func NewLangChain(token, baseURL, model string, temperature float64) (*LangChainClient, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(token),
		lcopenai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init langchain openai: %w", err)
	}
	return &LangChainClient{llm: llm, Temperature: temperature}, nil
}

func (c *LangChainClient) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(langChainRole(m.Role), m.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, content, llms.WithTemperature(c.Temperature))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func langChainRole(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleUser:
		return llms.ChatMessageTypeHuman
	default:
		// langchaingo rejects types it does not know
		return llms.ChatMessageType(role)
	}
}
