package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
)

// OpenAIClient implements Client using the official openai-go SDK.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int64
}

// NewOpenAI creates an OpenAI-backed completion client.
func NewOpenAI(apiKey, model string, maxTokens int64) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model:     openai.F(openai.ChatModel(c.model)),
		MaxTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", eris.Wrap(err, "openai: create chat completion")
	}

	if len(completion.Choices) == 0 {
		return "", eris.New("openai: empty completion")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", eris.New("openai: empty completion")
	}
	return text, nil
}
