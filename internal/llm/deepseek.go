package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	deepSeekBaseURL      = "https://api.deepseek.com"
	defaultDeepSeekModel = "deepseek-chat"
)

// DeepSeek generates text through DeepSeek's OpenAI compatible chat
// completions endpoint.
type DeepSeek struct {
	client openai.Client
	model  string
	temp   float64
}

func NewDeepSeek(apiKey, model string, temp float64) *DeepSeek {
	if model == "" {
		model = defaultDeepSeekModel
	}

	return &DeepSeek{
		client: openai.NewClient(
			option.WithBaseURL(deepSeekBaseURL),
			option.WithAPIKey(apiKey),
		),
		model: model,
		temp:  temp,
	}
}

func (d *DeepSeek) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	chatOpts := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       d.model,
		Temperature: openai.Float(d.temp),
	}

	res, err := d.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		slog.Error("deepseek error: chat completions failed", "error", err)
		return "", fmt.Errorf("deepseek generation failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
