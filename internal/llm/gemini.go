package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultGeminiImageModel = "imagen-3.0-generate-002"
)

// Gemini generates text and images through Google's Gemini API.
type Gemini struct {
	client     *genai.Client
	model      string
	imageModel string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, imageModel: defaultGeminiImageModel}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("gemini error: generate content failed", "error", err)
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return res.Text(), nil
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	res, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		slog.Error("gemini error: generate images failed", "error", err)
		return nil, fmt.Errorf("gemini image generation failed: %w", err)
	}

	if len(res.GeneratedImages) == 0 || res.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("gemini returned no images")
	}

	return res.GeneratedImages[0].Image.ImageBytes, nil
}
