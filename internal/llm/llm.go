package llm

import (
	"context"
	"fmt"
)

// Model selector values accepted on API requests.
const (
	ModelGemini   = "gemini"
	ModelDeepSeek = "deepseek"

	DefaultModel = ModelGemini
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Registry maps model selector values to their backend clients. The closed
// set of selectors is fixed at startup, requests only pick from it.
type Registry struct {
	generators map[string]TextGenerator
}

func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]TextGenerator)}
}

func (r *Registry) Register(model string, generator TextGenerator) {
	r.generators[model] = generator
}

// Generator resolves a model selector, applying the default for an empty
// value. An unknown selector is a caller error.
func (r *Registry) Generator(model string) (TextGenerator, error) {
	if model == "" {
		model = DefaultModel
	}
	generator, ok := r.generators[model]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", model)
	}
	return generator, nil
}

func (r *Registry) ValidModel(model string) bool {
	if model == "" {
		return true
	}
	_, ok := r.generators[model]
	return ok
}
