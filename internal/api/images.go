package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/krishkalaria12/Bingo/internal/llm"
	"github.com/krishkalaria12/Bingo/internal/storage"
	"github.com/krishkalaria12/Bingo/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ImageService struct {
	generator llm.ImageGenerator
	store     storage.ObjectStore
	bucket    string
}

func NewImageService(generator llm.ImageGenerator, store storage.ObjectStore, bucket string) *ImageService {
	return &ImageService{generator: generator, store: store, bucket: bucket}
}

func (s *ImageService) AddRoutes(r chi.Router) {
	r.Post("/images/generate", RestHandler(s.GenerateImage))
}

func (s *ImageService) GenerateImage(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.GenerateImageRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "prompt must not be empty")
	}
	// Only gemini has an image API.
	if req.Model != "" && req.Model != llm.ModelGemini {
		return nil, CodedErrorf(http.StatusBadRequest, "model %q does not support image generation", req.Model)
	}

	ctx := r.Context()

	data, err := s.generator.GenerateImage(ctx, req.Prompt)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "image generation failed: %w", err)
	}
	if len(data) == 0 {
		return nil, CodedErrorf(http.StatusInternalServerError, "AI backend returned empty image")
	}

	key := fmt.Sprintf("images/%s/%s.png", userId, uuid.New())
	if err := s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(data)); err != nil {
		slog.Error("error storing generated image", "key", key, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to store generated image: %w", err)
	}

	slog.Info("stored generated image", "key", key, "bytes", len(data))
	return api.GenerateImageResponse{Key: key}, nil
}
