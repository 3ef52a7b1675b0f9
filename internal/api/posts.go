package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/krishkalaria12/Bingo/internal/content"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/internal/llm"
	"github.com/krishkalaria12/Bingo/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type PostService struct {
	db     *gorm.DB
	models *llm.Registry
}

func NewPostService(db *gorm.DB, models *llm.Registry) *PostService {
	return &PostService{db: db, models: models}
}

func (s *PostService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/posts", func(r chi.Router) {
		r.Post("/generate", RestHandler(s.GeneratePost))
		r.Post("/update", RestHandler(s.UpdatePost))
		r.Get("/", RestHandler(s.ListPosts))
		r.Get("/{content_id}", RestHandler(s.GetPost))
		r.Get("/{content_id}/history", RestHandler(s.GetPostHistory))
	})
}

func resolveModel(model string) string {
	if model == "" {
		return llm.DefaultModel
	}
	return model
}

func (s *PostService) GeneratePost(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.GeneratePostRequest](r)
	if err != nil {
		return nil, err
	}

	if !content.ValidPlatform(req.Platform) {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid platform %q", req.Platform)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "prompt must not be empty")
	}

	generator, err := s.models.Generator(req.Model)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	ctx := r.Context()

	generated, err := generator.Generate(ctx, content.ComposeGeneratePrompt(req.Platform, req.Prompt, req.Tone))
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "content generation failed: %w", err)
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return nil, CodedErrorf(http.StatusInternalServerError, "AI backend returned empty content")
	}

	if content.ExceedsLimit(req.Platform, generated) {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "generated content exceeds the %d character limit for %s", content.TwitterMaxChars, req.Platform)
	}

	post := database.SocialContent{
		UserId:   userId,
		Platform: req.Platform,
		Content:  generated,
		Status:   database.ContentDraft,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		slog.Error("error creating content row", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to save generated content: %w", err)
	}

	return api.GeneratePostResponse{ContentId: post.Id, Content: generated, Platform: req.Platform}, nil
}

func (s *PostService) UpdatePost(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.UpdatePostRequest](r)
	if err != nil {
		return nil, err
	}

	if !content.ValidPlatform(req.Platform) {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid platform %q", req.Platform)
	}
	if strings.TrimSpace(req.OriginalContent) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "originalContent must not be empty")
	}
	if strings.TrimSpace(req.UpdatePrompt) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "updatePrompt must not be empty")
	}

	generator, err := s.models.Generator(req.Model)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	saveHistory := true
	if req.SaveHistory != nil {
		saveHistory = *req.SaveHistory
	}

	ctx := r.Context()

	// A history row must reference a content row that existed before the
	// update, so resolve the target before calling the backend.
	if req.ContentId != nil && saveHistory {
		var existing database.SocialContent
		err := s.db.WithContext(ctx).First(&existing, "id = ? AND user_id = ?", *req.ContentId, userId).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "content %d not found", *req.ContentId)
		}
		if err != nil {
			slog.Error("error loading content row", "content_id", *req.ContentId, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving content record: %w", err)
		}
	}

	prompt := content.ComposeUpdatePrompt(req.Platform, req.OriginalContent, req.UpdatePrompt)

	updated, err := generator.Generate(ctx, prompt)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "content generation failed: %w", err)
	}

	updated = strings.TrimSpace(updated)
	if updated == "" {
		return nil, CodedErrorf(http.StatusInternalServerError, "AI backend returned empty content")
	}

	if content.ExceedsLimit(req.Platform, updated) {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "updated content exceeds the %d character limit for %s", content.TwitterMaxChars, req.Platform)
	}

	significant := content.IsSignificantChange(req.OriginalContent, updated)

	var contentId uint
	if req.ContentId != nil && saveHistory {
		revision := database.SocialContentHistory{
			ContentId:       *req.ContentId,
			PreviousContent: req.OriginalContent,
			UpdatedContent:  updated,
			Prompt:          req.UpdatePrompt,
			Model:           resolveModel(req.Model),
			CreatedBy:       userId,
			CreatedAt:       time.Now().UTC(),
		}
		if err := database.SaveRevision(ctx, s.db, &revision); err != nil {
			slog.Error("error saving revision", "content_id", *req.ContentId, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to save revision: %w", err)
		}
		contentId = *req.ContentId
	} else {
		post := database.SocialContent{
			UserId:   userId,
			Platform: req.Platform,
			Content:  updated,
			Status:   database.ContentDraft,
		}
		if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
			slog.Error("error creating content row", "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to save updated content: %w", err)
		}
		contentId = post.Id
	}

	return api.UpdatePostResponse{
		UpdatedContent:      updated,
		IsSignificantChange: significant,
		ContentId:           contentId,
	}, nil
}

func (s *PostService) GetPost(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	contentId, err := URLParamUint(r, "content_id")
	if err != nil {
		return nil, err
	}

	var post database.SocialContent
	err = s.db.WithContext(r.Context()).First(&post, "id = ? AND user_id = ?", contentId, userId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "content %d not found", contentId)
	}
	if err != nil {
		slog.Error("error getting content", "content_id", contentId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving content record")
	}

	return convertPost(post), nil
}

func (s *PostService) ListPosts(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	query, err := ParseRequestQueryParams[api.ListPostsQuery](r)
	if err != nil {
		return nil, err
	}

	if query.Limit <= 0 || query.Limit > 200 {
		query.Limit = 50
	}

	stmt := s.db.WithContext(r.Context()).Where("user_id = ?", userId)
	if query.Platform != "" {
		stmt = stmt.Where("platform = ?", query.Platform)
	}
	if query.Status != "" {
		stmt = stmt.Where("status = ?", query.Status)
	}

	var posts []database.SocialContent
	if err := stmt.Order("updated_at DESC").Limit(query.Limit).Offset(query.Offset).Find(&posts).Error; err != nil {
		slog.Error("error listing content", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing content records")
	}

	result := make([]api.Post, 0, len(posts))
	for _, post := range posts {
		result = append(result, convertPost(post))
	}
	return result, nil
}

func (s *PostService) GetPostHistory(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	contentId, err := URLParamUint(r, "content_id")
	if err != nil {
		return nil, err
	}

	var post database.SocialContent
	err = s.db.WithContext(r.Context()).First(&post, "id = ? AND user_id = ?", contentId, userId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "content %d not found", contentId)
	}
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving content record")
	}

	var history []database.SocialContentHistory
	err = s.db.WithContext(r.Context()).
		Where("content_id = ?", contentId).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		slog.Error("error listing content history", "content_id", contentId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving content history")
	}

	result := make([]api.PostRevision, 0, len(history))
	for _, revision := range history {
		result = append(result, api.PostRevision{
			Id:              revision.Id,
			ContentId:       revision.ContentId,
			PreviousContent: revision.PreviousContent,
			UpdatedContent:  revision.UpdatedContent,
			Prompt:          revision.Prompt,
			Model:           revision.Model,
			CreatedBy:       revision.CreatedBy,
			CreatedAt:       revision.CreatedAt,
		})
	}
	return result, nil
}

func convertPost(post database.SocialContent) api.Post {
	return api.Post{
		Id:        post.Id,
		UserId:    post.UserId,
		Platform:  post.Platform,
		Content:   post.Content,
		Status:    post.Status,
		UpdatedAt: post.UpdatedAt,
	}
}
