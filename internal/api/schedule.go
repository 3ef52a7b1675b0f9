package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

func (s *ScheduleService) AddRoutes(r chi.Router) {
	r.Post("/posts/{content_id}/schedule", RestHandler(s.SchedulePost))
	r.Route("/schedule", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListScheduled))
		r.Delete("/{schedule_id}", RestHandler(s.CancelScheduled))
	})
}

func (s *ScheduleService) SchedulePost(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	contentId, err := URLParamUint(r, "content_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.SchedulePostRequest](r)
	if err != nil {
		return nil, err
	}

	if !req.PublishAt.After(time.Now()) {
		return nil, CodedErrorf(http.StatusBadRequest, "publishAt must be in the future")
	}

	ctx := r.Context()

	var post database.SocialContent
	err = s.db.WithContext(ctx).First(&post, "id = ? AND user_id = ?", contentId, userId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "content %d not found", contentId)
	}
	if err != nil {
		slog.Error("error getting content", "content_id", contentId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving content record")
	}

	var active int64
	err = s.db.WithContext(ctx).Model(&database.ScheduledPost{}).
		Where("content_id = ? AND status IN ?", contentId, []string{database.ScheduleScheduled, database.ScheduleQueued}).
		Count(&active).Error
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error checking existing schedules")
	}
	if active > 0 {
		return nil, CodedErrorf(http.StatusConflict, "content %d already has a pending schedule", contentId)
	}

	schedule := database.ScheduledPost{
		Id:           uuid.New(),
		ContentId:    contentId,
		Platform:     post.Platform,
		Status:       database.ScheduleScheduled,
		PublishAt:    req.PublishAt.UTC(),
		CreationTime: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		slog.Error("error creating scheduled post", "content_id", contentId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to schedule post: %w", err)
	}

	if err := database.UpdateContentStatus(ctx, s.db, contentId, database.ContentScheduled); err != nil {
		slog.Error("error marking content as scheduled", "content_id", contentId, "error", err)
	}

	slog.Info("scheduled post", "content_id", contentId, "schedule_id", schedule.Id, "publish_at", schedule.PublishAt)
	return api.SchedulePostResponse{ScheduleId: schedule.Id}, nil
}

func (s *ScheduleService) ListScheduled(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	var schedules []database.ScheduledPost
	err = s.db.WithContext(r.Context()).
		Select("scheduled_posts.*").
		Joins("JOIN social_contents ON social_contents.id = scheduled_posts.content_id").
		Where("social_contents.user_id = ?", userId).
		Order("publish_at ASC").
		Find(&schedules).Error
	if err != nil {
		slog.Error("error listing scheduled posts", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing scheduled posts")
	}

	result := make([]api.ScheduledPost, 0, len(schedules))
	for _, schedule := range schedules {
		result = append(result, api.ScheduledPost{
			Id:        schedule.Id,
			ContentId: schedule.ContentId,
			Platform:  schedule.Platform,
			PublishAt: schedule.PublishAt,
			Status:    schedule.Status,
		})
	}
	return result, nil
}

func (s *ScheduleService) CancelScheduled(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	scheduleId, err := URLParamUUID(r, "schedule_id")
	if err != nil {
		return nil, err
	}

	ctx := r.Context()

	var schedule database.ScheduledPost
	err = s.db.WithContext(ctx).Preload("Content").First(&schedule, "id = ?", scheduleId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "schedule %s not found", scheduleId)
	}
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving scheduled post")
	}

	if schedule.Content == nil || schedule.Content.UserId != userId {
		return nil, CodedErrorf(http.StatusNotFound, "schedule %s not found", scheduleId)
	}

	// Once the worker has picked the post up it is too late to cancel.
	if schedule.Status != database.ScheduleScheduled {
		return nil, CodedErrorf(http.StatusConflict, "schedule %s is %s and can no longer be cancelled", scheduleId, schedule.Status)
	}

	if err := database.UpdateScheduledPostStatus(ctx, s.db, scheduleId, database.ScheduleCancelled); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to cancel schedule: %w", err)
	}

	if err := database.UpdateContentStatus(ctx, s.db, schedule.ContentId, database.ContentDraft); err != nil {
		slog.Error("error reverting content status", "content_id", schedule.ContentId, "error", err)
	}

	return nil, nil
}
