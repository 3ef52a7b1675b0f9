package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/krishkalaria12/Bingo/internal/database"

	"gorm.io/gorm"
)

// Scheduler polls for scheduled posts whose publish time has passed and
// hands them to the queue. Rows are flipped to QUEUED before publishing so a
// second poller instance does not enqueue the same post twice.
type Scheduler struct {
	DB           *gorm.DB
	Publisher    Publisher
	PollInterval time.Duration
}

func (s *Scheduler) Run(ctx context.Context) {
	interval := s.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("scheduler started", "poll_interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.EnqueueDuePosts(ctx); err != nil {
				slog.Error("error enqueueing due posts", "error", err)
			}
		}
	}
}

func (s *Scheduler) EnqueueDuePosts(ctx context.Context) error {
	var due []database.ScheduledPost
	err := s.DB.WithContext(ctx).
		Where("status = ? AND publish_at <= ?", database.ScheduleScheduled, time.Now().UTC()).
		Order("publish_at ASC").
		Find(&due).Error
	if err != nil {
		return fmt.Errorf("error querying due posts: %w", err)
	}

	for _, schedule := range due {
		// Claim the row before enqueueing so only one poller publishes it.
		claim := s.DB.WithContext(ctx).
			Model(&database.ScheduledPost{}).
			Where("id = ? AND status = ?", schedule.Id, database.ScheduleScheduled).
			Update("status", database.ScheduleQueued)
		if claim.Error != nil {
			slog.Error("error claiming scheduled post", "schedule_id", schedule.Id, "error", claim.Error)
			continue
		}
		if claim.RowsAffected == 0 {
			continue // another poller got there first
		}

		if err := s.Publisher.PublishScheduledPost(ctx, PublishTaskPayload{ScheduleId: schedule.Id}); err != nil {
			slog.Error("error publishing scheduled post task", "schedule_id", schedule.Id, "error", err)
			// Put the row back so the next poll retries it.
			if err := database.UpdateScheduledPostStatus(ctx, s.DB, schedule.Id, database.ScheduleScheduled); err != nil {
				slog.Error("error reverting scheduled post status", "schedule_id", schedule.Id, "error", err)
			}
			continue
		}

		slog.Info("enqueued scheduled post", "schedule_id", schedule.Id, "content_id", schedule.ContentId)
	}

	return nil
}
