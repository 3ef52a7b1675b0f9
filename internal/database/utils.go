package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateScheduledPostStatus(ctx context.Context, txn *gorm.DB, scheduleId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == SchedulePublished || status == ScheduleFailed || status == ScheduleCancelled {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&ScheduledPost{Id: scheduleId}).Updates(updates).Error; err != nil {
		slog.Error("error updating scheduled post status", "schedule_id", scheduleId, "status", status, "error", err)
		return err
	}
	return nil
}

func UpdateContentStatus(ctx context.Context, txn *gorm.DB, contentId uint, status string) error {
	updates := map[string]any{"status": status, "updated_at": time.Now().UTC()}

	if err := txn.WithContext(ctx).Model(&SocialContent{Id: contentId}).Updates(updates).Error; err != nil {
		slog.Error("error updating content status", "content_id", contentId, "status", status, "error", err)
		return err
	}
	return nil
}

// SaveRevision writes a history row and replaces the content row's text in a
// single transaction. The history row must reference a content row that
// already exists, so the update is issued against the loaded row id.
func SaveRevision(ctx context.Context, db *gorm.DB, revision *SocialContentHistory) error {
	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(revision).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"content":    revision.UpdatedContent,
			"updated_at": time.Now().UTC(),
		}
		return txn.Model(&SocialContent{Id: revision.ContentId}).Updates(updates).Error
	})
}
