package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/krishkalaria12/Bingo/internal/database"

	"gorm.io/gorm"
)

// Deliverer sends a finished post to its platform.
type Deliverer interface {
	Publish(ctx context.Context, platform string, contentId uint, body string) error
}

type Worker struct {
	DB          *gorm.DB
	Receiver    Reciever
	Deliverer   Deliverer
	WaitGroup   *sync.WaitGroup
	Concurrency int
}

func (worker *Worker) Start() {
	concurrency := worker.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	worker.WaitGroup.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go worker.runWorkerInstance(i)
	}

	slog.Info("worker instances started", "concurrency", concurrency)
}

func (worker *Worker) runWorkerInstance(id int) {
	defer worker.WaitGroup.Done()

	for task := range worker.Receiver.Tasks() {
		worker.processTask(id, task)
	}

	slog.Info("worker instance stopped", "worker", id)
}

func (worker *Worker) processTask(id int, task Task) {
	ctx := context.Background() // Create a new context for each task

	switch task.Type() {
	case PublishQueue:
		var payload PublishTaskPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			slog.Error("error unmarshalling publish task", "worker", id, "error", err, "body", string(task.Payload()))
			task.Reject() //nolint:errcheck
			return
		}

		if err := worker.handlePublishTask(ctx, payload); err != nil {
			slog.Error("error processing publish task", "worker", id, "schedule_id", payload.ScheduleId, "error", err)
			task.Nack() //nolint:errcheck
			return
		}

		task.Ack() //nolint:errcheck

	default:
		slog.Warn("received message from unknown queue, discarding", "worker", id, "queue", task.Type())
		task.Reject() //nolint:errcheck
	}
}

func (worker *Worker) handlePublishTask(ctx context.Context, payload PublishTaskPayload) error {
	var schedule database.ScheduledPost
	err := worker.DB.WithContext(ctx).Preload("Content").First(&schedule, "id = ?", payload.ScheduleId).Error
	if err != nil {
		return fmt.Errorf("error loading scheduled post %s: %w", payload.ScheduleId, err)
	}

	// Cancelled or already handled rows can still have a task in flight.
	if schedule.Status != database.ScheduleQueued {
		slog.Warn("skipping scheduled post with unexpected status", "schedule_id", schedule.Id, "status", schedule.Status)
		return nil
	}

	if schedule.Content == nil {
		if err := database.UpdateScheduledPostStatus(ctx, worker.DB, schedule.Id, database.ScheduleFailed); err != nil {
			slog.Error("error marking scheduled post failed", "schedule_id", schedule.Id, "error", err)
		}
		return fmt.Errorf("scheduled post %s has no content row", schedule.Id)
	}

	if err := worker.Deliverer.Publish(ctx, schedule.Platform, schedule.ContentId, schedule.Content.Content); err != nil {
		if err := database.UpdateScheduledPostStatus(ctx, worker.DB, schedule.Id, database.ScheduleFailed); err != nil {
			slog.Error("error marking scheduled post failed", "schedule_id", schedule.Id, "error", err)
		}
		return fmt.Errorf("failed to deliver post %d to %s: %w", schedule.ContentId, schedule.Platform, err)
	}

	if err := database.UpdateScheduledPostStatus(ctx, worker.DB, schedule.Id, database.SchedulePublished); err != nil {
		slog.Error("error marking scheduled post published", "schedule_id", schedule.Id, "error", err)
	}
	if err := database.UpdateContentStatus(ctx, worker.DB, schedule.ContentId, database.ContentPublished); err != nil {
		slog.Error("error marking content published", "content_id", schedule.ContentId, "error", err)
	}

	slog.Info("published scheduled post", "schedule_id", schedule.Id, "content_id", schedule.ContentId, "platform", schedule.Platform)
	return nil
}
