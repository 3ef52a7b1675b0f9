package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	PublishQueue    = "publish_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

type PublishTaskPayload struct {
	ScheduleId uuid.UUID
}

type Publisher interface {
	PublishScheduledPost(ctx context.Context, payload PublishTaskPayload) error

	Close()
}

type Reciever interface {
	Tasks() <-chan Task

	Close()
}
