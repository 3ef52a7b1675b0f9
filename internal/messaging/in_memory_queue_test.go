package messaging_test

import (
	"context"
	"testing"

	"github.com/krishkalaria12/Bingo/internal/messaging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueClose(t *testing.T) {
	queue := messaging.NewInMemoryQueue()
	require.NoError(t, queue.PublishScheduledPost(context.Background(), messaging.PublishTaskPayload{ScheduleId: uuid.New()}))

	queue.Close()
	queue.Close() // second close is a no-op

	// Tasks called after Close still drains the buffered task and terminates.
	var tasks []messaging.Task
	for task := range queue.Tasks() {
		tasks = append(tasks, task)
	}
	require.Len(t, tasks, 1)
	assert.Equal(t, messaging.PublishQueue, tasks[0].Type())
}
