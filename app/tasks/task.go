package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeDigest TaskType = "digest"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by all task types. There is no retry
// machinery: skip-and-continue is the uniform recovery strategy.
type Task struct {
	ID        string
	Type      TaskType
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType) Task {
	return Task{
		ID:   uuid.NewString(),
		Type: taskType,
	}
}
