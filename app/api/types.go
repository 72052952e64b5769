package api

import (
	"time"

	"github.com/samshap/dog-digest/app/tasks"
)

type Handler struct {
	status        *tasks.Status
	scheduler     tasks.TaskSchedulerInterface
	newDigestTask func() tasks.TaskInterface
	version       string
	centers       int
	interval      time.Duration
}

func NewHandler(status *tasks.Status, scheduler tasks.TaskSchedulerInterface,
	newDigestTask func() tasks.TaskInterface, version string, centers int,
	interval time.Duration) *Handler {
	return &Handler{
		status:        status,
		scheduler:     scheduler,
		newDigestTask: newDigestTask,
		version:       version,
		centers:       centers,
		interval:      interval,
	}
}
