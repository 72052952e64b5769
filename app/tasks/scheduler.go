package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Scheduler enqueues a fresh digest task on a fixed interval and executes
// tasks on a single worker: digests never overlap, matching the pipeline's
// sequential execution model.
type Scheduler struct {
	newTask   func() TaskInterface
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(newTask func() TaskInterface, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		newTask:   newTask,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 4),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// First digest right at startup, then on the interval.
		s.enqueueDigest()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDigest()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueDigest() {
	if err := s.EnqueueTask(s.newTask()); err != nil {
		slog.Warn("Failed to enqueue digest task", "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 15*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		// No retry: the next scheduled run is the recovery path.
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}
