package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"portfolioAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []string, p notification.Push) error
}

type DispatchJob struct {
	Kind string
	Push notification.Push
}

// NotificationDispatcher delivers owner notifications on a small worker pool
// so request handlers never wait on FCM.
type NotificationDispatcher struct {
	pushProvider PushNotificationProvider
	tokens       []string
	logger       *zap.Logger
	workers      int
	jobQueue     chan *DispatchJob
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewNotificationDispatcher starts the workers. provider may be nil, in
// which case jobs are logged and dropped.
func NewNotificationDispatcher(provider PushNotificationProvider, tokens []string, workers int, logger *zap.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}

	d := &NotificationDispatcher{
		pushProvider: provider,
		tokens:       tokens,
		logger:       logger,
		workers:      workers,
		jobQueue:     make(chan *DispatchJob, 100),
		stopChan:     make(chan struct{}),
	}

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

// Enqueue schedules a job without blocking. It reports false when the job
// was dropped because the queue is full or the dispatcher is stopped.
func (d *NotificationDispatcher) Enqueue(job *DispatchJob) bool {
	select {
	case <-d.stopChan:
		d.logger.Warn("dispatcher stopped, dropping notification", zap.String("kind", job.Kind))
		return false
	default:
	}

	select {
	case d.jobQueue <- job:
		return true
	default:
		d.logger.Warn("notification queue full, dropping notification", zap.String("kind", job.Kind))
		return false
	}
}

// Stop signals the workers, lets them drain queued jobs and waits for them.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
	d.wg.Wait()
}

func (d *NotificationDispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(id, job)
		case <-d.stopChan:
			for {
				select {
				case job := <-d.jobQueue:
					d.processJob(id, job)
				default:
					return
				}
			}
		}
	}
}

func (d *NotificationDispatcher) processJob(workerID int, job *DispatchJob) {
	if d.pushProvider == nil || len(d.tokens) == 0 {
		d.logger.Debug("no push provider configured, skipping notification",
			zap.String("kind", job.Kind))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.pushProvider.SendPush(ctx, d.tokens, job.Push); err != nil {
		d.logger.Error("failed to send push notification",
			zap.Int("worker", workerID),
			zap.String("kind", job.Kind),
			zap.Error(err))
		return
	}

	d.logger.Debug("push notification sent", zap.Int("worker", workerID), zap.String("kind", job.Kind))
}
