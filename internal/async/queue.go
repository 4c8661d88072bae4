package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

// ErrQueueClosed is returned by Process after Shutdown has started.
var ErrQueueClosed = errors.New("processing queue is shutting down")

// Processor is the unit of work run by each worker.
type Processor interface {
	Process(ctx context.Context, doc entity.Document) (pipeline.Result, error)
}

// Job is one document waiting for a worker.
type Job struct {
	ID          uuid.UUID
	Doc         entity.Document
	SubmittedAt time.Time

	ctx  context.Context
	done chan outcome
}

type outcome struct {
	res pipeline.Result
	err error
}

// Queue bounds how many documents are processed at once. Callers block in
// Process until their document is processed or their context ends.
type Queue struct {
	proc    Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan *Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan *Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(proc Processor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan *Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.run(workerID, job)
				}
				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) run(workerID int, job *Job) {
	if err := job.ctx.Err(); err != nil {
		q.logger.Info("queue.job.abandoned", "worker_id", workerID, "job_id", job.ID)
		job.done <- outcome{err: err}
		return
	}
	ctx, cancel := context.WithTimeout(job.ctx, q.timeout)
	defer cancel()

	wait := time.Since(job.SubmittedAt)
	res, err := q.proc.Process(ctx, job.Doc)
	if err != nil {
		q.logger.Info("queue.job.failed", "worker_id", workerID, "job_id", job.ID, "wait_ms", wait.Milliseconds(), "error", err)
	} else {
		q.logger.Info("queue.job.done", "worker_id", workerID, "job_id", job.ID, "wait_ms", wait.Milliseconds())
	}
	job.done <- outcome{res: res, err: err}
}

// Process enqueues doc and waits for its result. A full queue applies
// backpressure: Process blocks until a slot frees up or ctx ends.
func (q *Queue) Process(ctx context.Context, doc entity.Document) (pipeline.Result, error) {
	job := &Job{
		ID:          uuid.New(),
		Doc:         doc,
		SubmittedAt: time.Now(),
		ctx:         ctx,
		done:        make(chan outcome, 1),
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return pipeline.Result{}, common.NewAppError("QUEUE_CLOSED", "service is shutting down", ErrQueueClosed)
	}
	select {
	case q.ch <- job:
		q.mu.RUnlock()
	case <-ctx.Done():
		q.mu.RUnlock()
		q.logger.Warn("queue.full", "job_id", job.ID)
		return pipeline.Result{}, ctx.Err()
	}

	select {
	case out := <-job.done:
		return out.res, out.err
	case <-ctx.Done():
		return pipeline.Result{}, ctx.Err()
	}
}

// Shutdown stops accepting work and waits for queued jobs to drain.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.complete")
	}
}
