package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WorkerPool polls the job store and dispatches jobs to registered handlers
type WorkerPool struct {
	store       Store
	handlers    map[string]Handler
	logger      zerolog.Logger
	workerCount int
	pollDelay   time.Duration
	stop        chan struct{}
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool of workerCount goroutines over the given store
func NewWorkerPool(store Store, handlers map[string]Handler, logger zerolog.Logger, workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 2
	}
	return &WorkerPool{
		store:       store,
		handlers:    handlers,
		logger:      logger,
		workerCount: workerCount,
		pollDelay:   500 * time.Millisecond,
		stop:        make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info().Int("workers", p.workerCount).Msg("Worker pool started")
}

// Stop signals workers to stop and waits for them to drain
func (p *WorkerPool) Stop() {
	close(p.stop)
	p.wg.Wait()
	p.logger.Info().Msg("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.logger.Debug().Int("worker", id).Msg("Worker stopping")
			return
		case <-ctx.Done():
			p.logger.Debug().Int("worker", id).Msg("Context canceled, worker exiting")
			return
		default:
			job, err := p.store.FetchNext(ctx)
			if err != nil {
				p.logger.Error().Err(err).Msg("Failed to fetch job")
				p.sleep(time.Second)
				continue
			}
			if job == nil {
				p.sleep(p.pollDelay)
				continue
			}
			p.process(ctx, job)
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, job *Job) {
	handler, ok := p.handlers[job.Type]
	if !ok {
		job.Status = StatusFailed
		job.LastError = "no handler registered for job type"
		if err := p.store.MoveToDeadLetter(ctx, job); err != nil {
			p.logger.Error().Err(err).Int64("job_id", job.ID).Msg("Failed to dead-letter job")
		}
		return
	}

	err := handler(ctx, job)
	if err == nil {
		job.Status = StatusDone
		job.LastError = ""
		job.NextTryAt = nil
		if upErr := p.store.UpdateJob(ctx, job); upErr != nil {
			p.logger.Error().Err(upErr).Int64("job_id", job.ID).Msg("Failed to mark job done")
		}
		return
	}

	job.Attempts++
	job.LastError = err.Error()
	p.logger.Warn().
		Err(err).
		Int64("job_id", job.ID).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("Job handler failed")

	if job.Attempts >= job.MaxAttempts {
		job.Status = StatusFailed
		if mvErr := p.store.MoveToDeadLetter(ctx, job); mvErr != nil {
			p.logger.Error().Err(mvErr).Int64("job_id", job.ID).Msg("Failed to dead-letter job")
		}
		return
	}

	next := time.Now().Add(BackoffDuration(job.Attempts))
	job.NextTryAt = &next
	job.Status = StatusRetry
	if upErr := p.store.UpdateJob(ctx, job); upErr != nil {
		p.logger.Error().Err(upErr).Int64("job_id", job.ID).Msg("Failed to schedule retry")
	}
}

// sleep waits for d or until the pool is stopped
func (p *WorkerPool) sleep(d time.Duration) {
	select {
	case <-p.stop:
	case <-time.After(d):
	}
}

// GetByID exposes job state lookups through the pool
func (p *WorkerPool) GetByID(ctx context.Context, id int64) (*Job, error) {
	return p.store.GetByID(ctx, id)
}

// Enqueue marshals the payload and persists a new job, returning its id
func (p *WorkerPool) Enqueue(ctx context.Context, typ string, payload any, priority, maxAttempts int) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	j := &Job{Type: typ, Payload: b, Priority: priority, MaxAttempts: maxAttempts, ScheduledAt: time.Now()}
	return p.store.Enqueue(ctx, j)
}
