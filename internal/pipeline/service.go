package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docbrief/internal/config"
)

// Service runs document analyses asynchronously behind a bounded queue.
// Each job runs its own pipeline; nothing is shared between runs.
type Service struct {
	jobs  *JobStore
	queue chan *Job
	orch  *Orchestrator
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates the analysis service.
func NewService(cfg config.Config, orch *Orchestrator, log *slog.Logger) *Service {
	return &Service{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		orch:  orch,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (s *Service) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for range s.cfg.WorkerCount {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-s.queue:
					if !ok {
						return
					}
					s.run(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	close(s.queue)
	s.wg.Wait()
}

// Submit queues a new job for processing.
func (s *Service) Submit(job *Job) error {
	s.jobs.Put(job)
	select {
	case s.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed)
		job.SetError("queue full")
		return fmt.Errorf("job queue is full (%d)", s.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (s *Service) GetJob(id string) *Job {
	return s.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (s *Service) QueueDepth() int {
	return len(s.queue)
}

// run executes one job through the orchestrator, mirroring stage
// transitions onto the job for status polling.
func (s *Service) run(ctx context.Context, job *Job) {
	log := s.log.With("job_id", job.ID, "filename", job.Filename)
	job.SetStatus(StatusProcessing)

	result, err := s.orch.Process(ctx, job.Text(), func(stage Stage, state State) {
		job.SetStage(stage, state)
	})
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.SetError(err.Error())
		job.SetStatus(StatusFailed)
		return
	}

	job.SetResult(result)
	job.SetStatus(StatusCompleted)
	log.Info("analysis complete",
		"chunks", result.Metadata.NumChunks,
		"actions", len(result.Actions),
		"risks", len(result.Risks.Risks),
	)
}
