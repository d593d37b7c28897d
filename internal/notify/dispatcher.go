package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Sink consumes one notification job.
type Sink interface {
	Notify(ctx context.Context, job Job)
}

// Dispatcher fans notifications out to the sink on a fixed pool of workers.
// Enqueue never blocks the request path: when the queue is full the job is
// dropped with a log line, since every notification is best-effort anyway.
type Dispatcher struct {
	sink    Sink
	workers int
	logger  *slog.Logger

	jobs   chan Job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the dispatcher with a bounded queue.
func NewDispatcher(sink Sink, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sink:    sink,
		workers: workers,
		logger:  logger,
		jobs:    make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue queues the job for asynchronous delivery.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		orderID := ""
		if job.Order != nil {
			orderID = job.Order.ID
		}
		d.logger.Warn("notification queue full, dropping job",
			slog.String("order", orderID),
			slog.String("event", string(job.Event)),
		)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			// Drain what is already queued before exiting.
			for {
				select {
				case job := <-d.jobs:
					d.sink.Notify(context.Background(), job)
				default:
					return
				}
			}
		case job := <-d.jobs:
			d.sink.Notify(ctx, job)
		}
	}
}
