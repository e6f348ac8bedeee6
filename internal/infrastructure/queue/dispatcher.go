package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes payment confirmations to a fixed set of workers using
// consistent hashing on the intent ref, so redeliveries of one confirmation
// are applied in arrival order by a single worker.
type Dispatcher struct {
	workers []chan ports.ConfirmationInput
	service ports.OrderService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.OrderService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ConfirmationInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ConfirmationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a confirmation to the worker responsible for its intent ref.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(input ports.ConfirmationInput) {
	d.workers[d.shardIndex(input.PaymentIntentRef)] <- input
}

// EnqueueBatch enqueues multiple confirmations preserving per-ref ordering.
func (d *Dispatcher) EnqueueBatch(inputs []ports.ConfirmationInput) {
	for _, in := range inputs {
		d.Enqueue(in)
	}
}

// shardIndex maps an intent ref deterministically to a worker index.
func (d *Dispatcher) shardIndex(intentRef string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(intentRef))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ConfirmationInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			if err := d.service.ConfirmCapture(ctx, input); err != nil {
				d.log.Error().Err(err).
					Str("intent_ref", input.PaymentIntentRef).
					Int("worker_id", id).
					Msg("confirmation processing failed")
			}
			metrics.ConfirmationProcessingDuration.Observe(time.Since(start).Seconds())
		}
	}
}
