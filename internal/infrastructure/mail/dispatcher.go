package mail

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/api/metrics"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher delivers outbound mail from a fixed set of workers using
// consistent hashing on the recipient address, so messages to the same
// address are sent in enqueue order.
type Dispatcher struct {
	workers []chan ports.MailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a message to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity; when the worker
// queue is full the message is dropped and logged rather than stalling
// the request path.
func (d *Dispatcher) Enqueue(msg ports.MailMessage) {
	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.MailDeliveriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("to", msg.To).
			Int("worker_id", idx).
			Msg("mail queue full, message dropped")
	}
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailMessage) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(label).Dec()
			if err := d.mailer.Send(ctx, msg); err != nil {
				metrics.MailDeliveriesTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", msg.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailDeliveriesTotal.WithLabelValues("ok").Inc()
		}
	}
}
