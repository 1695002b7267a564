package notify

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

// Sink is a session's outbound channel. The dispatcher is the only caller of
// Deliver for a given sink, one message at a time.
type Sink interface {
	Deliver(ctx context.Context, msg domain.ServerMessage) error
	Close()
}

type queue struct {
	sink Sink
	ch   chan domain.ServerMessage
}

// Dispatcher owns one bounded queue and one delivery goroutine per user.
// Send never blocks; when a queue is full its oldest message is discarded.
// Only Detach, Attach and Close end a delivery goroutine.
type Dispatcher struct {
	mu      sync.Mutex
	queues  map[string]*queue
	size    int
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, queueSize int, writeTimeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Dispatcher{
		queues:  make(map[string]*queue),
		size:    queueSize,
		timeout: writeTimeout,
		log:     log,
	}
}

// Attach makes sink the push channel for user. A previous sink keeps
// receiving what was already queued for it and is then closed.
func (d *Dispatcher) Attach(user string, sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.queues[user]; ok {
		if old.sink == sink {
			return
		}
		close(old.ch)
	}

	q := &queue{sink: sink, ch: make(chan domain.ServerMessage, d.size)}
	d.queues[user] = q

	d.wg.Add(1)
	go d.run(user, q)
}

// Detach drops user's queue if sink is still the current one.
func (d *Dispatcher) Detach(user string, sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if q, ok := d.queues[user]; ok && q.sink == sink {
		delete(d.queues, user)
		close(q.ch)
	}
}

func (d *Dispatcher) Send(user string, msg domain.ServerMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[user]
	if !ok {
		return
	}

	for {
		select {
		case q.ch <- msg:
			return
		default:
		}

		select {
		case dropped := <-q.ch:
			d.log.Warn("outbound queue full, dropping oldest message",
				zap.String("user", user),
				zap.String("dropped", dropped.Type),
			)
		default:
		}
	}
}

// Close detaches every session and waits for pending deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	for user, q := range d.queues {
		delete(d.queues, user)
		close(q.ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run(user string, q *queue) {
	defer d.wg.Done()
	defer q.sink.Close()

	for msg := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := q.sink.Deliver(ctx, msg)
		cancel()
		if err != nil {
			d.log.Warn("delivery failed",
				zap.String("user", user),
				zap.String("type", msg.Type),
				zap.Error(err),
			)
		}
	}
}
