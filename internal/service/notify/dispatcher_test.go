package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSink struct {
	mu       sync.Mutex
	got      []string
	closed   chan struct{}
	once     sync.Once
	block    chan struct{}
	fail     bool
	received chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{closed: make(chan struct{}), received: make(chan struct{}, 100)}
}

func (s *fakeSink) Deliver(ctx context.Context, msg domain.ServerMessage) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.got = append(s.got, msg.Type)
	s.mu.Unlock()
	s.received <- struct{}{}
	if s.fail {
		return errors.New("broken pipe")
	}
	return nil
}

func (s *fakeSink) Close() {
	s.once.Do(func() { close(s.closed) })
}

func (s *fakeSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.got...)
}

func waitClosed(t *testing.T, s *fakeSink) {
	t.Helper()
	select {
	case <-s.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("sink was not closed")
	}
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), 8, time.Second)
	sink := newFakeSink()
	d.Attach("alice", sink)

	d.Send("alice", domain.ServerMessage{Type: "a"})
	d.Send("alice", domain.ServerMessage{Type: "b"})
	d.Send("nobody", domain.ServerMessage{Type: "ignored"})
	d.Close()

	waitClosed(t, sink)
	assert.Equal(t, []string{"a", "b"}, sink.types())
}

func TestDispatcher_SlowSinkDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), 8, 5*time.Second)
	slow := newFakeSink()
	slow.block = make(chan struct{})
	fast := newFakeSink()
	d.Attach("slow", slow)
	d.Attach("fast", fast)

	d.Send("slow", domain.ServerMessage{Type: "stuck"})
	d.Send("fast", domain.ServerMessage{Type: "ok"})

	select {
	case <-fast.received:
	case <-time.After(2 * time.Second):
		t.Fatal("fast sink starved by slow sink")
	}
	assert.Empty(t, slow.types())

	close(slow.block)
	d.Close()
	assert.Equal(t, []string{"stuck"}, slow.types())
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), 8, time.Second)
	sink := newFakeSink()
	sink.fail = true
	d.Attach("alice", sink)

	d.Send("alice", domain.ServerMessage{Type: "a"})
	d.Send("alice", domain.ServerMessage{Type: "b"})
	d.Close()

	assert.Equal(t, []string{"a", "b"}, sink.types())
}

func TestDispatcher_AttachReplacesAndClosesPrevious(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), 8, time.Second)
	first := newFakeSink()
	second := newFakeSink()

	d.Attach("alice", first)
	d.Send("alice", domain.ServerMessage{Type: "to-first"})
	d.Attach("alice", second)
	d.Send("alice", domain.ServerMessage{Type: "to-second"})

	waitClosed(t, first)
	d.Detach("alice", first)
	d.Close()

	assert.Equal(t, []string{"to-first"}, first.types())
	assert.Equal(t, []string{"to-second"}, second.types())
}

func TestDispatcher_FullQueueDropsOldest(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), 2, 5*time.Second)
	sink := newFakeSink()
	sink.block = make(chan struct{})
	d.Attach("alice", sink)

	// first message is picked up by the worker and blocks; the rest queue up
	d.Send("alice", domain.ServerMessage{Type: "1"})
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return len(d.queues["alice"].ch) == 0
	}, 2*time.Second, 5*time.Millisecond)
	for _, typ := range []string{"2", "3", "4", "5"} {
		d.Send("alice", domain.ServerMessage{Type: typ})
	}

	d.mu.Lock()
	_, attached := d.queues["alice"]
	d.mu.Unlock()
	assert.True(t, attached)

	select {
	case <-sink.closed:
		t.Fatal("sink closed on overflow")
	default:
	}

	close(sink.block)
	d.Close()
	waitClosed(t, sink)
	assert.Equal(t, []string{"1", "4", "5"}, sink.types())
}
