package realtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/regolith/internal/errs"
)

// DefaultSendTimeout bounds a single delivery to a single observer.
const DefaultSendTimeout = 10 * time.Second

// Broadcaster delivers payloads to every observer in a Registry.
type Broadcaster struct {
	reg         *Registry
	log         *zap.Logger
	sendTimeout time.Duration

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewBroadcaster constructs a broadcaster over reg. A non-positive
// sendTimeout falls back to DefaultSendTimeout.
func NewBroadcaster(reg *Registry, log *zap.Logger, sendTimeout time.Duration) *Broadcaster {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Broadcaster{reg: reg, log: log, sendTimeout: sendTimeout}
}

// Broadcast sends payload to every observer registered when it is called,
// concurrently, and returns how many deliveries succeeded. Observers that fail
// are unregistered and closed; the others are unaffected.
func (b *Broadcaster) Broadcast(ctx context.Context, payload string) int {
	members := b.reg.Snapshot()
	if len(members) == 0 {
		return 0
	}

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
	)
	for _, m := range members {
		wg.Add(1)
		go func(m Member) {
			defer wg.Done()
			if err := b.deliver(ctx, m, payload); err != nil {
				b.drop(m, err)
				return
			}
			delivered.Add(1)
		}(m)
	}
	wg.Wait()
	return int(delivered.Load())
}

// Publish dispatches payload on a detached goroutine and returns immediately.
// Publishing after Close is a no-op.
func (b *Broadcaster) Publish(payload string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.inflight.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.inflight.Done()
		n := b.Broadcast(context.Background(), payload)
		b.log.Debug("broadcast", zap.String("payload", payload), zap.Int("delivered", n))
	}()
}

// Close stops accepting publishes and waits for in-flight ones to finish.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.inflight.Wait()
}

func (b *Broadcaster) deliver(ctx context.Context, m Member, payload string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, b.sendTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return m.Observer.Send(ctx, payload)
}

func (b *Broadcaster) drop(m Member, cause error) {
	if !b.reg.Unregister(m.ID) {
		return
	}
	_ = m.Observer.Close()
	b.log.Debug("observer dropped",
		zap.String("observer", m.ID.String()),
		zap.Error(fmt.Errorf("%w: %w", errs.ErrDeliveryFailed, cause)),
	)
}
