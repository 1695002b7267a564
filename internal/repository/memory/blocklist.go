package memory

import (
	"context"
	"sync"
	"time"
)

// Blocklist keeps revoked token ids in memory until they expire.
type Blocklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewBlocklist() *Blocklist {
	return &Blocklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *Blocklist) Block(ctx context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, id)
		}
	}
	b.entries[tokenID] = now.Add(ttl)
	return nil
}

func (b *Blocklist) IsBlocked(ctx context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[tokenID]
	return ok && b.now().Before(exp), nil
}
