package bus

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Broadcaster is one fan-out scope: a set of subscriber channels that a
// single sender pushes the same Message to concurrently. Used for both
// the process-wide global scope and one instance per lobby.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]chan<- Message
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]chan<- Message)}
}

// Subscribe registers ch under key (typically a player uuid). A second
// Subscribe under the same key replaces the previous channel.
func (b *Broadcaster) Subscribe(key string, ch chan<- Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[key] = ch
}

// Unsubscribe removes key's channel, if present.
func (b *Broadcaster) Unsubscribe(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, key)
}

// Send fans m out to every current subscriber concurrently via errgroup.
// A subscriber whose buffer is full has the message dropped for it; this
// is logged, never returned as an error, and never blocks the other
// subscribers.
func (b *Broadcaster) Send(ctx context.Context, m Message) {
	b.mu.RLock()
	targets := make(map[string]chan<- Message, len(b.subs))
	for k, ch := range b.subs {
		targets[k] = ch
	}
	b.mu.RUnlock()

	g, _ := errgroup.WithContext(ctx)
	for key, ch := range targets {
		key, ch := key, ch
		g.Go(func() error {
			select {
			case ch <- m:
			default:
				slog.DebugContext(ctx, "dropped broadcast message: subscriber buffer full", "subscriber", key, "verb", m.Verb)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Len reports the current subscriber count, for tests and diagnostics.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
