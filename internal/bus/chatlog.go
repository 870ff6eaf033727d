package bus

import "sync"

// ChatLog is an append-only, mutex-guarded chat history shared by the
// global scope and every lobby's own scope.
type ChatLog struct {
	mu      sync.Mutex
	history []ChatMessage
}

// Append adds msg to the log.
func (c *ChatLog) Append(msg ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, msg)
}

// Snapshot returns the last n messages (all of them if n <= 0 or the log
// holds fewer than n), satisfying the chat-history-snapshot-length bound.
func (c *ChatLog) Snapshot(n int) []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || len(c.history) <= n {
		out := make([]ChatMessage, len(c.history))
		copy(out, c.history)
		return out
	}
	out := make([]ChatMessage, n)
	copy(out, c.history[len(c.history)-n:])
	return out
}
