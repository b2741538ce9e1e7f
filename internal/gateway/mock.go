package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scripted Client for tests. It records every message batch it
// receives and replays canned replies in order.
type Mock struct {
	mu      sync.Mutex
	replies []string
	calls   [][]Message
}

func NewMock(replies ...string) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) Chat(_ context.Context, messages []Message) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := make([]Message, len(messages))
	copy(batch, messages)
	m.calls = append(m.calls, batch)

	n := len(m.calls) - 1
	if n < len(m.replies) {
		return m.replies[n]
	}
	return fmt.Sprintf("mock question %d", n+1)
}

// Calls returns a copy of every message batch received so far.
func (m *Mock) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([][]Message, len(m.calls))
	copy(calls, m.calls)
	return calls
}
