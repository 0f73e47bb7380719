package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDropsStalledClient(t *testing.T) {
	n := NewSubmissionNotifier()
	stalled := newWSClient(nil)
	n.mu.Lock()
	n.clients[stalled] = struct{}{}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < clientBuffer+5; i++ {
			n.Broadcast(SubmissionEvent{Type: EventCompleted, SubmissionID: "s"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a client that never drains")
	}
	assert.Equal(t, 0, n.Clients())

	queued := 0
	for range stalled.send {
		queued++
	}
	assert.Equal(t, clientBuffer, queued)
}

func TestBroadcastRemembersFinishedEvent(t *testing.T) {
	n := NewSubmissionNotifier()
	n.Broadcast(SubmissionEvent{Type: EventCompleted, SubmissionID: "done"})
	n.Broadcast(SubmissionEvent{Type: EventStarted, SubmissionID: "next"})

	n.mu.Lock()
	last := n.last
	n.mu.Unlock()
	require.NotNil(t, last)
	assert.Equal(t, "done", last.SubmissionID)
	assert.False(t, last.Timestamp.IsZero())
}
