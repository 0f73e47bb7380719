package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SubmissionEvent describes websocket payloads emitted as submissions start and finish.
type SubmissionEvent struct {
	Type               string    `json:"type"`
	SubmissionID       string    `json:"submission_id"`
	Outcome            string    `json:"outcome,omitempty"`
	Status             int       `json:"status,omitempty"`
	FailureProbability *float64  `json:"failure_probability,omitempty"`
	RiskLevel          string    `json:"risk_level,omitempty"`
	Message            string    `json:"message,omitempty"`
	Features           int       `json:"features"`
	DurationMs         int64     `json:"duration_ms,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// Event types broadcast on the stream.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

const (
	clientBuffer = 32
	writeTimeout = 10 * time.Second
)

// wsClient owns one websocket connection. Events are queued on send and
// written by the client's own goroutine.
type wsClient struct {
	conn *websocket.Conn
	send chan SubmissionEvent
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, send: make(chan SubmissionEvent, clientBuffer)}
}

// close stops the writer and closes the socket. Safe to call more than once.
func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// SubmissionNotifier keeps track of websocket clients and broadcasts submission events.
type SubmissionNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    *SubmissionEvent
}

// NewSubmissionNotifier constructs a notifier instance.
func NewSubmissionNotifier() *SubmissionNotifier {
	return &SubmissionNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection, starts its writer and queues the
// latest finished event.
func (n *SubmissionNotifier) Register(conn *websocket.Conn) *wsClient {
	client := newWSClient(conn)

	n.mu.Lock()
	n.clients[client] = struct{}{}
	if n.last != nil {
		client.send <- *n.last
	}
	n.mu.Unlock()

	go n.writeLoop(client)
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *SubmissionNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	client.close()
}

// Broadcast queues the event for every registered client without waiting on
// the network. A client whose queue is full is dropped.
func (n *SubmissionNotifier) Broadcast(event SubmissionEvent) {
	event.Timestamp = time.Now().UTC()

	var slow []*wsClient
	n.mu.Lock()
	if event.Type != EventStarted {
		snapshot := event
		n.last = &snapshot
	}
	for client := range n.clients {
		select {
		case client.send <- event:
		default:
			delete(n.clients, client)
			slow = append(slow, client)
		}
	}
	n.mu.Unlock()

	for _, client := range slow {
		client.close()
	}
}

// Clients reports the number of connected websocket clients.
func (n *SubmissionNotifier) Clients() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

func (n *SubmissionNotifier) writeLoop(client *wsClient) {
	for event := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.conn.WriteJSON(event); err != nil {
			n.Unregister(client)
			return
		}
	}
}
