package rooms

import (
	"encoding/json"
	"sync"

	"mediroom/types"

	"github.com/google/uuid"
)

// Connection ties one live socket to an authenticated user and at most one
// room. Outbound frames go through a buffered inbox drained by a single
// writer; a connection that cannot keep up is closed rather than allowed to
// stall broadcasts for the rest of the room.
type Connection struct {
	ID       string
	UserID   int
	Username string

	mu     sync.Mutex
	roomID uuid.UUID

	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

const outboundBuffer = 64

func NewConnection(userID int, username string) *Connection {
	return &Connection{
		ID:       uuid.New().String(),
		UserID:   userID,
		Username: username,
		out:      make(chan []byte, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Send queues a frame without blocking. Returns false when the connection is
// closed or its inbox overflowed (the connection is closed in that case).
func (c *Connection) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- frame:
		return true
	case <-c.done:
		return false
	default:
		c.Close()
		return false
	}
}

func (c *Connection) SendError(message string) {
	frame, _ := json.Marshal(types.ErrorFrame{Type: "error", Message: message})
	c.Send(frame)
}

// Outbound is drained by the socket writer goroutine.
func (c *Connection) Outbound() <-chan []byte {
	return c.out
}

func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Connection) RoomID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Connection) setRoom(id uuid.UUID) {
	c.mu.Lock()
	c.roomID = id
	c.mu.Unlock()
}

func (c *Connection) clearRoom() {
	c.setRoom(uuid.Nil)
}
