package rooms

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddRemove(t *testing.T) {
	registry := NewRegistry()
	roomID := uuid.New()

	alice := NewConnection(1, "alice")
	bob := NewConnection(2, "bob")

	registry.Add(roomID, alice)
	registry.Add(roomID, bob)
	assert.Equal(t, 2, registry.Count(roomID))

	registry.Remove(roomID, alice.ID)
	assert.Equal(t, 1, registry.Count(roomID))

	// Removing twice has no effect.
	registry.Remove(roomID, alice.ID)
	assert.Equal(t, 1, registry.Count(roomID))

	registry.Remove(roomID, bob.ID)
	assert.Equal(t, 0, registry.Count(roomID))
}

func TestRegistryBroadcastSkipsDeadConnections(t *testing.T) {
	registry := NewRegistry()
	roomID := uuid.New()

	alive := NewConnection(1, "alice")
	dead := NewConnection(2, "bob")
	registry.Add(roomID, alive)
	registry.Add(roomID, dead)

	dead.Close()
	registry.Broadcast(roomID, []byte(`{"type":"system"}`))

	select {
	case frame := <-alive.Outbound():
		assert.Equal(t, `{"type":"system"}`, string(frame))
	default:
		t.Fatal("live connection did not receive the broadcast")
	}
}

func TestRegistryBroadcastOrder(t *testing.T) {
	registry := NewRegistry()
	roomID := uuid.New()

	alice := NewConnection(1, "alice")
	bob := NewConnection(2, "bob")
	registry.Add(roomID, alice)
	registry.Add(roomID, bob)

	frames := [][]byte{[]byte(`1`), []byte(`2`), []byte(`3`)}
	for _, f := range frames {
		registry.Broadcast(roomID, f)
	}

	for _, conn := range []*Connection{alice, bob} {
		for _, want := range frames {
			select {
			case got := <-conn.Outbound():
				assert.Equal(t, string(want), string(got))
			default:
				t.Fatalf("connection %s missed a frame", conn.Username)
			}
		}
	}
}

func TestConnectionOverflowCloses(t *testing.T) {
	conn := NewConnection(1, "alice")
	for i := 0; i < outboundBuffer; i++ {
		require.True(t, conn.Send([]byte(`x`)))
	}
	// The inbox is full; the next send drops the connection instead of
	// blocking a broadcast.
	assert.False(t, conn.Send([]byte(`x`)))
	select {
	case <-conn.Done():
	default:
		t.Fatal("overflowed connection was not closed")
	}
}

func TestBroadcastToUnknownRoom(t *testing.T) {
	registry := NewRegistry()
	registry.Broadcast(uuid.New(), []byte(`{}`))
	assert.Equal(t, 0, registry.Count(uuid.New()))
}
