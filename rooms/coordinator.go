package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"mediroom/services/vitals"
	"mediroom/sources/psql/dao"
	"mediroom/sources/psql/models"
	"mediroom/types"
	"mediroom/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateway is the assistant turn contract consumed by the coordinator.
type Gateway interface {
	CreateThread(ctx context.Context) (string, error)
	SendTurn(ctx context.Context, threadID, content, variant string) (string, error)
}

// Progress receives extracted signals. Failures here are logged, never
// surfaced to chat participants.
type Progress interface {
	RecordVitalSample(ctx context.Context, threadID string, sample *vitals.Sample) error
	RecordScore(ctx context.Context, scenarioID string, userID int, score float64, rawFeedback string) error
}

const (
	SystemUsername    = "system"
	AssistantUsername = "assistant"
	DefaultVariant    = "clinical"
	defaultCapacity   = 4

	// Overlapping chat turns are queued, not raced: one worker per room
	// drains this queue, so at most one SendTurn is ever in flight per
	// thread. A full queue rejects the turn with ErrTurnInProgress; the
	// user's message is already persisted and broadcast by then.
	turnQueueDepth = 8
)

// Coordinator owns the per-room protocol: join, chat, leave, end. Every
// message is persisted before it is broadcast, and both happen under the
// room's critical section, so all live connections observe the transcript in
// insertion order.
type Coordinator struct {
	roomDAO        *dao.RoomDAO
	participantDAO *dao.ParticipantDAO
	messageDAO     *dao.MessageDAO
	progress       Progress
	gateway        Gateway
	registry       *Registry

	mu     sync.Mutex
	states map[uuid.UUID]*roomState
}

type roomState struct {
	mu         sync.Mutex
	ended      bool
	started    bool
	turns      chan turnRequest
	workerOnce sync.Once
}

func (st *roomState) isEnded() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ended
}

type turnRequest struct {
	conn    *Connection
	userID  int
	content string
}

func NewCoordinator(db *gorm.DB, gateway Gateway, registry *Registry, progress Progress) *Coordinator {
	return &Coordinator{
		roomDAO:        dao.NewRoomDAO(db),
		participantDAO: dao.NewParticipantDAO(db),
		messageDAO:     dao.NewMessageDAO(db),
		progress:       progress,
		gateway:        gateway,
		registry:       registry,
		states:         make(map[uuid.UUID]*roomState),
	}
}

func (c *Coordinator) state(roomID uuid.UUID) *roomState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[roomID]
	if !ok {
		st = &roomState{turns: make(chan turnRequest, turnQueueDepth)}
		c.states[roomID] = st
	}
	return st
}

// Create opens a new room with a freshly created assistant thread bound to it.
func (c *Coordinator) Create(ctx context.Context, scenarioID string, creatorID, capacity int, variant string) (*models.Room, error) {
	if variant == "" {
		variant = DefaultVariant
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	threadID, err := c.gateway.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("create assistant thread: %w", err)
	}
	room, err := c.roomDAO.CreateRoom(ctx, scenarioID, creatorID, capacity, threadID, variant)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	logging.AppLogger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("code", room.Code),
		zap.Int("creator_id", creatorID),
	)
	return room, nil
}

func (c *Coordinator) fetchOpenRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	room, err := c.roomDAO.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	if room == nil {
		return nil, ErrNotFound
	}
	if room.EndedAt != nil {
		return nil, ErrAlreadyEnded
	}
	return room, nil
}

// Join opens a participant row and registers the connection. Joining a room
// the user is already in is a no-op apart from registering the connection.
// The room is read inside the critical section: End commits under the same
// lock, so an ended room can never admit a participant here.
func (c *Coordinator) Join(ctx context.Context, roomID uuid.UUID, conn *Connection) error {
	st := c.state(roomID)
	st.mu.Lock()
	room, err := c.fetchOpenRoom(ctx, roomID)
	if err != nil {
		st.mu.Unlock()
		c.dropIdleState(roomID, st)
		return err
	}
	defer st.mu.Unlock()

	open, err := c.participantDAO.GetOpenParticipant(ctx, roomID, conn.UserID)
	if err != nil {
		return fmt.Errorf("transcript store: %w", err)
	}
	if open != nil {
		c.registry.Add(roomID, conn)
		conn.setRoom(roomID)
		return nil
	}

	count, err := c.participantDAO.CountOpenParticipants(ctx, roomID)
	if err != nil {
		return fmt.Errorf("transcript store: %w", err)
	}
	if count >= room.Capacity {
		return ErrFull
	}
	if _, err := c.participantDAO.OpenParticipant(ctx, roomID, conn.UserID); err != nil {
		return fmt.Errorf("transcript store: %w", err)
	}

	c.registry.Add(roomID, conn)
	conn.setRoom(roomID)

	_, err = c.persistAndBroadcast(ctx, roomID, models.SystemUserID, SystemUsername,
		fmt.Sprintf("%s joined the room", conn.Username), false)
	return err
}

// JoinByCode validates joinability for the REST surface without binding a
// connection; the live join happens over the socket.
func (c *Coordinator) JoinByCode(ctx context.Context, code string) (*models.Room, error) {
	room, err := c.roomDAO.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	if room == nil {
		return nil, ErrNotFound
	}
	if room.EndedAt != nil {
		return nil, ErrAlreadyEnded
	}
	count, err := c.participantDAO.CountOpenParticipants(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	if count >= room.Capacity {
		return nil, ErrFull
	}
	return room, nil
}

// Chat persists and broadcasts the user message immediately, then queues one
// assistant turn behind any turn already in flight for this room. The ended
// check, the persist and the enqueue all happen inside the room's critical
// section; End commits under the same lock, so a message can never land in an
// ended room and a turn can never be queued onto a closed queue.
func (c *Coordinator) Chat(ctx context.Context, roomID uuid.UUID, conn *Connection, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	st := c.state(roomID)
	st.mu.Lock()
	room, err := c.fetchOpenRoom(ctx, roomID)
	if err != nil {
		st.mu.Unlock()
		c.dropIdleState(roomID, st)
		return err
	}
	if conn.RoomID() != roomID {
		st.mu.Unlock()
		return ErrNotJoined
	}

	if _, err := c.persistAndBroadcast(ctx, roomID, conn.UserID, conn.Username, content, false); err != nil {
		// No assistant call for content that failed to persist.
		st.mu.Unlock()
		return err
	}

	st.workerOnce.Do(func() {
		st.started = true
		go c.runTurns(room, st)
	})
	queued := false
	select {
	case st.turns <- turnRequest{conn: conn, userID: conn.UserID, content: content}:
		queued = true
	default:
	}
	st.mu.Unlock()
	if !queued {
		return ErrTurnInProgress
	}
	return nil
}

// Leave closes the participant row if one is open and deregisters the
// connection. Leaving twice has no additional effect.
func (c *Coordinator) Leave(ctx context.Context, roomID uuid.UUID, conn *Connection) error {
	if conn.RoomID() != roomID {
		return nil
	}
	st := c.state(roomID)
	st.mu.Lock()
	defer st.mu.Unlock()

	c.registry.Remove(roomID, conn.ID)
	conn.clearRoom()

	open, err := c.participantDAO.GetOpenParticipant(ctx, roomID, conn.UserID)
	if err != nil {
		return fmt.Errorf("transcript store: %w", err)
	}
	if open == nil {
		return nil
	}
	if err := c.participantDAO.CloseParticipant(ctx, roomID, conn.UserID, timeNow()); err != nil {
		return fmt.Errorf("transcript store: %w", err)
	}
	_, err = c.persistAndBroadcast(ctx, roomID, models.SystemUserID, SystemUsername,
		fmt.Sprintf("%s left the room", conn.Username), false)
	return err
}

// End is creator-only. It closes every open participant row and makes the
// room immutable history; subsequent join and chat attempts fail with
// ErrAlreadyEnded. Closing the turn queue under the lock lets the room's
// worker goroutine drain and exit, and the state entry is dropped so ended
// rooms hold no memory.
func (c *Coordinator) End(ctx context.Context, roomID uuid.UUID, requesterID int) error {
	st := c.state(roomID)
	st.mu.Lock()
	room, err := c.fetchOpenRoom(ctx, roomID)
	if err != nil {
		st.mu.Unlock()
		c.dropIdleState(roomID, st)
		return err
	}
	if room.CreatorID != requesterID {
		st.mu.Unlock()
		return ErrForbidden
	}

	if _, err := c.persistAndBroadcast(ctx, roomID, models.SystemUserID, SystemUsername,
		"the session has ended", false); err != nil {
		st.mu.Unlock()
		return err
	}
	now := timeNow()
	if err := c.roomDAO.EndRoom(ctx, roomID, now); err != nil {
		st.mu.Unlock()
		return fmt.Errorf("transcript store: %w", err)
	}
	if err := c.participantDAO.CloseAllParticipants(ctx, roomID, now); err != nil {
		st.mu.Unlock()
		return fmt.Errorf("transcript store: %w", err)
	}
	st.ended = true
	close(st.turns)
	st.mu.Unlock()

	c.mu.Lock()
	if c.states[roomID] == st {
		delete(c.states, roomID)
	}
	c.mu.Unlock()

	logging.AppLogger.Info("room ended", zap.String("room_id", roomID.String()))
	return nil
}

// dropIdleState discards a state entry that was created for a room that
// turned out to be gone or ended, so rejected lookups do not pin map entries.
// An entry whose turn worker is running is left for End to reclaim.
func (c *Coordinator) dropIdleState(roomID uuid.UUID, st *roomState) {
	st.mu.Lock()
	idle := !st.started
	st.mu.Unlock()
	if !idle {
		return
	}
	c.mu.Lock()
	if c.states[roomID] == st {
		delete(c.states, roomID)
	}
	c.mu.Unlock()
}

// Transcript returns the full ordered message log, including for ended rooms.
func (c *Coordinator) Transcript(ctx context.Context, roomID uuid.UUID) ([]models.Message, error) {
	room, err := c.roomDAO.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	if room == nil {
		return nil, ErrNotFound
	}
	msgs, err := c.messageDAO.ListMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	return msgs, nil
}

// persistAndBroadcast inserts one message and fans it out. Callers hold the
// room's critical section, which is what makes the transcript order and the
// broadcast order identical.
func (c *Coordinator) persistAndBroadcast(ctx context.Context, roomID uuid.UUID, userID int, username, content string, isAssistant bool) (*models.Message, error) {
	msg, err := c.messageDAO.InsertMessage(ctx, roomID, userID, username, content, isAssistant)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	c.registry.Broadcast(roomID, encodeMessage(msg))
	return msg, nil
}

func timeNow() time.Time {
	return time.Now().UTC()
}

func encodeMessage(msg *models.Message) []byte {
	kind := "chat"
	if msg.UserID == models.SystemUserID && !msg.IsAssistant {
		kind = "system"
	}
	frame, _ := json.Marshal(types.MessageFrame{
		Type:        kind,
		RoomID:      msg.RoomID.String(),
		UserID:      msg.UserID,
		Username:    msg.Username,
		Content:     msg.Content,
		IsAssistant: msg.IsAssistant,
		SentAt:      msg.SentAt,
	})
	return frame
}

// runTurns is the single consumer of a room's turn queue. One goroutine per
// room means two chat messages can never race two SendTurn calls against the
// same thread.
func (c *Coordinator) runTurns(room *models.Room, st *roomState) {
	for req := range st.turns {
		c.driveTurn(room, st, req)
	}
}

func (c *Coordinator) driveTurn(room *models.Room, st *roomState, req turnRequest) {
	if st.isEnded() {
		if req.conn != nil {
			req.conn.SendError(ErrAlreadyEnded.Error())
		}
		return
	}

	// Deliberately not tied to any connection's context: a participant
	// disconnecting does not cancel an in-flight turn, the reply goes to
	// whoever remains.
	ctx := context.Background()
	defer logging.LogDuration(ctx, "assistant_turn")()

	reply, err := c.gateway.SendTurn(ctx, room.ThreadID, req.content, room.Variant)
	if err != nil {
		logging.ErrorLogger.Error("assistant turn failed",
			zap.String("room_id", room.ID.String()),
			zap.Error(err),
		)
		if req.conn != nil {
			req.conn.SendError("assistant: " + err.Error())
		}
		return
	}

	st.mu.Lock()
	if st.ended {
		// The room ended while this turn was in flight; the transcript is
		// sealed, so the reply is dropped.
		st.mu.Unlock()
		logging.AppLogger.Warn("assistant reply dropped, room ended",
			zap.String("room_id", room.ID.String()),
		)
		if req.conn != nil {
			req.conn.SendError(ErrAlreadyEnded.Error())
		}
		return
	}
	_, perr := c.persistAndBroadcast(ctx, room.ID, models.SystemUserID, AssistantUsername, reply, true)
	st.mu.Unlock()
	if perr != nil {
		logging.ErrorLogger.Error("assistant reply persist failed",
			zap.String("room_id", room.ID.String()),
			zap.Error(perr),
		)
		if req.conn != nil {
			req.conn.SendError("assistant reply was lost")
		}
		return
	}

	if sample := vitals.ExtractVitals(reply); sample != nil {
		if err := c.progress.RecordVitalSample(ctx, room.ThreadID, sample); err != nil {
			logging.ErrorLogger.Error("record vital sample failed", zap.Error(err))
		}
	}
	if score, ok := vitals.ExtractScore(reply); ok {
		if err := c.progress.RecordScore(ctx, room.ScenarioID, req.userID, score, reply); err != nil {
			logging.ErrorLogger.Error("record score failed", zap.Error(err))
		}
	}
}
