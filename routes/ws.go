package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mediroom/config"
	"mediroom/middlewares"
	"mediroom/rooms"
	"mediroom/types"
	"mediroom/utils/logging"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WSHandler is the live-connection endpoint. The first frame must be
// {"type":"auth","token":...}; everything before a successful auth is
// rejected. After that the connection is a sequential state machine:
// join, then chat/leave frames, deregister on close.
func WSHandler(coord *rooms.Coordinator, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer sock.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()

		typ, data, err := sock.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			sock.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var first types.InboundFrame
		if err := json.Unmarshal(data, &first); err != nil {
			writeError(ctx, sock, "invalid json")
			sock.Close(websocket.StatusPolicyViolation, "invalid json")
			return
		}
		if first.Type != "auth" {
			writeError(ctx, sock, rooms.ErrUnauthorized.Error())
			sock.Close(websocket.StatusPolicyViolation, "unauthorized")
			return
		}
		userID, username, err := middlewares.ParseToken(first.Token, cfg.JWTSecret)
		if err != nil {
			writeError(ctx, sock, rooms.ErrUnauthorized.Error())
			sock.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		if username == "" {
			username = fmt.Sprintf("user-%d", userID)
		}

		conn := rooms.NewConnection(userID, username)
		defer conn.Close()

		// Writer goroutine: the only place that writes to the socket after
		// auth, draining the connection's outbound inbox in order.
		go func() {
			for {
				select {
				case frame := <-conn.Outbound():
					if err := sock.Write(ctx, websocket.MessageText, frame); err != nil {
						conn.Close()
						return
					}
				case <-conn.Done():
					return
				}
			}
		}()

		for {
			typ, data, err := sock.Read(ctx)
			if err != nil {
				break
			}
			if typ != websocket.MessageText {
				conn.SendError("unsupported data")
				continue
			}
			var in types.InboundFrame
			if err := json.Unmarshal(data, &in); err != nil {
				conn.SendError("invalid json")
				continue
			}
			handleFrame(ctx, coord, conn, in)
		}

		// Socket gone: treat as leave. The room's in-flight assistant turn,
		// if any, keeps running for whoever remains.
		if roomID := conn.RoomID(); roomID != uuid.Nil {
			leaveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := coord.Leave(leaveCtx, roomID, conn); err != nil {
				logging.ErrorLogger.Error("leave on disconnect failed",
					zap.String("room_id", roomID.String()),
					zap.Error(err),
				)
			}
			cancel()
		}
		conn.Close()
		sock.Close(websocket.StatusNormalClosure, "")
	}
}

func handleFrame(ctx context.Context, coord *rooms.Coordinator, conn *rooms.Connection, in types.InboundFrame) {
	switch in.Type {
	case "join":
		roomID, err := uuid.Parse(in.RoomID)
		if err != nil {
			conn.SendError("invalid room id")
			return
		}
		if err := coord.Join(ctx, roomID, conn); err != nil {
			conn.SendError(err.Error())
		}
	case "chat":
		roomID := conn.RoomID()
		if roomID == uuid.Nil {
			conn.SendError(rooms.ErrNotJoined.Error())
			return
		}
		if err := coord.Chat(ctx, roomID, conn, in.Content); err != nil {
			conn.SendError(err.Error())
		}
	case "leave":
		roomID := conn.RoomID()
		if roomID == uuid.Nil {
			return
		}
		if err := coord.Leave(ctx, roomID, conn); err != nil {
			conn.SendError(err.Error())
		}
	default:
		conn.SendError("unknown frame type")
	}
}

func writeError(ctx context.Context, sock *websocket.Conn, message string) {
	frame, _ := json.Marshal(types.ErrorFrame{Type: "error", Message: message})
	_ = sock.Write(ctx, websocket.MessageText, frame)
}
