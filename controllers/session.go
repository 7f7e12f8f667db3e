package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediroom/rooms"
	"mediroom/services/vitals"
	"mediroom/sources/psql/dao"
	"mediroom/types"
	"mediroom/utils/logging"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found or forbidden")

// SessionController runs private practice sessions: one user, one assistant
// thread, no room. Replies flow through the same extractor and progress
// recording as room chat.
type SessionController struct {
	sessionDAO *dao.SessionDAO
	progress   rooms.Progress
	gateway    rooms.Gateway
}

func NewSessionController(sessionDAO *dao.SessionDAO, gateway rooms.Gateway, progress rooms.Progress) *SessionController {
	return &SessionController{
		sessionDAO: sessionDAO,
		progress:   progress,
		gateway:    gateway,
	}
}

func (c *SessionController) Chat(ctx context.Context, userID int, req types.SessionChatRequest) (*types.SessionChatResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, rooms.ErrEmptyContent
	}

	session, err := c.getOrCreateSession(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if _, err := c.sessionDAO.SaveSessionMessage(ctx, session.ID, userID, "user", content); err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}

	reply, err := c.gateway.SendTurn(ctx, session.ThreadID, content, session.Variant)
	if err != nil {
		return nil, err
	}
	if _, err := c.sessionDAO.SaveSessionMessage(ctx, session.ID, userID, "assistant", reply); err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}

	resp := &types.SessionChatResponse{SessionID: session.ID, Reply: reply}
	if sample := vitals.ExtractVitals(reply); sample != nil {
		resp.Vitals = sample
		if err := c.progress.RecordVitalSample(ctx, session.ThreadID, sample); err != nil {
			logging.ErrorLogger.Error("record vital sample failed", zap.Error(err))
		}
	}
	if score, ok := vitals.ExtractScore(reply); ok {
		resp.Score = &score
		if err := c.progress.RecordScore(ctx, session.ScenarioID, userID, score, reply); err != nil {
			logging.ErrorLogger.Error("record score failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (c *SessionController) getOrCreateSession(ctx context.Context, userID int, req types.SessionChatRequest) (*sessionRow, error) {
	if req.SessionID != "" {
		existing, err := c.sessionDAO.GetSession(ctx, req.SessionID)
		if err != nil {
			return nil, fmt.Errorf("transcript store: %w", err)
		}
		if existing == nil || existing.UserID != userID {
			return nil, ErrSessionNotFound
		}
		return &sessionRow{ID: existing.ID, ThreadID: existing.ThreadID, Variant: existing.Variant, ScenarioID: existing.ScenarioID}, nil
	}

	variant := req.Variant
	if variant == "" {
		variant = rooms.DefaultVariant
	}
	threadID, err := c.gateway.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("create assistant thread: %w", err)
	}
	created, err := c.sessionDAO.CreateSession(ctx, c.sessionDAO.NewSessionID(), userID, req.ScenarioID, threadID, variant)
	if err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	return &sessionRow{ID: created.ID, ThreadID: created.ThreadID, Variant: created.Variant, ScenarioID: created.ScenarioID}, nil
}

type sessionRow struct {
	ID         string
	ThreadID   string
	Variant    string
	ScenarioID string
}
