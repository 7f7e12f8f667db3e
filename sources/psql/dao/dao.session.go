package dao

import (
	"context"
	"time"

	"mediroom/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionDAO struct {
	DB *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{DB: db}
}

func (dao *SessionDAO) NewSessionID() string {
	return uuid.New().String()
}

func (dao *SessionDAO) CreateSession(ctx context.Context, id string, userID int, scenarioID, threadID, variant string) (*models.PracticeSession, error) {
	session := models.PracticeSession{
		ID:         id,
		UserID:     userID,
		ScenarioID: scenarioID,
		ThreadID:   threadID,
		Variant:    variant,
		CreatedAt:  time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Create(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (dao *SessionDAO) GetSession(ctx context.Context, id string) (*models.PracticeSession, error) {
	var session models.PracticeSession
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (dao *SessionDAO) SaveSessionMessage(ctx context.Context, sessionID string, userID int, role, content string) (*models.SessionMessage, error) {
	msg := models.SessionMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Create(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (dao *SessionDAO) GetSessionHistory(ctx context.Context, sessionID string) ([]models.SessionMessage, error) {
	var msgs []models.SessionMessage
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
