package dao

import (
	"context"
	"time"

	"mediroom/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDAO struct {
	DB *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{DB: db}
}

func (dao *MessageDAO) InsertMessage(ctx context.Context, roomID uuid.UUID, userID int, username, content string, isAssistant bool) (*models.Message, error) {
	msg := models.Message{
		RoomID:      roomID,
		UserID:      userID,
		Username:    username,
		Content:     content,
		IsAssistant: isAssistant,
		SentAt:      time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Create(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the room transcript in replay order: timestamp
// ascending, insertion order breaking ties.
func (dao *MessageDAO) ListMessages(ctx context.Context, roomID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := dao.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
