package dao

import (
	"context"
	"time"

	"mediroom/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantDAO struct {
	DB *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{DB: db}
}

// GetOpenParticipant returns the user's open membership row, nil if none.
func (dao *ParticipantDAO) GetOpenParticipant(ctx context.Context, roomID uuid.UUID, userID int) (*models.Participant, error) {
	var p models.Participant
	err := dao.DB.WithContext(ctx).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (dao *ParticipantDAO) OpenParticipant(ctx context.Context, roomID uuid.UUID, userID int) (*models.Participant, error) {
	p := models.Participant{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Create(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (dao *ParticipantDAO) CloseParticipant(ctx context.Context, roomID uuid.UUID, userID int, when time.Time) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		Update("left_at", when).Error
}

// CloseAllParticipants force-closes every open row, used when a room ends.
func (dao *ParticipantDAO) CloseAllParticipants(ctx context.Context, roomID uuid.UUID, when time.Time) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Participant{}).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Update("left_at", when).Error
}

func (dao *ParticipantDAO) CountOpenParticipants(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int64
	err := dao.DB.WithContext(ctx).
		Model(&models.Participant{}).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
