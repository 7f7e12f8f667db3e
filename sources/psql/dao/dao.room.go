package dao

import (
	"context"
	"strings"
	"time"

	"mediroom/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomDAO struct {
	DB *gorm.DB
}

func NewRoomDAO(db *gorm.DB) *RoomDAO {
	return &RoomDAO{DB: db}
}

// NewRoomCode returns a short human-shareable code.
func (dao *RoomDAO) NewRoomCode() string {
	return strings.ToUpper(uuid.New().String()[:6])
}

func (dao *RoomDAO) CreateRoom(ctx context.Context, scenarioID string, creatorID, capacity int, threadID, variant string) (*models.Room, error) {
	room := models.Room{
		ID:         uuid.New(),
		Code:       dao.NewRoomCode(),
		ScenarioID: scenarioID,
		CreatorID:  creatorID,
		Capacity:   capacity,
		ThreadID:   threadID,
		Variant:    variant,
		CreatedAt:  time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Create(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (dao *RoomDAO) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (dao *RoomDAO) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := dao.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&room).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (dao *RoomDAO) EndRoom(ctx context.Context, id uuid.UUID, when time.Time) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", when).Error
}
