package controllers

import (
	"context"

	"mediroom/rooms"
	"mediroom/sources/psql/models"
	"mediroom/types"

	"github.com/google/uuid"
)

type RoomController struct {
	coord *rooms.Coordinator
}

func NewRoomController(coord *rooms.Coordinator) *RoomController {
	return &RoomController{coord: coord}
}

func (c *RoomController) Create(ctx context.Context, userID int, req types.CreateRoomRequest) (*types.CreateRoomResponse, error) {
	room, err := c.coord.Create(ctx, req.ScenarioID, userID, req.MaxParticipants, req.Variant)
	if err != nil {
		return nil, err
	}
	return &types.CreateRoomResponse{
		RoomID:   room.ID.String(),
		Code:     room.Code,
		ThreadID: room.ThreadID,
	}, nil
}

func (c *RoomController) JoinByCode(ctx context.Context, req types.JoinRoomRequest) (*models.Room, error) {
	return c.coord.JoinByCode(ctx, req.Code)
}

func (c *RoomController) End(ctx context.Context, roomID uuid.UUID, userID int) error {
	return c.coord.End(ctx, roomID, userID)
}

func (c *RoomController) Messages(ctx context.Context, roomID uuid.UUID) ([]models.Message, error) {
	return c.coord.Transcript(ctx, roomID)
}
