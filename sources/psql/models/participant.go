package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one (room, user) membership interval. A user has at most one
// row with LeftAt == nil per room; re-joining after leaving opens a new row.
type Participant struct {
	ID       int        `json:"id" gorm:"primaryKey"`
	RoomID   uuid.UUID  `json:"room_id" gorm:"type:uuid;index;not null"`
	UserID   int        `json:"user_id" gorm:"not null"`
	JoinedAt time.Time  `json:"joined_at" gorm:"not null"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}
