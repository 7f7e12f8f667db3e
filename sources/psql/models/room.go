package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is one bounded multi-party training session. Once EndedAt is set the
// room is immutable history.
type Room struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Code       string     `json:"code" gorm:"type:varchar(16);uniqueIndex;not null"`
	ScenarioID string     `json:"scenario_id" gorm:"type:varchar(255);not null"`
	CreatorID  int        `json:"creator_id" gorm:"not null"`
	Capacity   int        `json:"capacity" gorm:"not null"`
	ThreadID   string     `json:"thread_id" gorm:"type:varchar(255);not null"`
	Variant    string     `json:"variant" gorm:"type:varchar(50);not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}
