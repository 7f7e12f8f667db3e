package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemUserID is the reserved author id for system and assistant messages.
const SystemUserID = 0

// Message is append-only; rows are never mutated after insert. Replay order
// is SentAt ascending with ID as the tiebreak.
type Message struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	RoomID      uuid.UUID `json:"room_id" gorm:"type:uuid;index;not null"`
	UserID      int       `json:"user_id" gorm:"not null"`
	Username    string    `json:"username" gorm:"type:varchar(255);not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsAssistant bool      `json:"is_assistant" gorm:"not null"`
	SentAt      time.Time `json:"sent_at" gorm:"index;not null"`
}
