package models

import (
	"time"
)

// PracticeSession is a solo conversation with the assistant outside any room.
// One assistant thread per session, created with the session.
type PracticeSession struct {
	ID         string    `json:"id" gorm:"type:varchar(255);primaryKey"`
	UserID     int       `json:"user_id" gorm:"index;not null"`
	ScenarioID string    `json:"scenario_id" gorm:"type:varchar(255);not null"`
	ThreadID   string    `json:"thread_id" gorm:"type:varchar(255);not null"`
	Variant    string    `json:"variant" gorm:"type:varchar(50);not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}

type SessionMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:varchar(255);index;not null"`
	UserID    int       `json:"user_id" gorm:"not null"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}
