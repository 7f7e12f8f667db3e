package models

import (
	"time"
)

type ScoreRecord struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	ScenarioID  string    `json:"scenario_id" gorm:"type:varchar(255);index;not null"`
	UserID      int       `json:"user_id" gorm:"index;not null"`
	Score       float64   `json:"score" gorm:"not null"`
	RawFeedback string    `json:"raw_feedback" gorm:"type:text"`
	RecordedAt  time.Time `json:"recorded_at" gorm:"not null"`
}
