package dao

import (
	"context"
	"time"

	"mediroom/services/vitals"
	"mediroom/sources/psql/models"

	"gorm.io/gorm"
)

// ProgressDAO is the progress collaborator: extracted signals are persisted
// for downstream display, never surfaced back to chat participants.
type ProgressDAO struct {
	DB *gorm.DB
}

func NewProgressDAO(db *gorm.DB) *ProgressDAO {
	return &ProgressDAO{DB: db}
}

func (dao *ProgressDAO) RecordVitalSample(ctx context.Context, threadID string, sample *vitals.Sample) error {
	row := models.VitalSample{
		ThreadID:        threadID,
		HeartRate:       sample.HeartRate,
		Systolic:        sample.Systolic,
		Diastolic:       sample.Diastolic,
		RespiratoryRate: sample.RespiratoryRate,
		SpO2:            sample.SpO2,
		Temperature:     sample.Temperature,
		RecordedAt:      time.Now().UTC(),
	}
	return dao.DB.WithContext(ctx).Create(&row).Error
}

func (dao *ProgressDAO) RecordScore(ctx context.Context, scenarioID string, userID int, score float64, rawFeedback string) error {
	row := models.ScoreRecord{
		ScenarioID:  scenarioID,
		UserID:      userID,
		Score:       score,
		RawFeedback: rawFeedback,
		RecordedAt:  time.Now().UTC(),
	}
	return dao.DB.WithContext(ctx).Create(&row).Error
}
