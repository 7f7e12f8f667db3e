package models

import (
	"time"
)

// VitalSample is one structured snapshot extracted from an assistant reply.
// Every measurement is independently optional; nil means "not mentioned",
// not zero.
type VitalSample struct {
	ID              int       `json:"id" gorm:"primaryKey"`
	ThreadID        string    `json:"thread_id" gorm:"type:varchar(255);index;not null"`
	HeartRate       *int      `json:"heart_rate,omitempty"`
	Systolic        *int      `json:"systolic,omitempty"`
	Diastolic       *int      `json:"diastolic,omitempty"`
	RespiratoryRate *int      `json:"respiratory_rate,omitempty"`
	SpO2            *int      `json:"spo2,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	RecordedAt      time.Time `json:"recorded_at" gorm:"not null"`
}
