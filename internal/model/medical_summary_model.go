package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalSummary uses the conversation id as its primary key: a 1:1
// ownership relation, not a separately allocated id.
type MedicalSummary struct {
	ConversationId       uuid.UUID `gorm:"type:uuid;primaryKey"`
	RawSummaryText       string    `gorm:"type:text"`
	MainComplaint        string    `gorm:"type:text"`
	SymptomsReported     string    `gorm:"type:text"`
	LocationOfSymptoms   string    `gorm:"type:text"`
	DurationOfSymptoms   string    `gorm:"type:text"`
	AggravatingFactors   string    `gorm:"type:text"`
	AlleviatingFactors   string    `gorm:"type:text"`
	PreviousHistory      string    `gorm:"type:text"`
	ImageAnalysisSummary string    `gorm:"type:text"`
	TentativeOrientation string    `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (MedicalSummary) TableName() string {
	return "medical_summaries"
}
