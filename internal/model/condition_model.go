package model

import (
	"time"

	"github.com/google/uuid"
)

type Condition struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Abbreviation        string    `gorm:"type:varchar(20)"`
	Description         string    `gorm:"type:text"`
	ShortDescriptionLLM string    `gorm:"type:text;not null"`
	CnnPredictionIndex  *int      `gorm:"uniqueIndex"`
	CommonSymptoms      string    `gorm:"type:text"`
	KeyQuestions        string    `gorm:"type:text"`
	GeneralAdvice       string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (Condition) TableName() string {
	return "conditions"
}
