package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Turn struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Content              string    `gorm:"type:text"`
	Role                 string    `gorm:"type:varchar(50);not null"`
	ImagePath            string    `gorm:"type:text"`
	PredictedConditionId *uuid.UUID `gorm:"type:uuid"`
	CnnConfidence        *float64
	Probabilities        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt            time.Time      `gorm:"autoCreateTime;index"`
}

func (Turn) TableName() string {
	return "turns"
}
