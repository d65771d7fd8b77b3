package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConditionRequest struct {
	Name                string `json:"name" validate:"required,max=150"`
	Abbreviation        string `json:"abbreviation" validate:"max=20"`
	Description         string `json:"description"`
	ShortDescriptionLLM string `json:"short_description_llm"`
	CnnPredictionIndex  *int   `json:"cnn_prediction_index"`
	CommonSymptoms      string `json:"common_symptoms"`
	KeyQuestions        string `json:"key_questions"`
	GeneralAdvice       string `json:"general_advice"`
}

type UpdateConditionRequest struct {
	Name                string `json:"name" validate:"required,max=150"`
	Abbreviation        string `json:"abbreviation" validate:"max=20"`
	Description         string `json:"description"`
	ShortDescriptionLLM string `json:"short_description_llm"`
	CnnPredictionIndex  *int   `json:"cnn_prediction_index"`
	CommonSymptoms      string `json:"common_symptoms"`
	KeyQuestions        string `json:"key_questions"`
	GeneralAdvice       string `json:"general_advice"`
}

type ConditionResponse struct {
	Id                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Abbreviation        string     `json:"abbreviation,omitempty"`
	Description         string     `json:"description,omitempty"`
	ShortDescriptionLLM string     `json:"short_description_llm,omitempty"`
	CnnPredictionIndex  *int       `json:"cnn_prediction_index,omitempty"`
	CommonSymptoms      string     `json:"common_symptoms,omitempty"`
	KeyQuestions        string     `json:"key_questions,omitempty"`
	GeneralAdvice       string     `json:"general_advice,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}
