package entity

import (
	"time"

	"github.com/google/uuid"
)

// Condition is one row of the knowledge base: a reference skin condition the
// classifier can map to and the agent can ground its orientation on.
type Condition struct {
	Id                  uuid.UUID
	Name                string
	Abbreviation        string
	Description         string
	ShortDescriptionLLM string
	// CnnPredictionIndex ties the condition to the classifier's label
	// space. Nil means the condition is prompt-only.
	CnnPredictionIndex *int
	CommonSymptoms     string
	KeyQuestions       string
	GeneralAdvice      string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}
