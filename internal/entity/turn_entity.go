package entity

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one message within a conversation, from either the user or the
// model. Classifier fields are only ever set on user turns that carried an
// image.
type Turn struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Content        string
	Role           string
	ImagePath      string
	// PredictedConditionId and CnnConfidence record the classifier outcome
	// attached to this turn's image, when there was one.
	PredictedConditionId *uuid.UUID
	CnnConfidence        *float64
	// Probabilities keeps the full activation vector for auditing.
	Probabilities []float32
	CreatedAt     time.Time
}
