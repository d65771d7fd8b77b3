package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalSummary is the structured record extracted from the agent's hidden
// summary block. Exactly one per conversation; the conversation id doubles as
// its identifier.
type MedicalSummary struct {
	ConversationId       uuid.UUID
	RawSummaryText       string
	MainComplaint        string
	SymptomsReported     string
	LocationOfSymptoms   string
	DurationOfSymptoms   string
	AggravatingFactors   string
	AlleviatingFactors   string
	PreviousHistory      string
	ImageAnalysisSummary string
	TentativeOrientation string
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}
