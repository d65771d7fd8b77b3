package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllConversationsResponse struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type GetTurnHistoryResponse struct {
	Id                 uuid.UUID `json:"id"`
	Role               string    `json:"role"`
	Content            string    `json:"content"`
	ImagePath          string    `json:"image_path,omitempty"`
	PredictedCondition string    `json:"predicted_condition,omitempty"`
	CnnConfidence      *float64  `json:"cnn_confidence,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// SendTurnRequest is assembled by the controller from the multipart form. A
// turn may carry text, an image, or both; a turn with neither is rejected.
type SendTurnRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Message        string    `json:"message"`
	ImageFilename  string    `json:"-"`
	ImageData      []byte    `json:"-"`
}

type SendTurnResponseTurn struct {
	Id                 uuid.UUID `json:"id"`
	Role               string    `json:"role"`
	Content            string    `json:"content"`
	ImagePath          string    `json:"image_path,omitempty"`
	PredictedCondition string    `json:"predicted_condition,omitempty"`
	CnnConfidence      *float64  `json:"cnn_confidence,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type SendTurnResponse struct {
	ConversationId uuid.UUID               `json:"conversation_id"`
	Sent           *SendTurnResponseTurn   `json:"sent"`
	Reply          *SendTurnResponseTurn   `json:"reply"`
	Summary        *MedicalSummaryResponse `json:"summary,omitempty"`
}

type MedicalSummaryResponse struct {
	ConversationId       uuid.UUID  `json:"conversation_id"`
	MainComplaint        string     `json:"main_complaint,omitempty"`
	SymptomsReported     string     `json:"symptoms_reported,omitempty"`
	LocationOfSymptoms   string     `json:"location_of_symptoms,omitempty"`
	DurationOfSymptoms   string     `json:"duration_of_symptoms,omitempty"`
	AggravatingFactors   string     `json:"aggravating_factors,omitempty"`
	AlleviatingFactors   string     `json:"alleviating_factors,omitempty"`
	PreviousHistory      string     `json:"previous_history,omitempty"`
	ImageAnalysisSummary string     `json:"image_analysis_summary,omitempty"`
	TentativeOrientation string     `json:"tentative_orientation,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// SummaryReadyMessage is the payload published when an interview summary has
// been extracted and stored.
type SummaryReadyMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}
