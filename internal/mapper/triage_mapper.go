package mapper

import (
	"encoding/json"
	"time"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/model"

	"gorm.io/datatypes"
)

type TriageMapper struct{}

func NewTriageMapper() *TriageMapper {
	return &TriageMapper{}
}

// Conversation mappers

func (m *TriageMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:        c.Id,
		CreatedAt: c.CreatedAt,
	}
}

func (m *TriageMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:        c.Id,
		CreatedAt: c.CreatedAt,
	}
}

// Turn mappers

func (m *TriageMapper) TurnToEntity(t *model.Turn) *entity.Turn {
	if t == nil {
		return nil
	}

	var probs []float32
	if len(t.Probabilities) > 0 {
		// Best effort: a corrupt vector only loses audit data.
		_ = json.Unmarshal(t.Probabilities, &probs)
	}

	return &entity.Turn{
		Id:                   t.Id,
		ConversationId:       t.ConversationId,
		Content:              t.Content,
		Role:                 t.Role,
		ImagePath:            t.ImagePath,
		PredictedConditionId: t.PredictedConditionId,
		CnnConfidence:        t.CnnConfidence,
		Probabilities:        probs,
		CreatedAt:            t.CreatedAt,
	}
}

func (m *TriageMapper) TurnToModel(t *entity.Turn) *model.Turn {
	if t == nil {
		return nil
	}

	var probs datatypes.JSON
	if len(t.Probabilities) > 0 {
		if raw, err := json.Marshal(t.Probabilities); err == nil {
			probs = raw
		}
	}

	return &model.Turn{
		Id:                   t.Id,
		ConversationId:       t.ConversationId,
		Content:              t.Content,
		Role:                 t.Role,
		ImagePath:            t.ImagePath,
		PredictedConditionId: t.PredictedConditionId,
		CnnConfidence:        t.CnnConfidence,
		Probabilities:        probs,
		CreatedAt:            t.CreatedAt,
	}
}

// Summary mappers

func (m *TriageMapper) SummaryToEntity(s *model.MedicalSummary) *entity.MedicalSummary {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.MedicalSummary{
		ConversationId:       s.ConversationId,
		RawSummaryText:       s.RawSummaryText,
		MainComplaint:        s.MainComplaint,
		SymptomsReported:     s.SymptomsReported,
		LocationOfSymptoms:   s.LocationOfSymptoms,
		DurationOfSymptoms:   s.DurationOfSymptoms,
		AggravatingFactors:   s.AggravatingFactors,
		AlleviatingFactors:   s.AlleviatingFactors,
		PreviousHistory:      s.PreviousHistory,
		ImageAnalysisSummary: s.ImageAnalysisSummary,
		TentativeOrientation: s.TentativeOrientation,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}

func (m *TriageMapper) SummaryToModel(s *entity.MedicalSummary) *model.MedicalSummary {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.MedicalSummary{
		ConversationId:       s.ConversationId,
		RawSummaryText:       s.RawSummaryText,
		MainComplaint:        s.MainComplaint,
		SymptomsReported:     s.SymptomsReported,
		LocationOfSymptoms:   s.LocationOfSymptoms,
		DurationOfSymptoms:   s.DurationOfSymptoms,
		AggravatingFactors:   s.AggravatingFactors,
		AlleviatingFactors:   s.AlleviatingFactors,
		PreviousHistory:      s.PreviousHistory,
		ImageAnalysisSummary: s.ImageAnalysisSummary,
		TentativeOrientation: s.TentativeOrientation,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}
