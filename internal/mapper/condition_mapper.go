package mapper

import (
	"time"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/model"
)

type ConditionMapper struct{}

func NewConditionMapper() *ConditionMapper {
	return &ConditionMapper{}
}

func (m *ConditionMapper) ToEntity(c *model.Condition) *entity.Condition {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Condition{
		Id:                  c.Id,
		Name:                c.Name,
		Abbreviation:        c.Abbreviation,
		Description:         c.Description,
		ShortDescriptionLLM: c.ShortDescriptionLLM,
		CnnPredictionIndex:  c.CnnPredictionIndex,
		CommonSymptoms:      c.CommonSymptoms,
		KeyQuestions:        c.KeyQuestions,
		GeneralAdvice:       c.GeneralAdvice,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           updatedAt,
	}
}

func (m *ConditionMapper) ToModel(c *entity.Condition) *model.Condition {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Condition{
		Id:                  c.Id,
		Name:                c.Name,
		Abbreviation:        c.Abbreviation,
		Description:         c.Description,
		ShortDescriptionLLM: c.ShortDescriptionLLM,
		CnnPredictionIndex:  c.CnnPredictionIndex,
		CommonSymptoms:      c.CommonSymptoms,
		KeyQuestions:        c.KeyQuestions,
		GeneralAdvice:       c.GeneralAdvice,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           updatedAt,
	}
}
