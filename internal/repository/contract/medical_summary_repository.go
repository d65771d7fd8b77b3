package contract

import (
	"context"

	"derma-triage-be/internal/entity"

	"github.com/google/uuid"
)

type MedicalSummaryRepository interface {
	Upsert(ctx context.Context, summary *entity.MedicalSummary) error
	FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.MedicalSummary, error)
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
}
