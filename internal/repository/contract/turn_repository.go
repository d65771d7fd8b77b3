package contract

import (
	"context"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TurnRepository interface {
	Create(ctx context.Context, turn *entity.Turn) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
