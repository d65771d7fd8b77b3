package contract

import (
	"context"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConditionRepository interface {
	Create(ctx context.Context, condition *entity.Condition) error
	Update(ctx context.Context, condition *entity.Condition) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Condition, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Condition, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
