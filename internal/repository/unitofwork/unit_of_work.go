package unitofwork

import (
	"context"

	"derma-triage-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConditionRepository() contract.ConditionRepository
	ConversationRepository() contract.ConversationRepository
	TurnRepository() contract.TurnRepository
	MedicalSummaryRepository() contract.MedicalSummaryRepository
}
