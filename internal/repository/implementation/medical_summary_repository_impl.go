package implementation

import (
	"context"
	"errors"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/mapper"
	"derma-triage-be/internal/model"
	"derma-triage-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MedicalSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TriageMapper
}

func NewMedicalSummaryRepository(db *gorm.DB) contract.MedicalSummaryRepository {
	return &MedicalSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewTriageMapper(),
	}
}

// Upsert writes the summary for a conversation, replacing every field of an
// existing row. A later summary always supersedes the earlier one in full.
func (r *MedicalSummaryRepositoryImpl) Upsert(ctx context.Context, summary *entity.MedicalSummary) error {
	m := r.mapper.SummaryToModel(summary)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}

func (r *MedicalSummaryRepositoryImpl) FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.MedicalSummary, error) {
	var m model.MedicalSummary
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SummaryToEntity(&m), nil
}

func (r *MedicalSummaryRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).Delete(&model.MedicalSummary{}).Error
}
