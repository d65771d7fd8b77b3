package implementation

import (
	"context"
	"errors"

	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/mapper"
	"derma-triage-be/internal/model"
	"derma-triage-be/internal/repository/contract"
	"derma-triage-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConditionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConditionMapper
}

func NewConditionRepository(db *gorm.DB) contract.ConditionRepository {
	return &ConditionRepositoryImpl{
		db:     db,
		mapper: mapper.NewConditionMapper(),
	}
}

func (r *ConditionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConditionRepositoryImpl) Create(ctx context.Context, condition *entity.Condition) error {
	m := r.mapper.ToModel(condition)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*condition = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConditionRepositoryImpl) Update(ctx context.Context, condition *entity.Condition) error {
	m := r.mapper.ToModel(condition)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*condition = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConditionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Condition{}, id).Error
}

func (r *ConditionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Condition, error) {
	var m model.Condition
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConditionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Condition, error) {
	var models []*model.Condition
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Condition, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ConditionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Condition{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
