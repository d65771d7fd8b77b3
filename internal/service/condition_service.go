package service

import (
	"context"
	"errors"
	"time"

	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/repository/specification"
	"derma-triage-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrConditionNotFound    = errors.New("condition not found")
	ErrConditionNameTaken   = errors.New("condition name already registered")
	ErrPredictionIndexTaken = errors.New("cnn prediction index already assigned to another condition")
)

type IConditionService interface {
	Create(ctx context.Context, req *dto.CreateConditionRequest) (*dto.ConditionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateConditionRequest) (*dto.ConditionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetById(ctx context.Context, id uuid.UUID) (*dto.ConditionResponse, error)
	GetAll(ctx context.Context) ([]*dto.ConditionResponse, error)
}

type conditionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConditionService(uowFactory unitofwork.RepositoryFactory) IConditionService {
	return &conditionService{
		uowFactory: uowFactory,
	}
}

func (cs *conditionService) Create(ctx context.Context, req *dto.CreateConditionRequest) (*dto.ConditionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConditionRepository()

	existing, err := repo.FindOne(ctx, specification.ByName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConditionNameTaken
	}

	if req.CnnPredictionIndex != nil {
		clash, err := repo.FindOne(ctx, specification.ByPredictionIndex{Index: *req.CnnPredictionIndex})
		if err != nil {
			return nil, err
		}
		if clash != nil {
			return nil, ErrPredictionIndexTaken
		}
	}

	condition := entity.Condition{
		Id:                  uuid.New(),
		Name:                req.Name,
		Abbreviation:        req.Abbreviation,
		Description:         req.Description,
		ShortDescriptionLLM: req.ShortDescriptionLLM,
		CnnPredictionIndex:  req.CnnPredictionIndex,
		CommonSymptoms:      req.CommonSymptoms,
		KeyQuestions:        req.KeyQuestions,
		GeneralAdvice:       req.GeneralAdvice,
		CreatedAt:           time.Now(),
	}

	if err := repo.Create(ctx, &condition); err != nil {
		return nil, err
	}

	return conditionToResponse(&condition), nil
}

func (cs *conditionService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateConditionRequest) (*dto.ConditionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConditionRepository()

	condition, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, ErrConditionNotFound
	}

	if req.Name != condition.Name {
		existing, err := repo.FindOne(ctx, specification.ByName{Name: req.Name})
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Id != id {
			return nil, ErrConditionNameTaken
		}
	}

	if req.CnnPredictionIndex != nil {
		clash, err := repo.FindOne(ctx, specification.ByPredictionIndex{Index: *req.CnnPredictionIndex})
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.Id != id {
			return nil, ErrPredictionIndexTaken
		}
	}

	now := time.Now()
	condition.Name = req.Name
	condition.Abbreviation = req.Abbreviation
	condition.Description = req.Description
	condition.ShortDescriptionLLM = req.ShortDescriptionLLM
	condition.CnnPredictionIndex = req.CnnPredictionIndex
	condition.CommonSymptoms = req.CommonSymptoms
	condition.KeyQuestions = req.KeyQuestions
	condition.GeneralAdvice = req.GeneralAdvice
	condition.UpdatedAt = &now

	if err := repo.Update(ctx, condition); err != nil {
		return nil, err
	}

	return conditionToResponse(condition), nil
}

func (cs *conditionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConditionRepository()

	condition, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if condition == nil {
		return ErrConditionNotFound
	}

	return repo.Delete(ctx, id)
}

func (cs *conditionService) GetById(ctx context.Context, id uuid.UUID) (*dto.ConditionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	condition, err := uow.ConditionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, ErrConditionNotFound
	}

	return conditionToResponse(condition), nil
}

func (cs *conditionService) GetAll(ctx context.Context) ([]*dto.ConditionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conditions, err := uow.ConditionRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ConditionResponse, 0, len(conditions))
	for _, c := range conditions {
		response = append(response, conditionToResponse(c))
	}
	return response, nil
}

func conditionToResponse(c *entity.Condition) *dto.ConditionResponse {
	return &dto.ConditionResponse{
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
		UpdatedAt:           c.UpdatedAt,
	}
}
