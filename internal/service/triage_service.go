package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"derma-triage-be/internal/constant"
	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/pkg/logger"
	"derma-triage-be/internal/repository/specification"
	"derma-triage-be/internal/repository/unitofwork"
	"derma-triage-be/pkg/agent"
	"derma-triage-be/pkg/classifier"
	"derma-triage-be/pkg/triage/extract"

	"github.com/google/uuid"
)

var (
	ErrEmptyTurn            = errors.New("turn must carry text or an image")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Identifier shown to the model for the anonymous web user.
const webUserIdentifier = "usuario_web"

type ITriageService interface {
	CreateConversation(ctx context.Context) (*dto.CreateConversationResponse, error)
	GetAllConversations(ctx context.Context) ([]*dto.GetAllConversationsResponse, error)
	GetTurnHistory(ctx context.Context, conversationId uuid.UUID) ([]*dto.GetTurnHistoryResponse, error)
	SendTurn(ctx context.Context, req *dto.SendTurnRequest) (*dto.SendTurnResponse, error)
	DeleteConversation(ctx context.Context, conversationId uuid.UUID) error
}

type triageService struct {
	uowFactory       unitofwork.RepositoryFactory
	agent            *agent.Agent
	imageClassifier  classifier.ImageClassifier // nil when classification is disabled
	publisherService IPublisherService
	logger           logger.ILogger
	uploadDir        string
}

func NewTriageService(
	uowFactory unitofwork.RepositoryFactory,
	triageAgent *agent.Agent,
	imageClassifier classifier.ImageClassifier,
	publisherService IPublisherService,
	log logger.ILogger,
	uploadDir string,
) ITriageService {
	return &triageService{
		uowFactory:       uowFactory,
		agent:            triageAgent,
		imageClassifier:  imageClassifier,
		publisherService: publisherService,
		logger:           log,
		uploadDir:        uploadDir,
	}
}

func (ts *triageService) CreateConversation(ctx context.Context) (*dto.CreateConversationResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	conversation := entity.Conversation{
		Id:        uuid.New(),
		CreatedAt: time.Now(),
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	return &dto.CreateConversationResponse{Id: conversation.Id}, nil
}

func (ts *triageService) GetAllConversations(ctx context.Context) ([]*dto.GetAllConversationsResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllConversationsResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, &dto.GetAllConversationsResponse{
			Id:        c.Id,
			CreatedAt: c.CreatedAt,
		})
	}
	return response, nil
}

func (ts *triageService) GetTurnHistory(ctx context.Context, conversationId uuid.UUID) ([]*dto.GetTurnHistoryResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	turns, err := uow.TurnRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	conditionNames, err := ts.conditionNamesFor(ctx, uow, turns)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetTurnHistoryResponse, 0, len(turns))
	for _, t := range turns {
		item := &dto.GetTurnHistoryResponse{
			Id:            t.Id,
			Role:          t.Role,
			Content:       t.Content,
			ImagePath:     t.ImagePath,
			CnnConfidence: t.CnnConfidence,
			CreatedAt:     t.CreatedAt,
		}
		if t.PredictedConditionId != nil {
			item.PredictedCondition = conditionNames[*t.PredictedConditionId]
		}
		response = append(response, item)
	}
	return response, nil
}

// SendTurn runs one full interview turn: persist what the user sent, let the
// agent answer, then persist the reply together with whatever summary the
// reply carried. The user turn is committed before the LLM call so a slow or
// failing model never loses the user's input.
func (ts *triageService) SendTurn(ctx context.Context, req *dto.SendTurnRequest) (*dto.SendTurnResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" && len(req.ImageData) == 0 {
		return nil, ErrEmptyTurn
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: req.ConversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	userTurn := entity.Turn{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		Content:        message,
		Role:           constant.TurnRoleUser,
		CreatedAt:      time.Now(),
	}

	agentInput := message
	var predictedName string

	if len(req.ImageData) > 0 {
		imagePath, err := ts.saveImage(req.ImageData, req.ImageFilename)
		if err != nil {
			return nil, err
		}
		userTurn.ImagePath = imagePath

		prediction, condition := ts.classifyImage(ctx, uow, req.ImageData)
		if prediction != nil {
			confidence := prediction.Confidence
			userTurn.CnnConfidence = &confidence
			userTurn.Probabilities = prediction.Probabilities
		}
		if condition != nil {
			userTurn.PredictedConditionId = &condition.Id
			predictedName = condition.Name
		}

		agentInput = composeImageInput(predictedName, prediction, message)
	}
	if agentInput == "" {
		agentInput = constant.EmptyTurnPlaceholder
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.TurnRepository().Create(ctx, &userTurn); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// A missing agent still completes the turn: the fixed unavailable
	// message is stored as the model turn and no LLM call is made.
	rawReply := constant.AgentUnavailableReply
	if ts.agent != nil {
		rawReply = ts.agent.Respond(ctx, req.ConversationId, webUserIdentifier, agentInput)
	}

	result := extract.Extract(rawReply)
	userFacing := result.UserFacing
	if userFacing == "" {
		userFacing = rawReply
	}

	botTurn := entity.Turn{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		Content:        userFacing,
		Role:           constant.TurnRoleModel,
		CreatedAt:      time.Now(),
	}

	summary, err := ts.persistReply(ctx, req.ConversationId, &botTurn, result, userFacing)
	if err != nil {
		return nil, err
	}

	// Only a full structured block triggers the clinician report.
	if summary != nil && result.Block != nil {
		ts.publishSummaryReady(ctx, req.ConversationId)
	}

	response := &dto.SendTurnResponse{
		ConversationId: req.ConversationId,
		Sent:           turnToResponseTurn(&userTurn, predictedName),
		Reply:          turnToResponseTurn(&botTurn, ""),
	}
	if summary != nil {
		response.Summary = summaryToResponse(summary)
	}
	return response, nil
}

func (ts *triageService) DeleteConversation(ctx context.Context, conversationId uuid.UUID) error {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MedicalSummaryRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.TurnRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if ts.agent != nil {
		ts.agent.Reset(conversationId)
	}
	return nil
}

// persistReply writes the model turn and, when the reply carried one, the
// summary, in a single transaction. A later summary block overwrites the
// earlier one in full; a disclaimer-only reply fills the tentative orientation
// only when it is still empty.
func (ts *triageService) persistReply(
	ctx context.Context,
	conversationId uuid.UUID,
	botTurn *entity.Turn,
	result extract.Result,
	userFacing string,
) (*entity.MedicalSummary, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	var summary *entity.MedicalSummary
	now := time.Now()

	switch {
	case result.Block != nil:
		summary = &entity.MedicalSummary{
			ConversationId:       conversationId,
			RawSummaryText:       result.Block.Raw,
			MainComplaint:        result.Block.MainComplaint,
			SymptomsReported:     result.Block.SymptomsReported,
			LocationOfSymptoms:   result.Block.Location,
			DurationOfSymptoms:   result.Block.Duration,
			AggravatingFactors:   result.Block.AggravatingFactors,
			AlleviatingFactors:   result.Block.AlleviatingFactors,
			PreviousHistory:      result.Block.PreviousHistory,
			ImageAnalysisSummary: result.Block.ImageAnalysis,
			TentativeOrientation: userFacing,
			CreatedAt:            now,
		}
	case result.FinalAdvisory:
		existing, err := uow.MedicalSummaryRepository().FindByConversationId(ctx, conversationId)
		if err != nil {
			return nil, err
		}
		switch {
		case existing != nil && existing.TentativeOrientation != "":
			// An orientation set by a full summary block is never clobbered
			// by a later disclaimer-only reply.
		case existing != nil:
			existing.TentativeOrientation = userFacing
			summary = existing
		default:
			summary = &entity.MedicalSummary{
				ConversationId:       conversationId,
				TentativeOrientation: userFacing,
				CreatedAt:            now,
			}
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.TurnRepository().Create(ctx, botTurn); err != nil {
		uow.Rollback()
		return nil, err
	}
	if summary != nil {
		if err := uow.MedicalSummaryRepository().Upsert(ctx, summary); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return summary, nil
}

// classifyImage runs the CNN and resolves the winning index to a condition.
// Every failure mode degrades to "no result": classifier disabled, request
// failed, or no condition registered for the index.
func (ts *triageService) classifyImage(ctx context.Context, uow unitofwork.UnitOfWork, imageData []byte) (*classifier.Prediction, *entity.Condition) {
	if ts.imageClassifier == nil {
		return nil, nil
	}

	prediction, err := ts.imageClassifier.Classify(ctx, imageData)
	if err != nil {
		ts.logger.Warn("TriageService", "Image classification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	condition, err := uow.ConditionRepository().FindOne(ctx,
		specification.ByPredictionIndex{Index: prediction.Index},
		specification.OrderBy{Field: "name", Desc: false},
	)
	if err != nil {
		ts.logger.Warn("TriageService", "Condition lookup for prediction index failed", map[string]interface{}{
			"index": prediction.Index,
			"error": err.Error(),
		})
		return prediction, nil
	}
	if condition == nil {
		ts.logger.Warn("TriageService", "No condition registered for prediction index", map[string]interface{}{
			"index": prediction.Index,
		})
	}
	return prediction, condition
}

func (ts *triageService) saveImage(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	dir := filepath.Join(ts.uploadDir, "chatbot_images")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return "/uploads/chatbot_images/" + name, nil
}

func (ts *triageService) publishSummaryReady(ctx context.Context, conversationId uuid.UUID) {
	payload, _ := json.Marshal(dto.SummaryReadyMessage{ConversationId: conversationId})
	if err := ts.publisherService.Publish(ctx, payload); err != nil {
		ts.logger.Warn("TriageService", "Failed to publish summary-ready event", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
	}
}

func (ts *triageService) conditionNamesFor(ctx context.Context, uow unitofwork.UnitOfWork, turns []*entity.Turn) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, t := range turns {
		if t.PredictedConditionId != nil && !seen[*t.PredictedConditionId] {
			seen[*t.PredictedConditionId] = true
			ids = append(ids, *t.PredictedConditionId)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	conditions, err := uow.ConditionRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(conditions))
	for _, c := range conditions {
		names[c.Id] = c.Name
	}
	return names, nil
}

// composeImageInput builds the Spanish combined input the agent sees for an
// image turn.
func composeImageInput(predictedName string, prediction *classifier.Prediction, comment string) string {
	if prediction != nil && predictedName != "" {
		input := fmt.Sprintf(constant.ImagePredictionInput, predictedName, prediction.Confidence)
		if comment != "" {
			return input + fmt.Sprintf(constant.ImageUserCommentSuffix, comment)
		}
		return input + constant.ImageNoCommentSuffix
	}

	input := constant.ImageNoResultInput
	if comment != "" {
		return input + fmt.Sprintf(constant.NoResultCommentSuffix, comment)
	}
	return input + constant.NoResultNoCommentSuffix
}

func turnToResponseTurn(t *entity.Turn, predictedName string) *dto.SendTurnResponseTurn {
	return &dto.SendTurnResponseTurn{
		Id:                 t.Id,
		Role:               t.Role,
		Content:            t.Content,
		ImagePath:          t.ImagePath,
		PredictedCondition: predictedName,
		CnnConfidence:      t.CnnConfidence,
		CreatedAt:          t.CreatedAt,
	}
}

func summaryToResponse(s *entity.MedicalSummary) *dto.MedicalSummaryResponse {
	return &dto.MedicalSummaryResponse{
		ConversationId:       s.ConversationId,
		MainComplaint:        s.MainComplaint,
		SymptomsReported:     s.SymptomsReported,
		LocationOfSymptoms:   s.LocationOfSymptoms,
		DurationOfSymptoms:   s.DurationOfSymptoms,
		AggravatingFactors:   s.AggravatingFactors,
		AlleviatingFactors:   s.AlleviatingFactors,
		PreviousHistory:      s.PreviousHistory,
		ImageAnalysisSummary: s.ImageAnalysisSummary,
		TentativeOrientation: s.TentativeOrientation,
		UpdatedAt:            s.UpdatedAt,
	}
}
