package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"derma-triage-be/internal/constant"
	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/entity"
	"derma-triage-be/internal/pkg/logger"
	"derma-triage-be/internal/repository/contract"
	"derma-triage-be/internal/repository/memory"
	"derma-triage-be/internal/repository/specification"
	"derma-triage-be/internal/repository/unitofwork"
	"derma-triage-be/pkg/agent"
	"derma-triage-be/pkg/classifier"
	"derma-triage-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory repository fakes ---

type store struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
	conditions    []*entity.Condition
	turns         []*entity.Turn
	summaries     map[uuid.UUID]*entity.MedicalSummary
}

func newStore() *store {
	return &store{
		conversations: make(map[uuid.UUID]*entity.Conversation),
		summaries:     make(map[uuid.UUID]*entity.MedicalSummary),
	}
}

type memConversationRepo struct{ s *store }

func (r *memConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conversations[c.Id] = &cp
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.conversations, id)
	return nil
}

func (r *memConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if c, found := r.s.conversations[byID.ID]; found {
				cp := *c
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Conversation, 0, len(r.s.conversations))
	for _, c := range r.s.conversations {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.s.conversations)), nil
}

type memTurnRepo struct{ s *store }

func (r *memTurnRepo) Create(ctx context.Context, t *entity.Turn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.turns = append(r.s.turns, &cp)
	return nil
}

func (r *memTurnRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.turns[:0]
	for _, t := range r.s.turns {
		if t.ConversationId != conversationId {
			kept = append(kept, t)
		}
	}
	r.s.turns = kept
	return nil
}

func (r *memTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error) {
	return nil, nil
}

func (r *memTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Turn, 0)
	for _, t := range r.s.turns {
		keep := true
		for _, spec := range specs {
			if byConv, ok := spec.(specification.ByConversationID); ok && t.ConversationId != byConv.ConversationID {
				keep = false
			}
		}
		if keep {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	turns, _ := r.FindAll(ctx, specs...)
	return int64(len(turns)), nil
}

type memConditionRepo struct{ s *store }

func (r *memConditionRepo) Create(ctx context.Context, c *entity.Condition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conditions = append(r.s.conditions, &cp)
	return nil
}

func (r *memConditionRepo) Update(ctx context.Context, c *entity.Condition) error { return nil }

func (r *memConditionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memConditionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Condition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByPredictionIndex:
			for _, c := range r.s.conditions {
				if c.CnnPredictionIndex != nil && *c.CnnPredictionIndex == sp.Index {
					cp := *c
					return &cp, nil
				}
			}
			return nil, nil
		case specification.ByID:
			for _, c := range r.s.conditions {
				if c.Id == sp.ID {
					cp := *c
					return &cp, nil
				}
			}
			return nil, nil
		case specification.ByName:
			for _, c := range r.s.conditions {
				if c.Name == sp.Name {
					cp := *c
					return &cp, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memConditionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Condition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, spec := range specs {
		if byIDs, ok := spec.(specification.ByIDs); ok {
			out := make([]*entity.Condition, 0)
			for _, c := range r.s.conditions {
				for _, id := range byIDs.IDs {
					if c.Id == id {
						cp := *c
						out = append(out, &cp)
					}
				}
			}
			return out, nil
		}
	}
	out := make([]*entity.Condition, 0, len(r.s.conditions))
	for _, c := range r.s.conditions {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memConditionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.s.conditions)), nil
}

type memSummaryRepo struct{ s *store }

func (r *memSummaryRepo) Upsert(ctx context.Context, summary *entity.MedicalSummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *summary
	r.s.summaries[summary.ConversationId] = &cp
	return nil
}

func (r *memSummaryRepo) FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.MedicalSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, found := r.s.summaries[conversationId]; found {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSummaryRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.summaries, conversationId)
	return nil
}

type memUow struct{ s *store }

func (u *memUow) Begin(ctx context.Context) error { return nil }

func (u *memUow) Commit() error { return nil }

func (u *memUow) Rollback() error { return nil }

func (u *memUow) ConditionRepository() contract.ConditionRepository {
	return &memConditionRepo{s: u.s}
}

func (u *memUow) ConversationRepository() contract.ConversationRepository {
	return &memConversationRepo{s: u.s}
}

func (u *memUow) TurnRepository() contract.TurnRepository {
	return &memTurnRepo{s: u.s}
}

func (u *memUow) MedicalSummaryRepository() contract.MedicalSummaryRepository {
	return &memSummaryRepo{s: u.s}
}

type memUowFactory struct{ s *store }

func (f *memUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{s: f.s}
}

// --- collaborator fakes ---

type scriptedProvider struct {
	mu     sync.Mutex
	inputs []string
	reply  string
	err    error
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, history[len(history)-1].Content)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeClassifier struct {
	prediction *classifier.Prediction
	err        error
}

func (c *fakeClassifier) Classify(ctx context.Context, imageBytes []byte) (*classifier.Prediction, error) {
	return c.prediction, c.err
}

func (c *fakeClassifier) Ready(ctx context.Context) error { return nil }

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}

func (nopLogger) Info(module, message string, details map[string]interface{}) {}

func (nopLogger) Warn(module, message string, details map[string]interface{}) {}

func (nopLogger) Error(module, message string, details map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

var _ logger.ILogger = nopLogger{}

// --- fixture ---

type fixture struct {
	store      *store
	provider   *scriptedProvider
	classifier *fakeClassifier
	publisher  *recordingPublisher
	service    ITriageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newStore()
	factory := &memUowFactory{s: s}
	provider := &scriptedProvider{reply: "¿Desde cuándo tienes estos síntomas?"}
	fc := &fakeClassifier{}
	publisher := &recordingPublisher{}

	triageAgent := agent.NewAgent(provider, memory.NewThreadRepository(), factory, nopLogger{})
	svc := NewTriageService(factory, triageAgent, fc, publisher, nopLogger{}, t.TempDir())

	return &fixture{
		store:      s,
		provider:   provider,
		classifier: fc,
		publisher:  publisher,
		service:    svc,
	}
}

func (f *fixture) newConversation(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.service.CreateConversation(context.Background())
	require.NoError(t, err)
	return res.Id
}

// --- tests ---

func TestSendTurnEmptySubmission(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "   ",
	})

	require.ErrorIs(t, err, ErrEmptyTurn)
	assert.Empty(t, f.store.turns, "no turn may be written for an empty submission")
	assert.Empty(t, f.provider.inputs, "the agent must not be called")
}

func TestSendTurnUnknownConversation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: uuid.New(),
		Message:        "Hola",
	})

	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestSendTurnTextOnly(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	res, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Tengo una mancha en el brazo",
	})
	require.NoError(t, err)

	require.Len(t, f.store.turns, 2)
	userTurn, botTurn := f.store.turns[0], f.store.turns[1]
	assert.Equal(t, constant.TurnRoleUser, userTurn.Role)
	assert.Equal(t, "Tengo una mancha en el brazo", userTurn.Content)
	assert.Equal(t, constant.TurnRoleModel, botTurn.Role)
	assert.Equal(t, "¿Desde cuándo tienes estos síntomas?", botTurn.Content)
	assert.False(t, botTurn.CreatedAt.Before(userTurn.CreatedAt))

	assert.Equal(t, "Tengo una mancha en el brazo", f.provider.inputs[0])
	assert.Nil(t, res.Summary)
	assert.Empty(t, f.store.summaries)
	assert.Empty(t, f.publisher.payloads)
}

func TestSendTurnExtractsSummary(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.provider.reply = "###INICIO_RESUMEN_MEDICO###\n" +
		"Motivo Principal: mancha en el brazo\n" +
		"Duración: dos semanas\n" +
		"###FIN_RESUMEN_MEDICO###\n" +
		"Podría tratarse de una queratosis. Recuerda, esta es solo una orientación general."

	res, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Llevo dos semanas con la mancha",
	})
	require.NoError(t, err)

	// The stored model turn carries only the user-facing part
	botTurn := f.store.turns[1]
	assert.NotContains(t, botTurn.Content, constant.SummaryStartMarker)
	assert.Contains(t, botTurn.Content, "Podría tratarse de una queratosis.")

	summary := f.store.summaries[convId]
	require.NotNil(t, summary)
	assert.Equal(t, "mancha en el brazo", summary.MainComplaint)
	assert.Equal(t, "dos semanas", summary.DurationOfSymptoms)
	assert.Contains(t, summary.TentativeOrientation, "queratosis")

	require.NotNil(t, res.Summary)
	assert.Equal(t, "mancha en el brazo", res.Summary.MainComplaint)

	require.Len(t, f.publisher.payloads, 1)
	assert.Contains(t, string(f.publisher.payloads[0]), convId.String())
}

func TestSendTurnSecondSummaryOverwritesFirst(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	f.provider.reply = "###INICIO_RESUMEN_MEDICO###\n" +
		"Motivo Principal: mancha en el brazo\n" +
		"Duración: dos semanas\n" +
		"Localización: antebrazo derecho\n" +
		"###FIN_RESUMEN_MEDICO###\n" +
		"Orientación preliminar."
	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Llevo dos semanas con la mancha",
	})
	require.NoError(t, err)

	f.provider.reply = "###INICIO_RESUMEN_MEDICO###\n" +
		"Motivo Principal: mancha que ha crecido\n" +
		"Síntomas Reportados: picazón ocasional\n" +
		"###FIN_RESUMEN_MEDICO###\n" +
		"Orientación actualizada."
	_, err = f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Ahora también me pica",
	})
	require.NoError(t, err)

	require.Len(t, f.store.summaries, 1, "a conversation holds at most one summary row")
	summary := f.store.summaries[convId]
	assert.Equal(t, "mancha que ha crecido", summary.MainComplaint)
	assert.Equal(t, "picazón ocasional", summary.SymptomsReported)
	assert.Empty(t, summary.DurationOfSymptoms, "fields absent from the later block are cleared, not merged")
	assert.Empty(t, summary.LocationOfSymptoms)
	assert.Contains(t, summary.TentativeOrientation, "Orientación actualizada.")
	assert.Len(t, f.publisher.payloads, 2)
}

func TestSendTurnDisclaimerSetsMissingOrientation(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.store.summaries[convId] = &entity.MedicalSummary{
		ConversationId: convId,
		MainComplaint:  "mancha en el brazo",
	}

	f.provider.reply = "Mantén la zona protegida del sol. Recuerda, esta es solo una orientación general."

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "¿Algo más que deba hacer?",
	})
	require.NoError(t, err)

	summary := f.store.summaries[convId]
	require.NotNil(t, summary)
	assert.Equal(t, "mancha en el brazo", summary.MainComplaint, "existing fields survive")
	assert.Contains(t, summary.TentativeOrientation, "Mantén la zona protegida del sol.")
	assert.Empty(t, f.publisher.payloads, "orientation-only updates do not trigger a report")
}

func TestSendTurnDisclaimerKeepsExistingOrientation(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.store.summaries[convId] = &entity.MedicalSummary{
		ConversationId:       convId,
		TentativeOrientation: "Podría tratarse de una queratosis.",
	}

	f.provider.reply = "De nada. Recuerda, esta es solo una orientación general."

	res, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Gracias",
	})
	require.NoError(t, err)

	summary := f.store.summaries[convId]
	assert.Equal(t, "Podría tratarse de una queratosis.", summary.TentativeOrientation)
	assert.Nil(t, res.Summary)
	assert.Empty(t, f.publisher.payloads)
}

func TestSendTurnLLMFailure(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.provider.err = errors.New("upstream unavailable")

	res, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Hola",
	})
	require.NoError(t, err, "an LLM failure must not fail the turn")

	require.Len(t, f.store.turns, 2)
	assert.Equal(t, constant.AgentFailureReply, f.store.turns[1].Content)
	assert.Equal(t, constant.AgentFailureReply, res.Reply.Content)
	assert.Nil(t, res.Summary)
}

func TestSendTurnWithImage(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	idx := 4
	melanoma := &entity.Condition{
		Id:                 uuid.New(),
		Name:               "Melanoma",
		CnnPredictionIndex: &idx,
	}
	f.store.conditions = append(f.store.conditions, melanoma)
	f.classifier.prediction = &classifier.Prediction{
		Index:         4,
		Confidence:    87.5,
		Probabilities: []float32{0.01, 0.02, 0.02, 0.02, 0.875, 0.03, 0.025},
	}

	res, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Me apareció hace poco",
		ImageFilename:  "lesion.jpg",
		ImageData:      []byte{0xff, 0xd8, 0xff, 0xe0},
	})
	require.NoError(t, err)

	userTurn := f.store.turns[0]
	require.NotNil(t, userTurn.PredictedConditionId)
	assert.Equal(t, melanoma.Id, *userTurn.PredictedConditionId)
	require.NotNil(t, userTurn.CnnConfidence)
	assert.InDelta(t, 87.5, *userTurn.CnnConfidence, 0.001)
	assert.Len(t, userTurn.Probabilities, 7)
	assert.True(t, strings.HasPrefix(userTurn.ImagePath, "/uploads/chatbot_images/"))
	assert.True(t, strings.HasSuffix(userTurn.ImagePath, ".jpg"))

	// The agent sees the composed Spanish input, not the raw text
	agentInput := f.provider.inputs[0]
	assert.Contains(t, agentInput, "'Melanoma'")
	assert.Contains(t, agentInput, "87.5%")
	assert.Contains(t, agentInput, "Me apareció hace poco")

	assert.Equal(t, "Melanoma", res.Sent.PredictedCondition)
}

func TestSendTurnImageClassifierFailure(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.classifier.err = errors.New("serving down")

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		ImageFilename:  "lesion.png",
		ImageData:      []byte{0x89, 0x50},
	})
	require.NoError(t, err)

	userTurn := f.store.turns[0]
	assert.Nil(t, userTurn.PredictedConditionId)
	assert.Nil(t, userTurn.CnnConfidence)
	assert.NotEmpty(t, userTurn.ImagePath, "the upload is stored even without a prediction")

	agentInput := f.provider.inputs[0]
	assert.Contains(t, agentInput, "no arrojó un resultado específico")
}

func TestSendTurnImageUnknownIndex(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)
	f.classifier.prediction = &classifier.Prediction{Index: 3, Confidence: 55}

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		ImageFilename:  "lesion.jpg",
		ImageData:      []byte{0xff, 0xd8},
	})
	require.NoError(t, err)

	userTurn := f.store.turns[0]
	assert.Nil(t, userTurn.PredictedConditionId, "an unmapped index must not link a condition")
	require.NotNil(t, userTurn.CnnConfidence, "the raw confidence is still recorded")

	agentInput := f.provider.inputs[0]
	assert.Contains(t, agentInput, "no arrojó un resultado específico")
}

func TestSendTurnStoresImageFile(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		ImageFilename:  "foto.png",
		ImageData:      []byte("fake image bytes"),
	})
	require.NoError(t, err)

	userTurn := f.store.turns[0]
	name := filepath.Base(userTurn.ImagePath)
	svc := f.service.(*triageService)
	data, err := os.ReadFile(filepath.Join(svc.uploadDir, "chatbot_images", name))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestGetTurnHistory(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	idx := 1
	bcc := &entity.Condition{Id: uuid.New(), Name: "Carcinoma Basocelular", CnnPredictionIndex: &idx}
	f.store.conditions = append(f.store.conditions, bcc)
	f.classifier.prediction = &classifier.Prediction{Index: 1, Confidence: 70}

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Mira esta foto",
		ImageFilename:  "foto.jpg",
		ImageData:      []byte{0xff, 0xd8},
	})
	require.NoError(t, err)

	history, err := f.service.GetTurnHistory(context.Background(), convId)
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, constant.TurnRoleUser, history[0].Role)
	assert.Equal(t, constant.TurnRoleModel, history[1].Role)
	assert.Equal(t, "Carcinoma Basocelular", history[0].PredictedCondition)

	_, err = f.service.GetTurnHistory(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestDeleteConversation(t *testing.T) {
	f := newFixture(t)
	convId := f.newConversation(t)

	_, err := f.service.SendTurn(context.Background(), &dto.SendTurnRequest{
		ConversationId: convId,
		Message:        "Hola",
	})
	require.NoError(t, err)
	f.store.summaries[convId] = &entity.MedicalSummary{ConversationId: convId}

	require.NoError(t, f.service.DeleteConversation(context.Background(), convId))

	assert.Empty(t, f.store.turns)
	assert.Empty(t, f.store.summaries)
	assert.Empty(t, f.store.conversations)

	require.ErrorIs(t, f.service.DeleteConversation(context.Background(), uuid.New()), ErrConversationNotFound)
}
