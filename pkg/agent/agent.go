package agent

import (
	"context"

	"derma-triage-be/internal/constant"
	"derma-triage-be/internal/pkg/logger"
	"derma-triage-be/internal/repository/memory"
	"derma-triage-be/internal/repository/specification"
	"derma-triage-be/internal/repository/unitofwork"
	"derma-triage-be/pkg/llm"
	"derma-triage-be/pkg/triage/prompt"

	"github.com/google/uuid"
)

// Agent runs the guided dermatology interview. Each conversation keeps its
// own message thread in memory, and the system prompt is rebuilt on every
// turn so the condition knowledge base is always current.
type Agent struct {
	provider llm.LLMProvider
	threads  *memory.ThreadRepository
	uowf     unitofwork.RepositoryFactory
	logger   logger.ILogger
}

func NewAgent(provider llm.LLMProvider, threads *memory.ThreadRepository, uowf unitofwork.RepositoryFactory, log logger.ILogger) *Agent {
	return &Agent{
		provider: provider,
		threads:  threads,
		uowf:     uowf,
		logger:   log,
	}
}

// Respond feeds the user input through the interview protocol and returns the
// model reply. It never fails: when the LLM is unreachable the canned
// technical-problem apology is returned instead, so the caller can always
// persist a model turn.
func (a *Agent) Respond(ctx context.Context, conversationID uuid.UUID, userIdentifier, input string) string {
	thread := a.threads.GetOrCreate(conversationID.String())
	thread.Mu.Lock()
	defer thread.Mu.Unlock()

	system := prompt.NewSystemBuilder(userIdentifier, conversationID.String(), a.loadConditions(ctx)).Build()

	history := make([]llm.Message, 0, len(thread.Messages)+2)
	history = append(history, llm.Message{Role: "system", Content: system})
	history = append(history, thread.Messages...)
	history = append(history, llm.Message{Role: "user", Content: input})

	reply, err := a.provider.Chat(ctx, history,
		llm.WithTemperature(constant.AgentTemperature),
		llm.WithMaxTokens(constant.AgentMaxOutputTokens),
	)
	if err != nil {
		a.logger.Error("Agent", "LLM call failed", map[string]interface{}{
			"conversation_id": conversationID.String(),
			"error":           err.Error(),
		})
		reply = constant.AgentFailureReply
	}

	thread.Messages = append(thread.Messages,
		llm.Message{Role: "user", Content: input},
		llm.Message{Role: "assistant", Content: reply},
	)

	return reply
}

// Reset drops the in-memory thread for a conversation.
func (a *Agent) Reset(conversationID uuid.UUID) {
	a.threads.Delete(conversationID.String())
}

func (a *Agent) loadConditions(ctx context.Context) []prompt.ConditionRef {
	uow := a.uowf.NewUnitOfWork(ctx)
	conditions, err := uow.ConditionRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		a.logger.Warn("Agent", "Failed to load condition reference list", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	refs := make([]prompt.ConditionRef, 0, len(conditions))
	for _, c := range conditions {
		refs = append(refs, prompt.ConditionRef{
			Name:             c.Name,
			ShortDescription: c.ShortDescriptionLLM,
		})
	}
	return refs
}
