package prompt

import (
	"fmt"
	"strings"

	"derma-triage-be/internal/constant"
)

// ConditionRef is the slice of the knowledge base the prompt needs: the
// condition name plus its short machine-facing description.
type ConditionRef struct {
	Name             string
	ShortDescription string
}

// SystemBuilder renders the interview-protocol system prompt for one turn.
type SystemBuilder struct {
	userIdentifier string
	conversationID string
	conditions     []ConditionRef
}

func NewSystemBuilder(userIdentifier, conversationID string, conditions []ConditionRef) *SystemBuilder {
	return &SystemBuilder{
		userIdentifier: userIdentifier,
		conversationID: conversationID,
		conditions:     conditions,
	}
}

// Build fills the protocol template. The condition listing is rendered fresh
// on every call so knowledge-base edits take effect without a restart.
func (b *SystemBuilder) Build() string {
	replacer := strings.NewReplacer(
		"{user_identifier}", b.userIdentifier,
		"{conversation_id_thread}", b.conversationID,
		"{deseases_info_placeholder}", b.renderConditionListing(),
	)
	return replacer.Replace(constant.BaseSystemPrompt)
}

func (b *SystemBuilder) renderConditionListing() string {
	if len(b.conditions) == 0 {
		return constant.ConditionListUnavailable
	}

	var listing strings.Builder
	listing.WriteString("\nLista de Referencia de Afecciones Cutáneas (Descripciones MUY CORTAS para IA):\n")
	for _, c := range b.conditions {
		name := c.Name
		if name == "" {
			name = "Nombre no disponible"
		}
		desc := c.ShortDescription
		if desc == "" {
			desc = "Descripción breve no disponible."
		}
		listing.WriteString(fmt.Sprintf("- %s: %s\n", name, desc))
	}
	return listing.String()
}
