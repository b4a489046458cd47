package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/models"
)

const gradePromptTemplate = `Given the CONTEXT and the ANSWER below, determine whether the ANSWER is fully supported by the CONTEXT.
- The answer must be based solely on the information present in the context.
- If the answer contains information not present or implied by the context, respond 'no'.
- If the answer is accurate, complete, and supported by the context, respond 'yes'.
- If you are unsure, prefer 'no'.

CONTEXT: %s
ANSWER: %s

Is the answer fully supported by the context? (Respond only with 'yes' or 'no')`

// Grader judges whether an answer is grounded in its reference context using
// a single yes/no model call.
type Grader struct {
	client llm.Client
}

// NewGrader creates a grader backed by the given model client.
func NewGrader(client llm.Client) *Grader {
	return &Grader{client: client}
}

// Grade returns true when the model judges the answer fully supported by the
// context. Any 'yes' in the verdict counts as supported.
func (g *Grader) Grade(ctx context.Context, context_, answer string) (bool, error) {
	prompt := fmt.Sprintf(gradePromptTemplate, context_, answer)
	completion, err := g.client.Complete(ctx, []models.ConversationTurn{
		{Role: models.RoleUser, Content: prompt},
	})
	if err != nil {
		return false, fmt.Errorf("grading call failed: %w", err)
	}
	return strings.Contains(strings.ToLower(completion.Text), "yes"), nil
}
