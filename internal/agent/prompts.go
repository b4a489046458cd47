package agent

import (
	"fmt"
	"strings"

	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/tools"
)

// FallbackAnswer is returned when no tool can ground an answer. The Turkish
// wording is part of the public contract with the frontend.
const FallbackAnswer = "Bu konuda elimde bilgi yok."

const systemPromptTemplate = `You are an assistant for Bursa Technical University and you use a ReAct style approach.
Your task is to answer questions using only the retrieved document excerpts provided.

You have access to the following tool(s):
%s
The names of the tools are: %s.

Follow these steps:
1. Start with "Thought: ..." for reasoning.
2. If needed, call a tool with the EXACT format:
   Action: <tool name>
   Action Input: "the query"
3. Then you'll get Observation: ...
4. You can do more Thought: or produce the final answer with "Final Answer: ...".

IMPORTANT:
- If the question has multiple parts, break it down and use the tools for each part.
- In your final answer, you MUST include at least one reference line in the EXACT format:
    "Kaynak: [PDF adı], MADDE: [madde numarası]"
- Do not invent any information that is not present in the retrieved documents.
- Follow Turkish grammar rules strictly.
- If no further document retrieval is required, end directly with "Final Answer:" without adding a new Thought or Action.
- retrieve: used to locate an article number and its content inside the regulation PDFs.
- google_search_univ: used to search only the university's own web site. Use it to access up-to-date information about the university when the PDFs cannot answer.
- If neither tool can provide an answer, finish with "Final Answer: %s"
- Never add a new "Thought:" or "Action:" after the Final Answer.

Now let's begin.`

const userPromptTemplate = `Previous Conversation:
%s

New Question:
%s

Agent Thought (Scratchpad):
%s`

func buildSystemPrompt(reg *tools.Registry) string {
	return fmt.Sprintf(systemPromptTemplate,
		reg.Describe(),
		strings.Join(reg.Names(), ", "),
		FallbackAnswer,
	)
}

func buildUserPrompt(history []models.ConversationTurn, query string, pad *Scratchpad) string {
	var h strings.Builder
	for _, turn := range history {
		h.WriteString(string(turn.Role))
		h.WriteString(": ")
		h.WriteString(turn.Content)
		h.WriteByte('\n')
	}
	return fmt.Sprintf(userPromptTemplate, h.String(), query, pad.Render())
}
