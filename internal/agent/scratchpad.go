package agent

import "strings"

// Step is one completed reasoning step: what the model thought, which tool it
// called with what input, and what the tool returned. Steps with no Action are
// recovery steps (the Observation carries the parse-failure notice).
type Step struct {
	Thought     string
	Action      string
	ActionInput string
	Observation string
}

// Scratchpad accumulates steps for a single query. It is append-only and
// discarded once the query resolves.
type Scratchpad struct {
	steps []Step
}

func (p *Scratchpad) Append(s Step) {
	p.steps = append(p.steps, s)
}

func (p *Scratchpad) Len() int {
	return len(p.steps)
}

// Steps returns the recorded steps in order.
func (p *Scratchpad) Steps() []Step {
	return p.steps
}

// Render serializes the steps back into the prompt grammar so the model sees
// its own prior reasoning on the next pass.
func (p *Scratchpad) Render() string {
	if len(p.steps) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p.steps {
		if s.Thought != "" {
			b.WriteString("Thought: ")
			b.WriteString(s.Thought)
			b.WriteByte('\n')
		}
		if s.Action != "" {
			b.WriteString("Action: ")
			b.WriteString(s.Action)
			b.WriteString("\nAction Input: \"")
			b.WriteString(s.ActionInput)
			b.WriteString("\"\n")
		}
		b.WriteString("Observation: ")
		b.WriteString(s.Observation)
		b.WriteByte('\n')
	}
	return b.String()
}
