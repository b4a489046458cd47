package agent

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnparsable means the model output contained neither a tool directive nor
// a final answer. The loop records it as an observation and retries.
var ErrUnparsable = errors.New("model output matched neither an action nor a final answer")

var (
	finalAnswerPattern = regexp.MustCompile(`(?s)Final Answer:\s*(.*)`)
	thoughtPattern     = regexp.MustCompile(`(?m)^\s*Thought:\s*(.+)$`)
	actionPattern      = regexp.MustCompile(`(?m)^\s*Action:\s*(.+)$`)
	actionInputPattern = regexp.MustCompile(`(?m)^\s*Action Input:\s*(.+)$`)
	citationPattern    = regexp.MustCompile(`Kaynak:\s*[^,\n]+,\s*MADDE:\s*\S+`)
)

// ParsedStep is the structured reading of one model response.
type ParsedStep struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
	IsFinal     bool
}

// Parse extracts either a tool directive or a final answer from raw model
// output. A Final Answer wins over any Action text appearing after it, since
// the grammar forbids new directives past that marker.
func Parse(output string) (ParsedStep, error) {
	var step ParsedStep
	if m := thoughtPattern.FindStringSubmatch(output); m != nil {
		step.Thought = strings.TrimSpace(m[1])
	}

	if m := finalAnswerPattern.FindStringSubmatch(output); m != nil {
		step.IsFinal = true
		step.FinalAnswer = strings.TrimSpace(m[1])
		return step, nil
	}

	action := actionPattern.FindStringSubmatch(output)
	input := actionInputPattern.FindStringSubmatch(output)
	if action == nil || input == nil {
		return ParsedStep{}, ErrUnparsable
	}
	step.Action = strings.TrimSpace(action[1])
	step.ActionInput = unquote(strings.TrimSpace(input[1]))
	return step, nil
}

// HasCitation reports whether text contains at least one source reference in
// the "Kaynak: <source>, MADDE: <number>" form.
func HasCitation(text string) bool {
	return citationPattern.MatchString(text)
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
