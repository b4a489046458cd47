// Package agent runs the bounded reasoning loop that answers a user query by
// interleaving model calls with tool invocations. The loop is a small state
// machine: the model thinks, optionally names a tool, observes its output and
// thinks again, until it produces a final answer or hits the iteration or
// wall-clock bound.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/tools"
	"github.com/openmevzuat/mevzuat/pkg/utils"
)

// State is the terminal state of one loop run.
type State string

const (
	StateAnswered State = "answered"
	StateAborted  State = "aborted"
)

const (
	// DefaultMaxIterations bounds how many times the model may be consulted
	// for a single query.
	DefaultMaxIterations = 15
	// DefaultMaxDuration bounds the wall-clock time of a single query.
	DefaultMaxDuration = 60 * time.Second
)

const parseFailureObservation = "Yanıt çözümlenemedi. Lütfen tam olarak belirtilen biçime uyun: ya 'Action: <araç>' ve 'Action Input: \"...\"' satırları ya da 'Final Answer: ...' üretin."

// Result is the outcome of one query run.
type Result struct {
	Answer  string
	State   State
	Steps   []Step
	Usage   llm.Usage
	Elapsed time.Duration
}

// Agent executes the reasoning loop against a model client and a fixed tool
// registry. It is stateless across queries; conversation history is supplied
// by the caller on each run.
type Agent struct {
	client        llm.Client
	registry      *tools.Registry
	maxIterations int
	maxDuration   time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithClock overrides the time source, used in tests to exercise the
// wall-clock bound without sleeping.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates an agent. Non-positive bounds fall back to the defaults.
func New(client llm.Client, registry *tools.Registry, maxIterations int, maxDuration time.Duration, opts ...Option) *Agent {
	a := &Agent{
		client:        client,
		registry:      registry,
		maxIterations: maxIterations,
		maxDuration:   maxDuration,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	if a.maxDuration <= 0 {
		a.maxDuration = DefaultMaxDuration
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run answers a query given the prior conversation turns. Bound violations
// never surface as errors: the loop degrades to a best-effort answer built
// from the scratchpad. A model transport failure is the only hard error.
func (a *Agent) Run(ctx context.Context, query string, history []models.ConversationTurn) (*Result, error) {
	start := a.now()
	pad := &Scratchpad{}
	system := buildSystemPrompt(a.registry)

	var usage llm.Usage
	for iteration := 0; ; iteration++ {
		if iteration >= a.maxIterations {
			a.logger.Warn("iteration bound reached, aborting",
				zap.Int("iterations", iteration),
				zap.String("query", query))
			return a.abort(pad, usage, a.now().Sub(start)), nil
		}
		if elapsed := a.now().Sub(start); elapsed > a.maxDuration {
			a.logger.Warn("time bound exceeded, aborting",
				zap.Duration("elapsed", elapsed),
				zap.String("query", query))
			return a.abort(pad, usage, elapsed), nil
		}

		messages := []models.ConversationTurn{
			{Role: models.RoleSystem, Content: system},
			{Role: models.RoleUser, Content: buildUserPrompt(history, query, pad)},
		}
		completion, err := a.client.Complete(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		usage.PromptTokens += completion.Usage.PromptTokens
		usage.CompletionTokens += completion.Usage.CompletionTokens
		usage.TotalTokens += completion.Usage.TotalTokens

		step, err := Parse(completion.Text)
		if errors.Is(err, ErrUnparsable) {
			a.logger.Debug("unparsable model output",
				zap.String("output", utils.Truncate(completion.Text, 200)))
			pad.Append(Step{
				Thought:     firstLine(completion.Text),
				Observation: parseFailureObservation,
			})
			continue
		}

		if step.IsFinal {
			answer := step.FinalAnswer
			if answer == "" {
				answer = FallbackAnswer
			}
			a.logger.Info("query answered",
				zap.Int("steps", pad.Len()),
				zap.Bool("cited", HasCitation(answer)))
			return &Result{
				Answer:  answer,
				State:   StateAnswered,
				Steps:   pad.Steps(),
				Usage:   usage,
				Elapsed: a.now().Sub(start),
			}, nil
		}

		tool, err := a.registry.Lookup(step.Action)
		if err != nil {
			pad.Append(Step{
				Thought: step.Thought,
				Observation: fmt.Sprintf("Bilinmeyen araç %q. Kullanılabilir araçlar: %s",
					step.Action, strings.Join(a.registry.Names(), ", ")),
			})
			continue
		}

		observation, err := tool.Run(ctx, step.ActionInput)
		if err != nil {
			a.logger.Warn("tool failed",
				zap.String("tool", step.Action),
				zap.Error(err))
			observation = fmt.Sprintf("Araç hatası: %v", err)
		}
		pad.Append(Step{
			Thought:     step.Thought,
			Action:      step.Action,
			ActionInput: step.ActionInput,
			Observation: observation,
		})
	}
}

// abort builds a degraded answer from whatever the scratchpad holds. The
// most recent thought doubles as the best available summary; an empty pad
// yields the fallback sentinel.
func (a *Agent) abort(pad *Scratchpad, usage llm.Usage, elapsed time.Duration) *Result {
	answer := FallbackAnswer
	steps := pad.Steps()
	for i := len(steps) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(steps[i].Thought); t != "" {
			answer = t
			break
		}
	}
	return &Result{
		Answer:  answer,
		State:   StateAborted,
		Steps:   steps,
		Usage:   usage,
		Elapsed: elapsed,
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
