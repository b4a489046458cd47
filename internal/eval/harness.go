// Package eval runs the evaluation harness: each test case is answered by
// the agent, graded for groundedness, and measured for token cost and
// latency, with optional corpus-level quality scores from a remote scorer.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/agent"
	"github.com/openmevzuat/mevzuat/internal/models"
)

// Answerer is the part of the agent the harness needs.
type Answerer interface {
	Run(ctx context.Context, query string, history []models.ConversationTurn) (*agent.Result, error)
}

// CaseResult is the measured outcome of one test case.
type CaseResult struct {
	Question     string
	Answer       string
	Supported    bool
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	Cost         float64
	Latency      time.Duration
}

// Report aggregates all case results.
type Report struct {
	Cases  []CaseResult
	Scores *Scores
}

// Harness evaluates the agent over a test set.
type Harness struct {
	answerer Answerer
	grader   *Grader
	scorer   Scorer
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithScorer attaches an external quality scorer.
func WithScorer(s Scorer) Option {
	return func(h *Harness) { h.scorer = s }
}

// NewHarness creates an evaluation harness.
func NewHarness(answerer Answerer, grader *Grader, opts ...Option) *Harness {
	h := &Harness{
		answerer: answerer,
		grader:   grader,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LoadTestCases reads the evaluation data set from a JSON file of the form
// {"test_cases": [...]}.
func LoadTestCases(path string) ([]models.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test cases: %w", err)
	}
	var wrapper struct {
		TestCases []models.TestCase `json:"test_cases"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse test cases: %w", err)
	}
	if len(wrapper.TestCases) == 0 {
		return nil, fmt.Errorf("test case file %s contains no cases", path)
	}
	return wrapper.TestCases, nil
}

// Run answers and grades every case. Each case runs with an empty
// conversation history so cases stay independent.
func (h *Harness) Run(ctx context.Context, cases []models.TestCase) (*Report, error) {
	report := &Report{Cases: make([]CaseResult, 0, len(cases))}

	var questions, answers, references []string
	var contexts [][]string

	for _, tc := range cases {
		start := h.now()
		result, err := h.answerer.Run(ctx, tc.Question, nil)
		if err != nil {
			return nil, fmt.Errorf("case %q failed: %w", tc.Question, err)
		}
		latency := h.now().Sub(start)

		reference := joinContexts(tc.RelevantContexts)
		supported, err := h.grader.Grade(ctx, reference, result.Answer)
		if err != nil {
			return nil, err
		}

		inTokens := result.Usage.PromptTokens
		outTokens := result.Usage.CompletionTokens
		if result.Usage.TotalTokens == 0 {
			inTokens = EstimateTokens(tc.Question)
			outTokens = EstimateTokens(result.Answer)
		}
		cr := CaseResult{
			Question:     tc.Question,
			Answer:       result.Answer,
			Supported:    supported,
			InputTokens:  inTokens,
			OutputTokens: outTokens,
			TotalTokens:  inTokens + outTokens,
			Cost:         Cost(inTokens, outTokens),
			Latency:      latency,
		}
		report.Cases = append(report.Cases, cr)
		h.logger.Info("case evaluated",
			zap.String("question", tc.Question),
			zap.Bool("supported", supported),
			zap.Duration("latency", latency))

		questions = append(questions, tc.Question)
		answers = append(answers, result.Answer)
		contexts = append(contexts, []string{reference})
		references = append(references, tc.ExpectedAnswer)
	}

	if h.scorer != nil {
		scores, err := h.scorer.Score(ctx, questions, answers, contexts, references)
		if err != nil {
			return nil, fmt.Errorf("scoring failed: %w", err)
		}
		report.Scores = scores
	}
	return report, nil
}

// HallucinationRate is the share of answers not supported by their context.
func (r *Report) HallucinationRate() float64 {
	if len(r.Cases) == 0 {
		return 0
	}
	unsupported := 0
	for _, c := range r.Cases {
		if !c.Supported {
			unsupported++
		}
	}
	return float64(unsupported) / float64(len(r.Cases))
}

// Write prints the aggregate report.
func (r *Report) Write(w io.Writer) {
	n := len(r.Cases)
	if n == 0 {
		fmt.Fprintln(w, "Değerlendirilecek test durumu yok.")
		return
	}
	var inSum, outSum, totalSum int
	var costSum float64
	var latencySum time.Duration
	for _, c := range r.Cases {
		inSum += c.InputTokens
		outSum += c.OutputTokens
		totalSum += c.TotalTokens
		costSum += c.Cost
		latencySum += c.Latency
	}
	fn := float64(n)

	fmt.Fprintln(w, "=== Kapsamlı Değerlendirme Raporu ===")
	if r.Scores != nil {
		fmt.Fprintf(w, "Context Recall: %.4f\n", r.Scores.ContextRecall)
		fmt.Fprintf(w, "Context Precision: %.4f\n", r.Scores.ContextPrecision)
		fmt.Fprintf(w, "Faithfulness: %.4f\n", r.Scores.Faithfulness)
		fmt.Fprintf(w, "Answer Relevancy: %.4f\n", r.Scores.AnswerRelevancy)
	}
	fmt.Fprintf(w, "Ortalama Input Token: %.2f\n", float64(inSum)/fn)
	fmt.Fprintf(w, "Ortalama Output Token: %.2f\n", float64(outSum)/fn)
	fmt.Fprintf(w, "Ortalama Toplam Token: %.2f\n", float64(totalSum)/fn)
	fmt.Fprintf(w, "Ortalama Maliyet: %.6f$\n", costSum/fn)
	fmt.Fprintf(w, "Ortalama Gecikme Süresi: %.4fs\n", (latencySum / time.Duration(n)).Seconds())
	fmt.Fprintf(w, "Halüsinasyon Oranı: %.2f%%\n", r.HallucinationRate()*100)
}

func joinContexts(contexts []models.TestContext) string {
	parts := make([]string, len(contexts))
	for i, c := range contexts {
		parts[i] = c.Content
	}
	return strings.Join(parts, " ")
}
