package eval

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openmevzuat/mevzuat/internal/agent"
	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/models"
)

type fakeAnswerer struct {
	answers map[string]string
}

func (f *fakeAnswerer) Run(_ context.Context, query string, _ []models.ConversationTurn) (*agent.Result, error) {
	return &agent.Result{
		Answer: f.answers[query],
		State:  agent.StateAnswered,
		Usage:  llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

type fakeGraderLLM struct {
	verdicts []string
	calls    int
}

func (f *fakeGraderLLM) Complete(context.Context, []models.ConversationTurn) (llm.Completion, error) {
	v := f.verdicts[f.calls%len(f.verdicts)]
	f.calls++
	return llm.Completion{Text: v}, nil
}

type fixedScorer struct{ scores Scores }

func (s *fixedScorer) Score(context.Context, []string, []string, [][]string, []string) (*Scores, error) {
	return &s.scores, nil
}

func TestCost(t *testing.T) {
	got := Cost(1000, 1000)
	want := (1000*0.00015 + 1000*0.0006) / 1000
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Cost=%v, want %v", got, want)
	}
	if Cost(0, 0) != 0 {
		t.Error("zero tokens must cost zero")
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("empty text must estimate zero")
	}
	short := EstimateTokens("kayıt")
	long := EstimateTokens("öğrenci kulübü kurma şartları nelerdir ve başvuru nasıl yapılır")
	if short < 1 {
		t.Errorf("short=%d", short)
	}
	if long <= short {
		t.Errorf("long=%d short=%d", long, short)
	}
}

func TestGrader(t *testing.T) {
	g := NewGrader(&fakeGraderLLM{verdicts: []string{"Yes, it is supported."}})
	supported, err := g.Grade(context.Background(), "bağlam", "cevap")
	if err != nil {
		t.Fatal(err)
	}
	if !supported {
		t.Error("yes verdict must grade supported")
	}

	g = NewGrader(&fakeGraderLLM{verdicts: []string{"no"}})
	supported, err = g.Grade(context.Background(), "bağlam", "cevap")
	if err != nil {
		t.Fatal(err)
	}
	if supported {
		t.Error("no verdict must grade unsupported")
	}
}

func TestLoadTestCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_cases.json")
	content := `{"test_cases": [
		{"question": "kulüp nasıl kurulur", "relevant_contexts": [{"content": "MADDE 2 içerik"}], "expected_answer": "on öğrenci gerekir"}
	]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cases, err := LoadTestCases(path)
	if err != nil {
		t.Fatalf("LoadTestCases: %v", err)
	}
	if len(cases) != 1 || cases[0].Question != "kulüp nasıl kurulur" {
		t.Errorf("cases=%+v", cases)
	}
}

func TestLoadTestCases_EmptyOrMissing(t *testing.T) {
	if _, err := LoadTestCases(filepath.Join(t.TempDir(), "yok.json")); err == nil {
		t.Error("missing file must error")
	}
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"test_cases": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTestCases(path); err == nil {
		t.Error("empty test set must error")
	}
}

func TestHarnessRun(t *testing.T) {
	answerer := &fakeAnswerer{answers: map[string]string{
		"soru bir": "cevap bir",
		"soru iki": "cevap iki",
	}}
	grader := NewGrader(&fakeGraderLLM{verdicts: []string{"yes", "no"}})
	scorer := &fixedScorer{scores: Scores{ContextRecall: 0.9, ContextPrecision: 0.8, Faithfulness: 0.95, AnswerRelevancy: 0.85}}
	h := NewHarness(answerer, grader, WithScorer(scorer))

	cases := []models.TestCase{
		{Question: "soru bir", RelevantContexts: []models.TestContext{{Content: "bağlam bir"}}, ExpectedAnswer: "cevap bir"},
		{Question: "soru iki", RelevantContexts: []models.TestContext{{Content: "bağlam iki"}}, ExpectedAnswer: "cevap iki"},
	}
	report, err := h.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Cases) != 2 {
		t.Fatalf("cases=%d", len(report.Cases))
	}
	if !report.Cases[0].Supported || report.Cases[1].Supported {
		t.Errorf("grades=%v,%v", report.Cases[0].Supported, report.Cases[1].Supported)
	}
	if got := report.HallucinationRate(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("HallucinationRate=%v", got)
	}
	if report.Cases[0].TotalTokens != 150 {
		t.Errorf("TotalTokens=%d, want reported usage", report.Cases[0].TotalTokens)
	}
	wantCost := Cost(100, 50)
	if math.Abs(report.Cases[0].Cost-wantCost) > 1e-12 {
		t.Errorf("Cost=%v, want %v", report.Cases[0].Cost, wantCost)
	}
	if report.Scores == nil || report.Scores.Faithfulness != 0.95 {
		t.Errorf("Scores=%+v", report.Scores)
	}
}

func TestHarnessRun_EstimatorFallback(t *testing.T) {
	answerer := answererFunc(func(_ context.Context, query string, _ []models.ConversationTurn) (*agent.Result, error) {
		return &agent.Result{Answer: "kısa cevap", State: agent.StateAnswered}, nil
	})
	grader := NewGrader(&fakeGraderLLM{verdicts: []string{"yes"}})
	h := NewHarness(answerer, grader)

	report, err := h.Run(context.Background(), []models.TestCase{
		{Question: "bir soru", RelevantContexts: []models.TestContext{{Content: "bağlam"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := report.Cases[0]
	if c.InputTokens != EstimateTokens("bir soru") || c.OutputTokens != EstimateTokens("kısa cevap") {
		t.Errorf("estimated tokens=%d/%d", c.InputTokens, c.OutputTokens)
	}
}

func TestReportWrite(t *testing.T) {
	report := &Report{
		Cases: []CaseResult{
			{Question: "s", Answer: "c", Supported: true, InputTokens: 100, OutputTokens: 50, TotalTokens: 150, Cost: Cost(100, 50)},
			{Question: "s2", Answer: "c2", Supported: false, InputTokens: 100, OutputTokens: 50, TotalTokens: 150, Cost: Cost(100, 50)},
		},
		Scores: &Scores{ContextRecall: 0.9},
	}
	var b strings.Builder
	report.Write(&b)
	out := b.String()
	for _, want := range []string{
		"=== Kapsamlı Değerlendirme Raporu ===",
		"Context Recall: 0.9000",
		"Ortalama Input Token: 100.00",
		"Ortalama Toplam Token: 150.00",
		"Halüsinasyon Oranı: 50.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

type answererFunc func(context.Context, string, []models.ConversationTurn) (*agent.Result, error)

func (f answererFunc) Run(ctx context.Context, q string, h []models.ConversationTurn) (*agent.Result, error) {
	return f(ctx, q, h)
}
