package eval

import "context"

// Scores holds the retrieval and answer quality metrics reported by an
// external scoring service.
type Scores struct {
	ContextRecall    float64
	ContextPrecision float64
	Faithfulness     float64
	AnswerRelevancy  float64
}

// Scorer computes corpus-level quality scores for a batch of answered test
// cases. The scoring model is a remote oracle; implementations wrap whatever
// service provides it.
type Scorer interface {
	Score(ctx context.Context, questions, answers []string, contexts [][]string, references []string) (*Scores, error)
}
