package eval

import (
	"strings"
	"unicode/utf8"
)

// gpt-4o-mini pricing per 1K tokens, USD.
const (
	inputPricePer1K  = 0.00015
	outputPricePer1K = 0.0006
)

// Cost computes the per-query cost from token counts.
func Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*inputPricePer1K + float64(outputTokens)*outputPricePer1K) / 1000
}

// EstimateTokens approximates a token count when the model does not report
// usage. Turkish text averages close to one token per word piece of about
// four characters, with whole words as a floor.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := utf8.RuneCountInString(text)
	est := chars / 4
	if words > est {
		est = words
	}
	return est
}
