package tools

import (
	"context"

	"github.com/openmevzuat/mevzuat/internal/retrieval"
)

// NewRetrieveTool wraps the retriever as an agent tool. The output is the
// citation-ready rendering of the top-k articles; a retrieval failure
// propagates to the loop, which records it as an observation.
func NewRetrieveTool(r *retrieval.Retriever, k int) *Tool {
	return &Tool{
		Name: NameRetrieve,
		Description: "PDF'lerdeki ilgili maddeleri aramak için kullanılır. " +
			"Örnek: 'öğrenci kulübü kurma şartları' üzerine araştırma yap.",
		Run: func(ctx context.Context, input string) (string, error) {
			articles, err := r.Retrieve(ctx, input, k)
			if err != nil {
				return "", err
			}
			return retrieval.FormatArticles(articles), nil
		},
	}
}
