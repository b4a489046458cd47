// Package retrieval provides the retrieval adapter over the vector and keyword
// indices, and the citation-ready rendering of retrieved articles.
package retrieval

import (
	"context"
	"fmt"

	"github.com/openmevzuat/mevzuat/internal/embedding"
	"github.com/openmevzuat/mevzuat/internal/keyword"
	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/storage"
	"github.com/openmevzuat/mevzuat/internal/vector"
)

// DefaultK is the result count used when the caller passes k <= 0.
const DefaultK = 3

// Retriever answers similarity queries against the article corpus. It embeds
// the query, ranks article IDs in the vector index, and loads the records
// from storage. When a keyword index is configured, keyword hits fill the
// tail of the result when vector search returns fewer than k articles.
// The retriever never mutates the indices and never retries: an index
// failure propagates to the caller.
type Retriever struct {
	storage  storage.Storage
	embedder embedding.Embedder
	vectors  vector.VectorIndex
	keywords keyword.KeywordIndex // optional
}

// NewRetriever creates a retriever. keywords may be nil.
func NewRetriever(store storage.Storage, embedder embedding.Embedder, vectors vector.VectorIndex, keywords keyword.KeywordIndex) *Retriever {
	return &Retriever{
		storage:  store,
		embedder: embedder,
		vectors:  vectors,
		keywords: keywords,
	}
}

// Retrieve returns up to k articles ranked by descending similarity.
// k <= 0 means DefaultK.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]*models.Article, error) {
	if k <= 0 {
		k = DefaultK
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.vectors.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	ids := make([]string, 0, k)
	seen := make(map[string]bool, k)
	for _, h := range hits {
		ids = append(ids, h.ID)
		seen[h.ID] = true
	}

	// Keyword hits only pad the tail; vector ranking stays untouched.
	if r.keywords != nil && len(ids) < k {
		kwHits, err := r.keywords.Search(ctx, query, k)
		if err != nil {
			return nil, fmt.Errorf("keyword search: %w", err)
		}
		for _, h := range kwHits {
			if len(ids) >= k {
				break
			}
			if !seen[h.ID] {
				ids = append(ids, h.ID)
				seen[h.ID] = true
			}
		}
	}

	articles, err := r.storage.GetArticles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return articles, nil
}
