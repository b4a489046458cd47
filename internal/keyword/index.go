// Package keyword provides keyword (BM25) indexing and search over articles.
package keyword

import (
	"context"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// KeywordIndex defines keyword search operations over articles.
type KeywordIndex interface {
	Index(ctx context.Context, a *models.Article) error
	// Search runs a match query over article content and returns up to limit hits.
	Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error)
	// SearchMadde returns articles whose madde number equals the given
	// identifier exactly (e.g. "5 (1)").
	SearchMadde(ctx context.Context, maddeNumber string, limit int) ([]*KeywordResult, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// KeywordResult is a single keyword search hit; ID is the article ID.
type KeywordResult struct {
	ID    string
	Score float64
}
