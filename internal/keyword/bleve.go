// Package keyword provides the Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// bleveArticle is the document shape stored in the index. Content uses the
// standard analyzer (lowercase + tokenize, no stemming; Turkish regulation
// text does not survive the English stemmer). Source and madde_number are
// exact keyword fields.
type bleveArticle struct {
	Content     string `json:"content"`
	Source      string `json:"source"`
	MaddeNumber string `json:"madde_number"`
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused so the
// ingestion short-circuit does not rebuild it. If the mapping changes in
// code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("madde_number", keywordFieldMapping)
	im.AddDocumentMapping("article", docMapping)
	im.DefaultType = "article"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes an article by its ID.
func (b *BleveIndex) Index(ctx context.Context, a *models.Article) error {
	return b.index.Index(a.ID, bleveArticle{
		Content:     a.Content,
		Source:      a.Source,
		MaddeNumber: a.MaddeNumber,
	})
}

// Search runs a match query over article content.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error) {
	q := bleve.NewMatchQuery(query)
	q.SetField("content")
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// SearchMadde returns articles matching the exact madde number.
func (b *BleveIndex) SearchMadde(ctx context.Context, maddeNumber string, limit int) ([]*KeywordResult, error) {
	q := bleve.NewTermQuery(maddeNumber)
	q.SetField("madde_number")
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve madde search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes an article from the index by ID.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the underlying index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
