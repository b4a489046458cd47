// Package ingest builds the article corpus: it scans a directory of
// regulation PDFs, extracts their text, segments them into articles, and
// loads storage, the vector index, and the keyword index in batches.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/config"
	"github.com/openmevzuat/mevzuat/internal/embedding"
	"github.com/openmevzuat/mevzuat/internal/extract"
	"github.com/openmevzuat/mevzuat/internal/keyword"
	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/segment"
	"github.com/openmevzuat/mevzuat/internal/storage"
	"github.com/openmevzuat/mevzuat/internal/vector"
)

// ErrNoArticles means the corpus scan finished without producing any
// articles, usually because no PDF contains MADDE-structured text.
var ErrNoArticles = errors.New("no articles produced: no MADDE content found in the document directory")

// Stats summarizes one pipeline run.
type Stats struct {
	Documents int
	Articles  int
	Batches   int
	Skipped   bool
}

// Pipeline ingests regulation documents into all three stores.
type Pipeline struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	extractor    *extract.Extractor
	cfg          *config.IngestConfig
	vectorPath   string
	logger       *zap.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for progress output.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates an ingestion pipeline. vectorPath is where the vector
// index is persisted between runs.
func NewPipeline(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	cfg *config.IngestConfig,
	vectorPath string,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		extractor:    extract.NewExtractor(),
		cfg:          cfg,
		vectorPath:   vectorPath,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run builds the corpus from the configured document directory. When a
// persisted vector index exists and storage is already populated, the scan
// is skipped and the persisted index is loaded instead.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	if p.persisted(ctx) {
		p.logger.Info("loading persisted index from disk", zap.String("path", p.vectorPath))
		if err := p.vectorIndex.Load(p.vectorPath); err != nil {
			return nil, fmt.Errorf("failed to load vector index: %w", err)
		}
		count, err := p.storage.CountArticles(ctx)
		if err != nil {
			return nil, err
		}
		return &Stats{Articles: int(count), Skipped: true}, nil
	}

	entries, err := os.ReadDir(p.cfg.PDFDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	var all []*models.Article
	documents := 0
	for _, entry := range entries {
		if entry.IsDir() || !supportedExt(entry.Name()) {
			continue
		}
		path := filepath.Join(p.cfg.PDFDir, entry.Name())
		articles, err := p.segmentFile(path)
		if err != nil {
			p.logger.Warn("skipping document", zap.String("path", path), zap.Error(err))
			continue
		}
		p.logger.Info("document segmented",
			zap.String("document", entry.Name()),
			zap.Int("articles", len(articles)))
		all = append(all, articles...)
		documents++
	}
	if len(all) == 0 {
		return nil, ErrNoArticles
	}
	p.logger.Info("corpus segmented", zap.Int("documents", documents), zap.Int("articles", len(all)))

	batches, err := p.load(ctx, all)
	if err != nil {
		return nil, err
	}
	if err := p.vectorIndex.Save(p.vectorPath); err != nil {
		return nil, fmt.Errorf("failed to persist vector index: %w", err)
	}
	return &Stats{Documents: documents, Articles: len(all), Batches: batches}, nil
}

// ReingestFile replaces all articles of one document, used when a watched
// PDF changes on disk. A deleted file passes through with removal only.
func (p *Pipeline) ReingestFile(ctx context.Context, path string) error {
	source := filepath.Base(path)
	if err := p.removeSource(ctx, source); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		p.logger.Info("document removed from corpus", zap.String("document", source))
		return p.vectorIndex.Save(p.vectorPath)
	}

	articles, err := p.segmentFile(path)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		p.logger.Warn("document has no MADDE content", zap.String("document", source))
		return p.vectorIndex.Save(p.vectorPath)
	}
	if _, err := p.load(ctx, articles); err != nil {
		return err
	}
	p.logger.Info("document reingested",
		zap.String("document", source),
		zap.Int("articles", len(articles)))
	return p.vectorIndex.Save(p.vectorPath)
}

func (p *Pipeline) segmentFile(path string) ([]*models.Article, error) {
	text, err := p.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	segments := segment.Segment(text, filepath.Base(path))
	articles := make([]*models.Article, len(segments))
	for i := range segments {
		a := segments[i]
		a.ID = uuid.NewString()
		articles[i] = &a
	}
	return articles, nil
}

// load embeds, stores, and indexes articles in batches. The vector index is
// persisted after every batch so an interrupted run loses at most one batch.
func (p *Pipeline) load(ctx context.Context, articles []*models.Article) (int, error) {
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	total := (len(articles) + batchSize - 1) / batchSize

	for i := 0; i < len(articles); i += batchSize {
		end := i + batchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[i:end]

		texts := make([]string, len(batch))
		for j, a := range batch {
			texts[j] = a.Content
		}
		embeddings, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed batch: %w", err)
		}
		ids := make([]string, len(batch))
		for j, a := range batch {
			a.Embedding = embeddings[j]
			ids[j] = a.ID
		}

		if err := p.storage.BatchCreateArticles(ctx, batch); err != nil {
			return 0, fmt.Errorf("failed to store batch: %w", err)
		}
		if err := p.vectorIndex.Add(ctx, ids, embeddings); err != nil {
			return 0, fmt.Errorf("failed to index vectors: %w", err)
		}
		for _, a := range batch {
			if err := p.keywordIndex.Index(ctx, a); err != nil {
				return 0, fmt.Errorf("failed to index keywords: %w", err)
			}
		}
		if err := p.vectorIndex.Save(p.vectorPath); err != nil {
			return 0, fmt.Errorf("failed to persist vector index: %w", err)
		}
		p.logger.Info("batch loaded", zap.Int("batch", i/batchSize+1), zap.Int("total", total))
	}
	return total, nil
}

func (p *Pipeline) removeSource(ctx context.Context, source string) error {
	ids, err := p.storage.ListArticleIDsBySource(ctx, source)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := p.vectorIndex.Remove(ctx, ids); err != nil {
		return err
	}
	for _, id := range ids {
		if err := p.keywordIndex.Delete(ctx, id); err != nil {
			return err
		}
	}
	return p.storage.DeleteArticlesBySource(ctx, source)
}

// supportedExt accepts the corpus formats: regulation PDFs plus plain-text
// exports of the same documents.
func supportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// persisted reports whether a prior run left both a vector index file and a
// populated article store behind.
func (p *Pipeline) persisted(ctx context.Context) bool {
	if _, err := os.Stat(p.vectorPath); err != nil {
		return false
	}
	count, err := p.storage.CountArticles(ctx)
	return err == nil && count > 0
}
