// Package storage defines the persistence interface for articles.
package storage

import (
	"context"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// Storage defines article persistence operations.
type Storage interface {
	CreateArticle(ctx context.Context, a *models.Article) error
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	GetArticles(ctx context.Context, ids []string) ([]*models.Article, error)
	ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error)
	ListSources(ctx context.Context) ([]string, error)
	ListArticleIDsBySource(ctx context.Context, source string) ([]string, error)
	DeleteArticlesBySource(ctx context.Context, source string) error

	// BatchCreateArticles inserts articles in one transaction.
	BatchCreateArticles(ctx context.Context, articles []*models.Article) error

	CountArticles(ctx context.Context) (int64, error)

	Close() error
}
