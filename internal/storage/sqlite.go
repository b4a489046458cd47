// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		source TEXT NOT NULL,
		madde_number TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateArticle inserts an article.
func (s *SQLiteStorage) CreateArticle(ctx context.Context, a *models.Article) error {
	a.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, content, source, madde_number, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Content, a.Source, a.MaddeNumber, a.CreatedAt,
	)
	return err
}

// GetArticle returns an article by ID.
func (s *SQLiteStorage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, source, madde_number, created_at
		 FROM articles WHERE id = ?`, id,
	).Scan(&a.ID, &a.Content, &a.Source, &a.MaddeNumber, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("article not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetArticles returns the articles for the given IDs, in the order of ids.
// Missing IDs are skipped without error.
func (s *SQLiteStorage) GetArticles(ctx context.Context, ids []string) ([]*models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, source, madde_number, created_at
		 FROM articles WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*models.Article, len(ids))
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Content, &a.Source, &a.MaddeNumber, &a.CreatedAt); err != nil {
			return nil, err
		}
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Preserve the caller's ranking order.
	out := make([]*models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListArticles returns articles with offset and limit, in insertion order.
func (s *SQLiteStorage) ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, source, madde_number, created_at
		 FROM articles ORDER BY rowid LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Content, &a.Source, &a.MaddeNumber, &a.CreatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// ListSources returns the distinct source document names.
func (s *SQLiteStorage) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT source FROM articles ORDER BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// ListArticleIDsBySource returns the IDs of all articles from one source document.
func (s *SQLiteStorage) ListArticleIDsBySource(ctx context.Context, source string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM articles WHERE source = ? ORDER BY rowid`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteArticlesBySource removes all articles belonging to a source document.
func (s *SQLiteStorage) DeleteArticlesBySource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE source = ?`, source)
	return err
}

// BatchCreateArticles inserts multiple articles in a transaction.
func (s *SQLiteStorage) BatchCreateArticles(ctx context.Context, articles []*models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, content, source, madde_number, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, a := range articles {
		a.CreatedAt = now
		if _, err := stmt.ExecContext(ctx, a.ID, a.Content, a.Source, a.MaddeNumber, a.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountArticles returns the total number of articles.
func (s *SQLiteStorage) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
