package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openmevzuat/mevzuat/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetArticle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := &models.Article{
		ID:          "a1",
		Content:     "MADDE 5 - (1) Kulüp en az 10 üye ile kurulur.",
		Source:      "kulup_yonetmeligi.pdf",
		MaddeNumber: "5 (1)",
	}
	if err := store.CreateArticle(ctx, a); err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	got, err := store.GetArticle(ctx, "a1")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if got.Content != a.Content || got.Source != a.Source || got.MaddeNumber != a.MaddeNumber {
		t.Errorf("got %+v", got)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	store := newTestStorage(t)
	if _, err := store.GetArticle(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing article")
	}
}

func TestGetArticles_PreservesOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		err := store.CreateArticle(ctx, &models.Article{ID: id, Content: id, Source: "s.pdf", MaddeNumber: "?"})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetArticles(ctx, []string{"c", "a", "missing"})
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("order not preserved: %+v", got)
	}
}

func TestBatchCreateAndCount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	articles := []*models.Article{
		{ID: "1", Content: "x", Source: "a.pdf", MaddeNumber: "1 (1)"},
		{ID: "2", Content: "y", Source: "a.pdf", MaddeNumber: "2 (1)"},
		{ID: "3", Content: "z", Source: "b.pdf", MaddeNumber: "?"},
	}
	if err := store.BatchCreateArticles(ctx, articles); err != nil {
		t.Fatalf("BatchCreateArticles: %v", err)
	}

	count, err := store.CountArticles(ctx)
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if count != 3 {
		t.Errorf("count=%d, want 3", count)
	}

	sources, err := store.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "a.pdf" || sources[1] != "b.pdf" {
		t.Errorf("sources=%v", sources)
	}
}

func TestListArticleIDsBySource(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_ = store.CreateArticle(ctx, &models.Article{ID: "1", Content: "x", Source: "a.pdf", MaddeNumber: "?"})
	_ = store.CreateArticle(ctx, &models.Article{ID: "2", Content: "y", Source: "b.pdf", MaddeNumber: "?"})
	_ = store.CreateArticle(ctx, &models.Article{ID: "3", Content: "z", Source: "a.pdf", MaddeNumber: "?"})

	ids, err := store.ListArticleIDsBySource(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("ListArticleIDsBySource: %v", err)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Errorf("ids=%v", ids)
	}

	ids, err = store.ListArticleIDsBySource(ctx, "yok.pdf")
	if err != nil || len(ids) != 0 {
		t.Errorf("ids=%v err=%v", ids, err)
	}
}

func TestDeleteArticlesBySource(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_ = store.CreateArticle(ctx, &models.Article{ID: "1", Content: "x", Source: "a.pdf", MaddeNumber: "?"})
	_ = store.CreateArticle(ctx, &models.Article{ID: "2", Content: "y", Source: "b.pdf", MaddeNumber: "?"})

	if err := store.DeleteArticlesBySource(ctx, "a.pdf"); err != nil {
		t.Fatalf("DeleteArticlesBySource: %v", err)
	}
	count, _ := store.CountArticles(ctx)
	if count != 1 {
		t.Errorf("count=%d, want 1", count)
	}
}
