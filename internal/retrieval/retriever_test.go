package retrieval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openmevzuat/mevzuat/internal/embedding"
	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/storage"
	"github.com/openmevzuat/mevzuat/internal/vector"
)

func newTestRetriever(t *testing.T, articles []*models.Article) (*Retriever, embedding.Embedder) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	embedder := embedding.NewMockEmbedder(16)
	vecIdx, err := vector.NewMemoryIndex(16)
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range articles {
		if err := store.CreateArticle(ctx, a); err != nil {
			t.Fatal(err)
		}
		emb, err := embedder.Embed(ctx, a.Content)
		if err != nil {
			t.Fatal(err)
		}
		if err := vecIdx.Add(ctx, []string{a.ID}, [][]float32{emb}); err != nil {
			t.Fatal(err)
		}
	}
	return NewRetriever(store, embedder, vecIdx, nil), embedder
}

func TestRetriever_ExactContentRanksFirst(t *testing.T) {
	articles := []*models.Article{
		{ID: "a1", Content: "Kulüp en az 10 üye ile kurulur.", Source: "kulup.pdf", MaddeNumber: "5 (1)"},
		{ID: "a2", Content: "Sınav notuna itiraz yedi gün içinde yapılır.", Source: "sinav.pdf", MaddeNumber: "8 (1)"},
		{ID: "a3", Content: "Kayıt dondurma en fazla iki yarıyıl olabilir.", Source: "kayit.pdf", MaddeNumber: "12 (1)"},
	}
	r, _ := newTestRetriever(t, articles)

	// The mock embedder maps identical text to identical vectors, so querying
	// with an article's own content must rank that article first.
	got, err := r.Retrieve(context.Background(), "Sınav notuna itiraz yedi gün içinde yapılır.", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "a2" {
		t.Errorf("top article=%s, want a2", got[0].ID)
	}
}

func TestRetriever_DefaultK(t *testing.T) {
	articles := []*models.Article{
		{ID: "a1", Content: "bir", Source: "s.pdf", MaddeNumber: "1 (1)"},
		{ID: "a2", Content: "iki", Source: "s.pdf", MaddeNumber: "2 (1)"},
		{ID: "a3", Content: "üç", Source: "s.pdf", MaddeNumber: "3 (1)"},
		{ID: "a4", Content: "dört", Source: "s.pdf", MaddeNumber: "4 (1)"},
	}
	r, _ := newTestRetriever(t, articles)

	got, err := r.Retrieve(context.Background(), "bir", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != DefaultK {
		t.Errorf("k=0 should retrieve %d articles, got %d", DefaultK, len(got))
	}
}

func TestRetriever_EmptyIndex(t *testing.T) {
	r, _ := newTestRetriever(t, nil)
	got, err := r.Retrieve(context.Background(), "herhangi bir soru", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no articles, got %d", len(got))
	}
}
