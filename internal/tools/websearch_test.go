package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebSearcher_RendersResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("siteSearch"); got != "btu.edu.tr" {
			t.Errorf("siteSearch=%q", got)
		}
		var resp cseResponse
		resp.Items = append(resp.Items,
			struct {
				Title   string `json:"title"`
				Link    string `json:"link"`
				Snippet string `json:"snippet"`
			}{Title: "Kulüpler", Link: "https://btu.edu.tr/kulupler", Snippet: "Öğrenci kulüpleri listesi"},
			struct {
				Title   string `json:"title"`
				Link    string `json:"link"`
				Snippet string `json:"snippet"`
			}{Title: "Duyurular", Link: "https://btu.edu.tr/duyurular", Snippet: "Güncel duyurular"},
		)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	w := NewWebSearcher("key", "cse", "btu.edu.tr", 3, WithEndpoint(srv.URL))
	out := w.Search(context.Background(), "öğrenci kulüpleri")
	if !strings.Contains(out, "Kulüpler\nhttps://btu.edu.tr/kulupler\nÖğrenci kulüpleri listesi") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Error("result blocks should be separated by blank lines")
	}
}

func TestWebSearcher_NoResultsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(cseResponse{})
	}))
	defer srv.Close()

	w := NewWebSearcher("key", "cse", "btu.edu.tr", 3, WithEndpoint(srv.URL))
	if out := w.Search(context.Background(), "x"); out != NoWebResult {
		t.Errorf("got %q, want %q", out, NoWebResult)
	}
}

func TestWebSearcher_APIFailureIsOutputNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	w := NewWebSearcher("key", "cse", "btu.edu.tr", 3, WithEndpoint(srv.URL))
	tool := NewWebSearchTool(w)
	out, err := tool.Run(context.Background(), "x")
	if err != nil {
		t.Fatalf("web search tool must not return an error: %v", err)
	}
	if !strings.HasPrefix(out, "Google Custom Search Error:") {
		t.Errorf("got %q", out)
	}
}

func TestWebSearcher_MaxResultsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp cseResponse
		for i := 0; i < 5; i++ {
			resp.Items = append(resp.Items, struct {
				Title   string `json:"title"`
				Link    string `json:"link"`
				Snippet string `json:"snippet"`
			}{Title: "t", Link: "l", Snippet: "s"})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	w := NewWebSearcher("key", "cse", "btu.edu.tr", 3, WithEndpoint(srv.URL))
	out := w.Search(context.Background(), "x")
	if got := strings.Count(out, "t\nl\ns"); got != 3 {
		t.Errorf("expected 3 blocks, got %d", got)
	}
}

func TestRegistry_ClosedDispatch(t *testing.T) {
	known := &Tool{Name: NameRetrieve, Description: "d", Run: func(ctx context.Context, in string) (string, error) { return "", nil }}
	r := NewRegistry(known)

	if _, err := r.Lookup("retrieve"); err != nil {
		t.Errorf("known tool lookup failed: %v", err)
	}
	if _, err := r.Lookup(" retrieve "); err != nil {
		t.Errorf("lookup should trim whitespace: %v", err)
	}
	if _, err := r.Lookup("delete_everything"); err == nil {
		t.Error("unknown tool must be rejected")
	}
	if names := r.Names(); len(names) != 1 || names[0] != "retrieve" {
		t.Errorf("Names=%v", names)
	}
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry(
		&Tool{Name: NameRetrieve, Description: "maddeleri arar"},
		&Tool{Name: NameWebSearch, Description: "sitede arar"},
	)
	want := "retrieve: maddeleri arar\ngoogle_search_univ: sitede arar"
	if got := r.Describe(); got != want {
		t.Errorf("Describe()=%q", got)
	}
}
