package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/openmevzuat/mevzuat/internal/models"
)

func TestManager_NewSessionPerEmptyID(t *testing.T) {
	m := NewManager()
	a := m.Get("")
	b := m.Get("")
	if a.ID() == b.ID() {
		t.Error("empty id must create distinct sessions")
	}
	if m.Count() != 2 {
		t.Errorf("Count=%d", m.Count())
	}
}

func TestManager_ResolvesExisting(t *testing.T) {
	m := NewManager()
	a := m.Get("")
	if got := m.Get(a.ID()); got != a {
		t.Error("same id must resolve to the same session")
	}
}

func TestManager_HonorsClientProvidedID(t *testing.T) {
	m := NewManager()
	s := m.Get("resume-42")
	if s.ID() != "resume-42" {
		t.Errorf("ID=%q", s.ID())
	}
	if m.Get("resume-42") != s {
		t.Error("client-provided id must be resumable")
	}
}

func TestSession_AppendExchangeOrder(t *testing.T) {
	m := NewManager()
	s := m.Get("")
	s.AppendExchange("soru bir", "cevap bir")
	s.AppendExchange("soru iki", "cevap iki")

	h := s.History()
	if len(h) != 4 {
		t.Fatalf("len=%d", len(h))
	}
	want := []models.ConversationTurn{
		{Role: models.RoleUser, Content: "soru bir"},
		{Role: models.RoleAssistant, Content: "cevap bir"},
		{Role: models.RoleUser, Content: "soru iki"},
		{Role: models.RoleAssistant, Content: "cevap iki"},
	}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, h[i], want[i])
		}
	}
}

func TestSession_HistoryIsACopy(t *testing.T) {
	s := NewManager().Get("")
	s.AppendExchange("a", "b")
	h := s.History()
	h[0].Content = "değiştirildi"
	if s.History()[0].Content != "a" {
		t.Error("mutating the returned history must not affect the session")
	}
}

func TestSession_ConcurrentAppends(t *testing.T) {
	m := NewManager()
	s := m.Get("")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	// Concurrent Get on other ids exercises the manager lock.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Get(fmt.Sprintf("s%d", i))
		}(i)
	}
	wg.Wait()

	if s.Len() != 100 {
		t.Errorf("turns=%d, want 100", s.Len())
	}
}
