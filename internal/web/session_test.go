package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/game"
)

// fakeClock returns a controllable now function.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(ttl)
	store.now = clock.now
	return store, clock
}

func TestSessionStore_Create(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	s := store.Create()
	if s.ID == "" {
		t.Fatal("session ID is empty")
	}
	if s.Catalog == nil || s.Catalog.Source != catalog.SourceSample {
		t.Errorf("new session catalog = %+v, want sample", s.Catalog)
	}
	if s.Game != game.New() {
		t.Errorf("new session game = %+v", s.Game)
	}
	if s.Form.Type != "INFP" || s.Form.Mood != 6 || s.Form.Count != 8 || !s.Form.Randomize {
		t.Errorf("new session form = %+v", s.Form)
	}

	other := store.Create()
	if other.ID == s.ID {
		t.Error("two sessions share an ID")
	}
}

func TestSessionStore_SaveIsCopy(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	s := store.Create()

	// Changes are invisible until saved
	s.Game.Lives = 1
	got, ok := store.Get(s.ID)
	if !ok {
		t.Fatal("session not found")
	}
	if got.Game.Lives != game.StartingLives {
		t.Errorf("unsaved change leaked: lives = %d", got.Game.Lives)
	}

	store.Save(s)
	got, _ = store.Get(s.ID)
	if got.Game.Lives != 1 {
		t.Errorf("saved lives = %d, want 1", got.Game.Lives)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	old := store.Create()

	clock.t = clock.t.Add(30 * time.Minute)
	fresh := store.Create()

	if _, ok := store.Get(old.ID); !ok {
		t.Error("session expired too early")
	}

	clock.t = clock.t.Add(45 * time.Minute)
	if _, ok := store.Get(old.ID); ok {
		t.Error("expired session still returned")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Error("fresh session missing")
	}

	if n := store.DeleteExpired(); n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	s := store.Create()

	store.Delete(s.ID)
	if _, ok := store.Get(s.ID); ok {
		t.Error("deleted session still returned")
	}
}

func TestSessionStore_Load(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	// No cookie: a session is created and the cookie set
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s := store.Load(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName || cookies[0].Value != s.ID {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	// With the cookie: same session, no new cookie
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again := store.Load(rec, req)

	if again.ID != s.ID {
		t.Errorf("Load() ID = %q, want %q", again.ID, s.ID)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie re-set for an existing session")
	}

	// Unknown cookie: replaced
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale"})
	replaced := store.Load(rec, req)

	if replaced.ID == "stale" || replaced.ID == s.ID {
		t.Errorf("Load() reused ID %q", replaced.ID)
	}
}

func TestNewSessionStore_DefaultTTL(t *testing.T) {
	store := NewSessionStore(0)
	if store.ttl != DefaultSessionTTL {
		t.Errorf("ttl = %v, want %v", store.ttl, DefaultSessionTTL)
	}
}

func TestServer_SweepSessions(t *testing.T) {
	server, err := NewServer(ServerConfig{TemplatesFS: testTemplatesFS(), SessionTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	server.sessions.now = clock.now
	server.sessions.Create()
	clock.t = clock.t.Add(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.sweepSessions(ctx, time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for server.sessions.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("expired session not swept")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
