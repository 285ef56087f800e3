// Package web provides the HTTP server and web UI for the MBTI song
// recommender and the pi memory game.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/game"
	"github.com/justestif/go-mbti-song-recommender/internal/insights"
	"github.com/justestif/go-mbti-song-recommender/internal/recommend"
)

const (
	sessionCookieName = "session_id"

	// DefaultSessionTTL is used when the store is created with a non-positive TTL.
	DefaultSessionTTL = 24 * time.Hour
)

// Session is the per-visitor state of both apps.
// Handlers work on a copy and hand it back with Save. Pointer fields are
// never mutated in place, only replaced.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Catalog is the active song table, the sample until a CSV is uploaded.
	Catalog *catalog.Catalog
	// Form is the last submitted recommender settings.
	Form RecommendForm
	// Last is the most recent recommendation, nil before the first run.
	Last *Result
	// Insight caches the vibe grouping of Catalog.
	Insight *CatalogInsight

	Game game.State

	// Flash is shown once on the next full page render.
	Flash *FlashMessage
}

// Result is one completed recommendation run.
type Result struct {
	Request    recommend.Request
	Songs      []catalog.Song
	HasPreview bool // Whether the catalog carried a preview_url column
}

// CatalogInsight is the vibe grouping computed for one catalog.
type CatalogInsight struct {
	CatalogID string
	Vibes     []insights.Vibe
	Outliers  []catalog.Song
}

// SessionStore manages visitor sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a fresh session on the sample catalog with a new game.
func (s *SessionStore) Create() Session {
	session := &Session{
		ID:        generateSessionID(),
		CreatedAt: s.now(),
		Catalog:   catalog.Sample(),
		Form:      defaultForm(),
		Game:      game.New(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return *session
}

// Get returns a copy of the session with the given ID.
// Unknown and expired sessions report false.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return Session{}, false
	}
	return *session, true
}

// Load returns the request's session, creating one and setting the cookie
// when the request has none or it has expired.
func (s *SessionStore) Load(w http.ResponseWriter, r *http.Request) Session {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if session, ok := s.Get(cookie.Value); ok {
			return session
		}
	}

	session := s.Create()
	s.SetCookie(w, session)
	return session
}

// Save replaces the stored session with the given copy.
func (s *SessionStore) Save(session Session) {
	s.mu.Lock()
	s.sessions[session.ID] = &session
	s.mu.Unlock()
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

// expired must be called with mu held.
func (s *SessionStore) expired(session *Session) bool {
	return s.now().Sub(session.CreatedAt) > s.ttl
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.NewString()
}
