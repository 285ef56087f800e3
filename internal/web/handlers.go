package web

import (
	"bytes"
	"context"
	"net/http"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/insights"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
	"github.com/justestif/go-mbti-song-recommender/internal/recommend"
)

// DefaultUploadMaxBytes is the upload limit when none is configured.
const DefaultUploadMaxBytes int64 = 2 << 20

// Enricher fills in missing fields of uploaded songs.
// *spotify.Client satisfies it.
type Enricher interface {
	FillPreviews(ctx context.Context, songs []catalog.Song) ([]catalog.Song, int, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	sessions  *SessionStore
	templates *Templates
	ranker    *recommend.Ranker
	enricher  Enricher
	insights  insights.Config
	maxUpload int64
}

// HandlerOption configures Handlers.
type HandlerOption func(*Handlers)

// WithEnricher enables preview lookups for uploaded catalogs.
func WithEnricher(e Enricher) HandlerOption {
	return func(h *Handlers) {
		h.enricher = e
	}
}

// WithInsights sets the vibe grouping parameters.
func WithInsights(cfg insights.Config) HandlerOption {
	return func(h *Handlers) {
		h.insights = cfg
	}
}

// WithUploadLimit caps the size of uploaded catalog files.
func WithUploadLimit(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions *SessionStore, templates *Templates, ranker *recommend.Ranker, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		sessions:  sessions,
		templates: templates,
		ranker:    ranker,
		insights:  insights.DefaultConfig(),
		maxUpload: DefaultUploadMaxBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Home handles the landing page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	data := HomePageData{
		PageData: h.pageData(r, &session, "MBTI Songs"),
	}
	h.sessions.Save(session)

	h.render(w, http.StatusOK, "home", data)
}

// Health reports liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// pageData builds the common page fields and consumes the pending flash.
func (h *Handlers) pageData(r *http.Request, session *Session, title string) PageData {
	data := PageData{
		Title:       title,
		Flash:       session.Flash,
		CurrentPath: r.URL.Path,
	}
	session.Flash = nil
	return data
}

// render executes a page into a buffer first so a template error never
// leaves a half-written page behind.
func (h *Handlers) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.templates.Render(&buf, page, data); err != nil {
		logging.Error().Err(err).Str("template", page).Msg("Failed to render template")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) renderPartial(w http.ResponseWriter, status int, partial string, data any) {
	var buf bytes.Buffer
	if err := h.templates.RenderPartial(&buf, partial, data); err != nil {
		logging.Error().Err(err).Str("partial", partial).Msg("Failed to render partial")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect stores the flash for the next page and sends a 303.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, session Session, to string, msg *FlashMessage) {
	if msg != nil {
		session.Flash = msg
	}
	h.sessions.Save(session)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
