package web

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
	"github.com/justestif/go-mbti-song-recommender/internal/validation"
)

// RecommendationsResponse is the body of GET /api/recommendations.
type RecommendationsResponse struct {
	Type      string         `json:"type"`
	Mood      int            `json:"mood"`
	Count     int            `json:"count"`
	Genres    []string       `json:"genres,omitempty"`
	Randomize bool           `json:"randomize"`
	CatalogID string         `json:"catalog_id"`
	Source    string         `json:"source"`
	Songs     []catalog.Song `json:"songs"`
}

// ErrorResponse is the body of a failed API call.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// RecommendationsAPI ranks the session catalog from query parameters
// (GET /api/recommendations?type=INFP&mood=6&count=8&genre=pop&randomize=true).
// The result does not replace the page's last recommendation.
func (h *Handlers) RecommendationsAPI(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	form, err := parseRecommendForm(r.URL.Query())
	if err == nil {
		err = form.request().Validate()
	}
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err)
		return
	}

	req := form.request()
	songs, err := h.ranker.Recommend(session.Catalog.Songs(), req)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err)
		return
	}
	if songs == nil {
		songs = []catalog.Song{}
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{
		Type:      req.Type,
		Mood:      req.Mood,
		Count:     req.Count,
		Genres:    req.Genres,
		Randomize: req.Randomize,
		CatalogID: session.Catalog.ID,
		Source:    string(session.Catalog.Source),
		Songs:     songs,
	})
}

func writeAPIError(w http.ResponseWriter, status int, err error) {
	body := ErrorResponse{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
