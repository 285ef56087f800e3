package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/insights"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
	"github.com/justestif/go-mbti-song-recommender/internal/recommend"
	"github.com/justestif/go-mbti-song-recommender/internal/validation"
)

const (
	defaultFormMood  = 6
	defaultFormCount = 8

	previewRows    = 10
	enrichTimeout  = 20 * time.Second
	uploadFormFile = "catalog"
)

// RecommendForm holds the recommender settings as submitted by the page.
type RecommendForm struct {
	Type      string   `json:"type" validate:"required"`
	Mood      int      `json:"mood" validate:"min=1,max=10"`
	Count     int      `json:"count" validate:"min=3,max=30"`
	Genres    []string `json:"genres"`
	Randomize bool     `json:"randomize"`
}

func defaultForm() RecommendForm {
	return RecommendForm{
		Type:      recommend.DefaultType,
		Mood:      defaultFormMood,
		Count:     defaultFormCount,
		Randomize: true,
	}
}

// parseRecommendForm reads settings from form or query values.
// Missing fields keep their defaults, except the randomize checkbox which
// is off unless present.
func parseRecommendForm(values url.Values) (RecommendForm, error) {
	f := defaultForm()
	var errs []validation.FieldError

	if v := strings.TrimSpace(values.Get("type")); v != "" {
		f.Type = strings.ToUpper(v)
	}

	intField := func(name string, dst *int) {
		v := strings.TrimSpace(values.Get(name))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validation.FieldError{
				Field:   name,
				Tag:     "number",
				Value:   v,
				Message: name + " must be a whole number",
			})
			return
		}
		*dst = n
	}
	intField("mood", &f.Mood)
	intField("count", &f.Count)

	f.Genres = nil
	for _, g := range values["genre"] {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			f.Genres = append(f.Genres, g)
		}
	}

	f.Randomize = truthy(values.Get("randomize"))

	if len(errs) > 0 {
		return f, &validation.Error{Fields: errs}
	}
	return f, nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// validate checks the form bounds, then the core request rules.
func (f RecommendForm) validate() error {
	if err := validation.Struct(f); err != nil {
		return err
	}
	return f.request().Validate()
}

func (f RecommendForm) request() recommend.Request {
	return recommend.Request{
		Type:      f.Type,
		Mood:      f.Mood,
		Genres:    f.Genres,
		Count:     f.Count,
		Randomize: f.Randomize,
	}
}

// Songs handles the recommender page (GET /songs).
func (h *Handlers) Songs(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	data := h.songsPageData(r, &session)
	h.sessions.Save(session)

	h.render(w, http.StatusOK, "songs", data)
}

// UploadCatalog replaces the session catalog with an uploaded CSV (POST /songs/catalog).
// Any load failure is reported and the session falls back to the sample.
func (h *Handlers) UploadCatalog(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		logging.Warn().Err(err).Str("session_id", session.ID).Msg("Upload could not be parsed")
		h.useSample(&session)

		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.redirect(w, r, session, "/songs", flash("error",
				"The file is larger than %d KB. Using the sample data.", h.maxUpload>>10))
			return
		}
		h.redirect(w, r, session, "/songs", flash("error", "Could not read the upload. Using the sample data."))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadFormFile)
	if errors.Is(err, http.ErrMissingFile) {
		h.redirect(w, r, session, "/songs", flash("warning", "Choose a CSV file to upload."))
		return
	}
	if err != nil {
		h.redirect(w, r, session, "/songs", flash("error", "Could not read the upload: %v", err))
		return
	}
	defer func() { _ = file.Close() }()

	cat, err := catalog.Load(file)
	if err != nil {
		logging.Warn().Err(err).Str("filename", header.Filename).Msg("Catalog upload rejected")
		h.useSample(&session)
		h.redirect(w, r, session, "/songs", uploadErrorFlash(err))
		return
	}

	cat = h.enrich(r.Context(), cat)

	session.Catalog = cat
	session.Last = nil
	session.Insight = nil
	session.Form.Genres = nil

	logging.Info().
		Str("session_id", session.ID).
		Str("catalog_id", cat.ID).
		Int("songs", cat.Len()).
		Msg("Catalog uploaded")

	h.redirect(w, r, session, "/songs", flash("success",
		"CSV uploaded. Using your data (%d songs).", cat.Len()))
}

func uploadErrorFlash(err error) *FlashMessage {
	var schema *catalog.SchemaError
	if errors.As(err, &schema) {
		return flash("error", "The CSV is missing columns: %s. Using the sample data.",
			strings.Join(schema.Missing, ", "))
	}
	return flash("error", "Could not read the CSV (%v). Using the sample data.", err)
}

// enrich fills missing preview links when an enricher is configured.
// Failures keep the catalog as loaded.
func (h *Handlers) enrich(ctx context.Context, cat *catalog.Catalog) *catalog.Catalog {
	if h.enricher == nil {
		return cat
	}

	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	songs, filled, err := h.enricher.FillPreviews(ctx, cat.Songs())
	if err != nil {
		logging.Warn().Err(err).Int("filled", filled).Msg("Preview enrichment stopped early")
	}
	if filled == 0 {
		return cat
	}

	logging.Debug().Str("catalog_id", cat.ID).Int("filled", filled).Msg("Filled preview links")
	return cat.WithSongs(songs)
}

// ResetCatalog switches the session back to the sample (POST /songs/catalog/reset).
func (h *Handlers) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	h.useSample(&session)
	h.redirect(w, r, session, "/songs", flash("info", "Using the sample data."))
}

func (h *Handlers) useSample(session *Session) {
	if session.Catalog != nil && session.Catalog.Source == catalog.SourceSample {
		return
	}
	session.Catalog = catalog.Sample()
	session.Last = nil
	session.Insight = nil
	session.Form.Genres = nil
}

// Recommend runs the ranker (POST /songs/recommend).
// HTMX requests get only the results fragment.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form, err := parseRecommendForm(r.PostForm)
	if err == nil {
		err = form.validate()
	}
	if err != nil {
		h.recommendError(w, r, session, form, err)
		return
	}

	req := form.request()
	songs, err := h.ranker.Recommend(session.Catalog.Songs(), req)
	if err != nil {
		h.recommendError(w, r, session, form, err)
		return
	}

	session.Form = form
	session.Last = &Result{
		Request:    req,
		Songs:      songs,
		HasPreview: session.Catalog.HasPreview,
	}

	logging.Debug().
		Str("session_id", session.ID).
		Str("type", req.Type).
		Int("mood", req.Mood).
		Int("results", len(songs)).
		Msg("Recommendations ready")

	if isHTMX(r) {
		h.sessions.Save(session)
		h.renderPartial(w, http.StatusOK, "results", resultsData(session.Last))
		return
	}

	data := h.songsPageData(r, &session)
	h.sessions.Save(session)
	h.render(w, http.StatusOK, "songs", data)
}

func (h *Handlers) recommendError(w http.ResponseWriter, r *http.Request, session Session, form RecommendForm, err error) {
	msg := flash("error", "Check your settings: %v", err)

	// HTMX only swaps 2xx responses
	if isHTMX(r) {
		h.sessions.Save(session)
		h.renderPartial(w, http.StatusOK, "results", ResultsData{Error: msg})
		return
	}

	session.Form = form
	session.Flash = msg
	data := h.songsPageData(r, &session)
	h.sessions.Save(session)
	h.render(w, http.StatusBadRequest, "songs", data)
}

// DownloadCSV sends the last recommendation as a file (GET /songs/recommendations.csv).
func (h *Handlers) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	if session.Last == nil {
		http.Error(w, "No recommendations yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+catalog.ExportFilename+`"`)
	if err := catalog.WriteCSV(w, session.Last.Songs, session.Last.HasPreview); err != nil {
		logging.Error().Err(err).Str("session_id", session.ID).Msg("Failed to write CSV export")
	}
}

func (h *Handlers) songsPageData(r *http.Request, session *Session) SongsPageData {
	cat := session.Catalog
	songs := cat.Songs()
	insight := h.insight(session)

	return SongsPageData{
		PageData: h.pageData(r, session, "MBTI Song Recommender"),
		Types:    recommend.Types,
		Genres:   catalog.Genres(songs),
		Form:     session.Form,
		Catalog: CatalogData{
			Source:    string(cat.Source),
			IsUpload:  cat.Source == catalog.SourceUpload,
			SongCount: cat.Len(),
			Preview:   cat.Head(previewRows),
			Vibes:     insight.Vibes,
			Outliers:  len(insight.Outliers),
		},
		Results: resultsData(session.Last),
	}
}

// insight returns the cached vibe grouping, computing it when the catalog changed.
func (h *Handlers) insight(session *Session) *CatalogInsight {
	if session.Insight != nil && session.Insight.CatalogID == session.Catalog.ID {
		return session.Insight
	}

	vibes, outliers := insights.Group(session.Catalog.Songs(), h.insights)
	session.Insight = &CatalogInsight{
		CatalogID: session.Catalog.ID,
		Vibes:     vibes,
		Outliers:  outliers,
	}

	logging.Debug().
		Str("catalog_id", session.Catalog.ID).
		Int("vibes", len(vibes)).
		Int("outliers", len(outliers)).
		Str("summary", insights.FormatSummary(vibes, outliers)).
		Msg("Grouped catalog into vibes")

	return session.Insight
}

func resultsData(last *Result) ResultsData {
	if last == nil {
		return ResultsData{}
	}
	return ResultsData{
		Ran:   true,
		Type:  last.Request.Type,
		Mood:  last.Request.Mood,
		Songs: last.Songs,
	}
}
