package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/insights"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	partials  map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		partials:  make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderPartial renders a partial template (without base layout) with the given data.
// A partial file defines a template named after itself.
func (t *Templates) RenderPartial(w io.Writer, partial string, data any) error {
	tmpl, ok := t.partials[partial]
	if !ok {
		return fmt.Errorf("partial %q not found", partial)
	}
	return tmpl.ExecuteTemplate(w, partial, data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	// Common files to include with every page
	commonFiles := slices.Concat(layouts, partials)

	for _, page := range pages {
		name := templateName(page)
		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	// Partials are parsed together so one can include another
	for _, partial := range partials {
		name := templateName(partial)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, partials...)
		if err != nil {
			return fmt.Errorf("parsing partial %s: %w", name, err)
		}
		t.partials[name] = tmpl
	}

	return nil
}

func templateName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".html")
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// moodColor maps mood 1-10 to a hue from cool indigo to warm orange.
		"moodColor": func(mood int) template.CSS {
			mood = catalog.ClampMood(mood)
			f := float64(mood-catalog.MinMood) / float64(catalog.MaxMood-catalog.MinMood)
			hue := 264 - (f * 229)
			return template.CSS(fmt.Sprintf("hsl(%.0f, 70%%, 50%%)", hue))
		},

		// capitalize upper-cases the first letter: "lo-fi" -> "Lo-fi"
		"capitalize": func(s string) string {
			r, size := utf8.DecodeRuneInString(s)
			if r == utf8.RuneError {
				return s
			}
			return string(unicode.ToUpper(r)) + s[size:]
		},

		// hasString reports whether s is in list (checked genre boxes)
		"hasString": func(list []string, s string) bool {
			return slices.Contains(list, s)
		},

		// add adds two integers (for 1-based indexing in loops)
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	Flash       *FlashMessage
	CurrentPath string
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

func flash(kind, format string, args ...any) *FlashMessage {
	return &FlashMessage{Type: kind, Message: fmt.Sprintf(format, args...)}
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
}

// SongsPageData contains data for the recommender page template.
type SongsPageData struct {
	PageData
	Types   []string
	Genres  []string
	Form    RecommendForm
	Catalog CatalogData
	Results ResultsData
}

// CatalogData describes the active catalog.
type CatalogData struct {
	Source    string
	IsUpload  bool
	SongCount int
	Preview   []catalog.Song
	Vibes     []insights.Vibe
	Outliers  int
}

// ResultsData feeds the results partial. Ran is false before the first run.
type ResultsData struct {
	Error *FlashMessage
	Ran   bool
	Type  string
	Mood  int
	Songs []catalog.Song
}

// PiPageData contains data for the pi game page template.
type PiPageData struct {
	PageData
	Revealed  string
	Progress  int
	Lives     int
	Remaining int
	GameOver  bool
	Cleared   bool
}
