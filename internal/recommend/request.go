// Package recommend ranks catalog songs by personality tag match and mood proximity.
package recommend

import (
	"strings"

	"github.com/justestif/go-mbti-song-recommender/internal/validation"
)

// Types lists the sixteen personality codes in display order.
var Types = []string{
	"INTJ", "INTP", "ENTJ", "ENTP", "INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ", "ISTP", "ISFP", "ESTP", "ESFP",
}

// DefaultType is preselected in the settings form.
const DefaultType = "INFP"

// Request holds the user's preferences for one recommendation run.
type Request struct {
	Type      string   `json:"type" validate:"required,oneof=INTJ INTP ENTJ ENTP INFJ INFP ENFJ ENFP ISTJ ISFJ ESTJ ESFJ ISTP ISFP ESTP ESFP"`
	Mood      int      `json:"mood" validate:"min=1,max=10"`
	Genres    []string `json:"genres"`
	Count     int      `json:"count" validate:"min=1"`
	Randomize bool     `json:"randomize"`
}

// normalized returns a copy with the type upper-cased and blank genres dropped.
func (r Request) normalized() Request {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))

	var genres []string
	for _, g := range r.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	r.Genres = genres
	return r
}

// Validate checks the request bounds. The type is compared case-insensitively.
// Errors are *validation.Error.
func (r Request) Validate() error {
	return validation.Struct(r.normalized())
}

// IsType reports whether code is one of the sixteen personality codes.
func IsType(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, t := range Types {
		if t == code {
			return true
		}
	}
	return false
}
