package recommend

import (
	"errors"
	"slices"
	"testing"

	"github.com/justestif/go-mbti-song-recommender/internal/validation"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantField string
	}{
		{name: "valid", req: Request{Type: "INFP", Mood: 6, Count: 8}},
		{name: "lower-case type", req: Request{Type: "enfj", Mood: 1, Count: 1}},
		{name: "mood upper bound", req: Request{Type: "ISTP", Mood: 10, Count: 30}},
		{name: "bad type", req: Request{Type: "XXXX", Mood: 6, Count: 8}, wantField: "type"},
		{name: "bad mood", req: Request{Type: "INFP", Mood: 12, Count: 8}, wantField: "mood"},
		{name: "bad count", req: Request{Type: "INFP", Mood: 6, Count: -1}, wantField: "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *validation.Error", err)
			}
			if verr.Fields[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Fields[0].Field, tt.wantField)
			}
		})
	}
}

func TestRequest_NormalizedDropsBlankGenres(t *testing.T) {
	req := Request{Type: " infp ", Genres: []string{"", " pop ", "  "}}

	got := req.normalized()
	if got.Type != "INFP" {
		t.Errorf("Type = %q, want INFP", got.Type)
	}
	if !slices.Equal(got.Genres, []string{"pop"}) {
		t.Errorf("Genres = %v, want [pop]", got.Genres)
	}
	if req.Type != " infp " {
		t.Error("normalized modified the receiver")
	}
}
