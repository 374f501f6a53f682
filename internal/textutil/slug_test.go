package textutil

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "IMDb Top 250 Movies", "imdb-top-250-movies"},
		{"punctuation runs", "Trakt: someone/essential-noir", "trakt-someone-essential-noir"},
		{"leading trailing", "  --Hello--  ", "hello"},
		{"empty", "", "unknown"},
		{"symbols only", "!!!", "unknown"},
		{"already slug", "top-250", "top-250"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
