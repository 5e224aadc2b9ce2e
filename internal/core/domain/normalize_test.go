package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFavourite(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		url       string
		wantTitle string
		wantURL   string
	}{
		{
			name:      "bare host gets scheme and trailing slash",
			title:     "My Site",
			url:       "EXAMPLE.com",
			wantTitle: "My Site",
			wantURL:   "https://example.com/",
		},
		{
			name:      "empty title falls back to raw url",
			title:     "",
			url:       "EXAMPLE.com",
			wantTitle: "EXAMPLE.com",
			wantURL:   "https://example.com/",
		},
		{
			name:      "blank title falls back to raw url",
			title:     "   ",
			url:       "example.com",
			wantTitle: "example.com",
			wantURL:   "https://example.com/",
		},
		{
			name:      "http url kept as is",
			title:     "My Site",
			url:       "http://x.io",
			wantTitle: "My Site",
			wantURL:   "http://x.io",
		},
		{
			name:      "https url kept as is",
			title:     "Docs",
			url:       "https://go.dev/doc/",
			wantTitle: "Docs",
			wantURL:   "https://go.dev/doc/",
		},
		{
			name:      "url is trimmed and lowercased",
			title:     "Padded",
			url:       "  HTTPS://Example.COM/Path  ",
			wantTitle: "Padded",
			wantURL:   "https://example.com/path",
		},
		{
			name:      "title is trimmed",
			title:     "  Spaced Out  ",
			url:       "example.com",
			wantTitle: "Spaced Out",
			wantURL:   "https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTitle, gotURL := CleanFavourite(tt.title, tt.url)
			assert.Equal(t, tt.wantTitle, gotTitle)
			assert.Equal(t, tt.wantURL, gotURL)
		})
	}
}

func TestCleanFavourite_SameCanonicalForm(t *testing.T) {
	// Два разных ввода одного адреса должны дать одинаковый URL,
	// иначе дедупликация по уникальному индексу не сработает.
	_, first := CleanFavourite("Ex", "example.com")
	_, second := CleanFavourite("Ex2", "  EXAMPLE.COM  ")
	assert.Equal(t, first, second)
}

func TestFaviconURL(t *testing.T) {
	got := FaviconURL("https://example.com/")
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=https%3A%2F%2Fexample.com%2F&sz=128", got)
}
