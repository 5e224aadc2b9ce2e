package postgres_adapter

import (
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildFavouriteUpdateSet(t *testing.T) {
	tests := []struct {
		name     string
		upd      port.FavouriteUpdate
		firstArg int
		wantSet  string
		wantArgs []any
	}{
		{
			name:     "title only",
			upd:      port.FavouriteUpdate{Title: strPtr("New")},
			firstArg: 3,
			wantSet:  "title = $3",
			wantArgs: []any{"New"},
		},
		{
			name:     "url only",
			upd:      port.FavouriteUpdate{URL: strPtr("https://b.com/")},
			firstArg: 3,
			wantSet:  "url = $3",
			wantArgs: []any{"https://b.com/"},
		},
		{
			name:     "both fields keep placeholder order",
			upd:      port.FavouriteUpdate{Title: strPtr("New"), URL: strPtr("https://b.com/")},
			firstArg: 3,
			wantSet:  "title = $3, url = $4",
			wantArgs: []any{"New", "https://b.com/"},
		},
		{
			name:     "empty update",
			upd:      port.FavouriteUpdate{},
			firstArg: 3,
			wantSet:  "",
			wantArgs: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSet, gotArgs := buildFavouriteUpdateSet(tt.upd, tt.firstArg)
			assert.Equal(t, tt.wantSet, gotSet)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
