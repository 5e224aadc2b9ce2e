package usecase

import (
	"context"
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFavourite_RemovesEntry(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewDeleteFavouriteUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "Site", "example.com")

	err := uc.Execute(context.Background(), userID, "https://example.com/")
	require.NoError(t, err)

	entries, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteFavourite_RepeatedDeleteFailsNotFound(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewDeleteFavouriteUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "Site", "example.com")

	require.NoError(t, uc.Execute(context.Background(), userID, "https://example.com/"))
	err := uc.Execute(context.Background(), userID, "https://example.com/")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFavourite_RequiresURL(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewDeleteFavouriteUseCase(repo)

	err := uc.Execute(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListFavourites_EmptyListIsNotAnError(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewListFavouritesUseCase(repo)

	entries, err := uc.Execute(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
