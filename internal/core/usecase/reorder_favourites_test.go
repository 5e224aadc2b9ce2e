package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderFavourites_AppliesAllPairs(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewReorderFavouritesUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "A", "a.com")
	seedEntry(t, repo, userID, "B", "b.com")

	err := uc.Execute(context.Background(), userID, []domain.ReorderPair{
		{URL: "https://a.com/", Order: 1},
		{URL: "https://b.com/", Order: 0},
	})
	require.NoError(t, err)

	entries, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	orders := map[string]int{}
	for _, e := range entries {
		orders[e.URL] = e.Order
	}
	assert.Equal(t, 1, orders["https://a.com/"])
	assert.Equal(t, 0, orders["https://b.com/"])
}

func TestReorderFavourites_ValidationErrors(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewReorderFavouritesUseCase(repo)
	userID := uuid.New()

	err := uc.Execute(context.Background(), userID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "empty batch")

	err = uc.Execute(context.Background(), userID, []domain.ReorderPair{{URL: "", Order: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pair without url")

	err = uc.Execute(context.Background(), userID, []domain.ReorderPair{{URL: "https://a.com/", Order: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "negative order")
}

func TestReorderFavourites_UnknownURLFailsWholeBatch(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewReorderFavouritesUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "A", "a.com")

	err := uc.Execute(context.Background(), userID, []domain.ReorderPair{
		{URL: "https://a.com/", Order: 1},
		{URL: "https://missing.com/", Order: 0},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReorderFavourites_RepositoryFailureIsWrapped(t *testing.T) {
	repo := newFakeFavouritesRepo()
	repo.reorderErr = errors.New("connection reset")
	uc := NewReorderFavouritesUseCase(repo)

	err := uc.Execute(context.Background(), uuid.New(), []domain.ReorderPair{{URL: "https://a.com/", Order: 0}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to reorder favourites")
}
