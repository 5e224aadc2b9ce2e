package usecase

import (
	"context"
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntry(t *testing.T, repo *fakeFavouritesRepo, userID uuid.UUID, title, rawURL string) domain.FavouriteEntry {
	t.Helper()
	cleanTitle, cleanURL := domain.CleanFavourite(title, rawURL)
	entry, err := repo.Insert(context.Background(), userID, cleanTitle, cleanURL)
	require.NoError(t, err)
	return *entry
}

func TestUpdateFavourite_RenameOnly(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewUpdateFavouriteUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "Old Name", "example.com")

	entry, err := uc.Execute(context.Background(), userID, "https://example.com/", "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", entry.Title)
	assert.Equal(t, "https://example.com/", entry.URL)
}

func TestUpdateFavourite_RetargetNormalizesURL(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewUpdateFavouriteUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "Site", "example.com")

	entry, err := uc.Execute(context.Background(), userID, "https://example.com/", "", "OTHER.com")
	require.NoError(t, err)
	assert.Equal(t, "https://other.com/", entry.URL)
	// Title не передавался и не должен был измениться.
	assert.Equal(t, "Site", entry.Title)
}

func TestUpdateFavourite_ValidationErrors(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewUpdateFavouriteUseCase(repo)
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "", "New Name", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "oldUrl is mandatory")

	_, err = uc.Execute(context.Background(), userID, "https://example.com/", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "at least one field must change")

	_, err = uc.Execute(context.Background(), userID, "https://example.com/", "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "blank title is not a rename")
}

func TestUpdateFavourite_NotFound(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewUpdateFavouriteUseCase(repo)
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "https://missing.com/", "Name", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateFavourite_DuplicateTarget(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewUpdateFavouriteUseCase(repo)
	userID := uuid.New()
	seedEntry(t, repo, userID, "First", "first.com")
	seedEntry(t, repo, userID, "Second", "second.com")

	// Перенацеливание на URL, уже занятый другой записью того же пользователя.
	_, err := uc.Execute(context.Background(), userID, "https://first.com/", "", "second.com")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
