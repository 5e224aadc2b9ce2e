package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFavourite_NormalizesBeforeInsert(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewAddFavouriteUseCase(repo)
	userID := uuid.New()

	entry, err := uc.Execute(context.Background(), userID, "  My Site  ", "EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, "My Site", entry.Title)
	assert.Equal(t, "https://example.com/", entry.URL)
}

func TestAddFavourite_RejectsMissingFields(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewAddFavouriteUseCase(repo)
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "", "example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), userID, "Title", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, repo.insertCalls, "invalid input must not reach the repository")
}

func TestAddFavourite_RejectsOverlongFields(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewAddFavouriteUseCase(repo)
	userID := uuid.New()

	longTitle := strings.Repeat("я", domain.MaxTitleLength+1)
	_, err := uc.Execute(context.Background(), userID, longTitle, "example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	longURL := "https://example.com/" + strings.Repeat("a", domain.MaxURLLength)
	_, err = uc.Execute(context.Background(), userID, "Title", longURL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddFavourite_DuplicateAfterNormalization(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewAddFavouriteUseCase(repo)
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "Ex", "example.com")
	require.NoError(t, err)

	// Другое написание того же адреса нормализуется в тот же URL.
	_, err = uc.Execute(context.Background(), userID, "Ex2", "https://example.com/")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAddFavourite_LimitBoundary(t *testing.T) {
	repo := newFakeFavouritesRepo()
	uc := NewAddFavouriteUseCase(repo)
	userID := uuid.New()

	for i := 0; i < domain.MaxFavourites; i++ {
		_, err := uc.Execute(context.Background(), userID, "Site", fmt.Sprintf("site-%d.com", i))
		require.NoError(t, err, "entry %d must fit under the cap", i)
	}

	_, err := uc.Execute(context.Background(), userID, "One Too Many", "overflow.com")
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
}
