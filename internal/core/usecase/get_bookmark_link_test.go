package usecase

import (
	"context"
	"testing"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBookmarkLink_ReturnsKey(t *testing.T) {
	links := newFakeLinkRepo()
	uc := NewGetBookmarkLinkUseCase(links)
	userID := uuid.New()
	links.keys[userID] = "key-1"

	key, err := uc.Execute(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)
}

func TestGetBookmarkLink_EmptyStateFailsNotFound(t *testing.T) {
	uc := NewGetBookmarkLinkUseCase(newFakeLinkRepo())

	_, err := uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}
