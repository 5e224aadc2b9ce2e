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

func TestSetBookmarkLink_FirstLink(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{}
	queue := &fakeCleanupQueue{}
	uc := NewSetBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()

	created, err := uc.Execute(context.Background(), userID, "key-1")
	require.NoError(t, err)
	assert.True(t, created, "first link must be reported as created")
	assert.Zero(t, blobs.calls, "no old blob to dispose on first link")

	key, err := links.GetFileKey(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)
}

func TestSetBookmarkLink_ReplaceDeletesOldBlob(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{confirm: true}
	queue := &fakeCleanupQueue{}
	uc := NewSetBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-old"

	created, err := uc.Execute(context.Background(), userID, "key-new")
	require.NoError(t, err)
	assert.False(t, created, "replacement is not a creation")
	assert.Equal(t, "key-old", blobs.deletedKey)
	assert.Empty(t, queue.tasks, "confirmed deletion needs no deferred cleanup")

	key, err := links.GetFileKey(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "key-new", key)
}

func TestSetBookmarkLink_UnconfirmedDeletionGoesToQueue(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{confirm: false}
	queue := &fakeCleanupQueue{}
	uc := NewSetBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-old"

	_, err := uc.Execute(context.Background(), userID, "key-new")
	require.NoError(t, err)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "key-old", queue.tasks[0].FileKey)

	// Перепривязка всё же произошла: судьба старого блоба решена очередью.
	key, err := links.GetFileKey(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "key-new", key)
}

func TestSetBookmarkLink_DeletionErrorGoesToQueue(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{err: errors.New("blob store unreachable")}
	queue := &fakeCleanupQueue{}
	uc := NewSetBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-old"

	_, err := uc.Execute(context.Background(), userID, "key-new")
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "key-old", queue.tasks[0].FileKey)
}

func TestSetBookmarkLink_AbortsWhenDisposalImpossible(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{confirm: false}
	queue := &fakeCleanupQueue{err: errors.New("broker down")}
	uc := NewSetBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-old"

	_, err := uc.Execute(context.Background(), userID, "key-new")
	require.Error(t, err)

	// Указатель не тронут: ни удалить, ни поставить в очередь не получилось.
	key, getErr := links.GetFileKey(context.Background(), userID)
	require.NoError(t, getErr)
	assert.Equal(t, "key-old", key)
}

func TestSetBookmarkLink_RequiresFileKey(t *testing.T) {
	uc := NewSetBookmarkLinkUseCase(newFakeLinkRepo(), &fakeBlobStore{}, &fakeCleanupQueue{})

	_, err := uc.Execute(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteBookmarkLink_ClearsPointer(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{confirm: true}
	queue := &fakeCleanupQueue{}
	uc := NewDeleteBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-1"

	err := uc.Execute(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "key-1", blobs.deletedKey)

	_, err = links.GetFileKey(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestDeleteBookmarkLink_EmptyStateFailsNotFound(t *testing.T) {
	uc := NewDeleteBookmarkLinkUseCase(newFakeLinkRepo(), &fakeBlobStore{}, &fakeCleanupQueue{})

	err := uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestDeleteBookmarkLink_UnconfirmedDeletionStillClears(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{confirm: false}
	queue := &fakeCleanupQueue{}
	uc := NewDeleteBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-1"

	err := uc.Execute(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "key-1", queue.tasks[0].FileKey)

	_, err = links.GetFileKey(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestDeleteBookmarkLink_AbortsWhenDisposalImpossible(t *testing.T) {
	links := newFakeLinkRepo()
	blobs := &fakeBlobStore{err: errors.New("blob store unreachable")}
	queue := &fakeCleanupQueue{err: errors.New("broker down")}
	uc := NewDeleteBookmarkLinkUseCase(links, blobs, queue)
	userID := uuid.New()
	links.keys[userID] = "key-1"

	err := uc.Execute(context.Background(), userID)
	require.Error(t, err)

	// Указатель остался: блоб нельзя осиротить молча.
	key, getErr := links.GetFileKey(context.Background(), userID)
	require.NoError(t, getErr)
	assert.Equal(t, "key-1", key)
}

func TestProcessBlobCleanup_RetriesDeletion(t *testing.T) {
	blobs := &fakeBlobStore{confirm: true}
	uc := NewProcessBlobCleanupUseCase(blobs)

	task := domain.BlobCleanupTask{TaskID: uuid.New(), FileKey: "key-1"}
	err := uc.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "key-1", blobs.deletedKey)
}

func TestProcessBlobCleanup_UnconfirmedDeletionIsAnError(t *testing.T) {
	blobs := &fakeBlobStore{confirm: false}
	uc := NewProcessBlobCleanupUseCase(blobs)

	task := domain.BlobCleanupTask{TaskID: uuid.New(), FileKey: "key-1"}
	err := uc.Execute(context.Background(), task)
	assert.Error(t, err, "unconfirmed retry must requeue the task")
}
