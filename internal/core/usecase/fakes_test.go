package usecase

import (
	"context"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

// fakeFavouritesRepo enforces the same invariants a real adapter would:
// the per-user cap and URL uniqueness.
type fakeFavouritesRepo struct {
	entries     map[uuid.UUID][]domain.FavouriteEntry
	insertErr   error
	updateErr   error
	deleteErr   error
	reorderErr  error
	reorderGot  []domain.ReorderPair
	insertCalls int
}

func newFakeFavouritesRepo() *fakeFavouritesRepo {
	return &fakeFavouritesRepo{entries: make(map[uuid.UUID][]domain.FavouriteEntry)}
}

func (f *fakeFavouritesRepo) Insert(_ context.Context, userID uuid.UUID, title, url string) (*domain.FavouriteEntry, error) {
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	list := f.entries[userID]
	if len(list) >= domain.MaxFavourites {
		return nil, domain.ErrLimitExceeded
	}
	for _, e := range list {
		if e.URL == url {
			return nil, domain.ErrDuplicate
		}
	}
	entry := domain.FavouriteEntry{UserID: userID, Title: title, URL: url, Order: 0}
	f.entries[userID] = append(list, entry)
	return &entry, nil
}

func (f *fakeFavouritesRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.FavouriteEntry, error) {
	return f.entries[userID], nil
}

func (f *fakeFavouritesRepo) Update(_ context.Context, userID uuid.UUID, oldURL string, upd port.FavouriteUpdate) (*domain.FavouriteEntry, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	list := f.entries[userID]
	for i := range list {
		if list[i].URL != oldURL {
			continue
		}
		if upd.URL != nil {
			for j := range list {
				if j != i && list[j].URL == *upd.URL {
					return nil, domain.ErrDuplicate
				}
			}
			list[i].URL = *upd.URL
		}
		if upd.Title != nil {
			list[i].Title = *upd.Title
		}
		return &list[i], nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeFavouritesRepo) Delete(_ context.Context, userID uuid.UUID, url string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	list := f.entries[userID]
	for i := range list {
		if list[i].URL == url {
			f.entries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeFavouritesRepo) Reorder(_ context.Context, userID uuid.UUID, pairs []domain.ReorderPair) error {
	f.reorderGot = pairs
	if f.reorderErr != nil {
		return f.reorderErr
	}
	list := f.entries[userID]
	for _, p := range pairs {
		found := false
		for i := range list {
			if list[i].URL == p.URL {
				list[i].Order = p.Order
				found = true
				break
			}
		}
		if !found {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (f *fakeFavouritesRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return len(f.entries[userID]), nil
}

// fakeLinkRepo keeps the per-user file key pointer in memory.
type fakeLinkRepo struct {
	keys     map[uuid.UUID]string
	setErr   error
	clearErr error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{keys: make(map[uuid.UUID]string)}
}

func (f *fakeLinkRepo) GetFileKey(_ context.Context, userID uuid.UUID) (string, error) {
	key, ok := f.keys[userID]
	if !ok {
		return "", domain.ErrLinkNotFound
	}
	return key, nil
}

func (f *fakeLinkRepo) SetFileKey(_ context.Context, userID uuid.UUID, fileKey string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.keys[userID] = fileKey
	return nil
}

func (f *fakeLinkRepo) ClearFileKey(_ context.Context, userID uuid.UUID) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	if _, ok := f.keys[userID]; !ok {
		return domain.ErrLinkNotFound
	}
	delete(f.keys, userID)
	return nil
}

// fakeBlobStore records deletion attempts and answers with a scripted result.
type fakeBlobStore struct {
	confirm    bool
	err        error
	deletedKey string
	calls      int
}

func (f *fakeBlobStore) DeleteFile(_ context.Context, fileKey string) (bool, error) {
	f.calls++
	f.deletedKey = fileKey
	if f.err != nil {
		return false, f.err
	}
	return f.confirm, nil
}

func (f *fakeBlobStore) FileURL(fileKey string) string {
	return fmt.Sprintf("https://blobs.test/f/%s", fileKey)
}

// fakeCleanupQueue records enqueued tasks.
type fakeCleanupQueue struct {
	err   error
	tasks []domain.BlobCleanupTask
}

func (f *fakeCleanupQueue) EnqueueCleanup(_ context.Context, task domain.BlobCleanupTask) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}
