package syncclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a scriptable in-memory server double.
type fakeAPI struct {
	entries      []Entry
	listErr      error
	addErr       error
	updateErr    error
	deleteErr    error
	reorderErr   error
	reorderCalls int
	listCalls    int

	// beforeList runs ahead of every List call, to simulate a mutation
	// racing with an in-flight fetch.
	beforeList func()
}

func (f *fakeAPI) List(context.Context) ([]Entry, error) {
	f.listCalls++
	if f.beforeList != nil {
		f.beforeList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeAPI) Add(_ context.Context, title, rawURL string) (Entry, error) {
	if f.addErr != nil {
		return Entry{}, f.addErr
	}
	return Entry{Title: title, URL: rawURL}, nil
}

func (f *fakeAPI) Update(_ context.Context, title, newURL, oldURL string) (Entry, error) {
	if f.updateErr != nil {
		return Entry{}, f.updateErr
	}
	out := Entry{Title: title, URL: newURL}
	if newURL == "" {
		out.URL = oldURL
	}
	return out, nil
}

func (f *fakeAPI) Delete(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeAPI) Reorder(context.Context, []ReorderPair) error {
	f.reorderCalls++
	return f.reorderErr
}

func seedMirror(t *testing.T, m *Mirror, api *fakeAPI, n int) {
	t.Helper()
	api.entries = nil
	for i := 0; i < n; i++ {
		api.entries = append(api.entries, Entry{
			Title: fmt.Sprintf("Site %d", i),
			URL:   fmt.Sprintf("https://site-%d.com/", i),
			Order: i,
		})
	}
	require.NoError(t, m.Refresh(context.Background()))
	require.Equal(t, n, m.Count())
}

func TestItemsPerPageBands(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1920, 10},
		{1024, 10},
		{1023, 8},
		{640, 8},
		{639, 9},
		{320, 9},
	}
	for _, tt := range tests {
		m := NewMirror(&fakeAPI{}, tt.width)
		assert.Equal(t, tt.want, m.ItemsPerPage(), "width %d", tt.width)
	}
}

func TestBandChangeResetsPage(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 15)

	m.NextPage()
	require.Equal(t, 1, m.PageIndex())

	// Та же полоса: страница сохраняется.
	m.SetViewportWidth(1100)
	assert.Equal(t, 1, m.PageIndex())

	// Смена полосы: сброс на первую страницу.
	m.SetViewportWidth(800)
	assert.Equal(t, 0, m.PageIndex())
	assert.Equal(t, 8, m.ItemsPerPage())
}

func TestTotalPagesReservesAddSlot(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280) // 10 на страницу

	// Пустое зеркало: одна страница под плитку добавления.
	assert.Equal(t, 1, m.TotalPages())

	// 10 записей + слот добавления = 11 позиций = 2 страницы.
	seedMirror(t, m, api, 10)
	assert.Equal(t, 2, m.TotalPages())

	// На лимите слот добавления не резервируется: ровно 2 страницы.
	seedMirror(t, m, api, 20)
	assert.Equal(t, 2, m.TotalPages())
}

func TestDisplaySliceAndAddAffordance(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 12)

	first := m.DisplaySlice()
	require.Len(t, first, 10)
	assert.Equal(t, "https://site-0.com/", first[0].URL)
	assert.False(t, m.ShowAddAffordance(), "full page leaves no slot for the add tile")

	m.NextPage()
	second := m.DisplaySlice()
	require.Len(t, second, 2)
	assert.Equal(t, "https://site-10.com/", second[0].URL)
	assert.True(t, m.ShowAddAffordance())
}

func TestAddAffordanceHiddenAtCap(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 20)

	m.NextPage()
	require.Len(t, m.DisplaySlice(), 10)
	assert.False(t, m.ShowAddAffordance(), "cap reached, no add tile anywhere")
}

func TestAddEntry_LocalDuplicateCheckUsesNormalizedURL(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	api.entries = []Entry{{Title: "Ex", URL: "https://example.com/", Order: 0}}
	require.NoError(t, m.Refresh(context.Background()))

	// Другое написание того же адреса ловится до похода на сервер.
	_, err := m.AddEntry(context.Background(), "Ex2", "EXAMPLE.com")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, m.Count())
}

func TestAddEntry_FailureLeavesMirrorUntouched(t *testing.T) {
	api := &fakeAPI{addErr: ErrLimitReached}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 3)

	_, err := m.AddEntry(context.Background(), "New", "new.com")
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, 3, m.Count())
}

func TestAddEntry_SuccessAppends(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 3)

	entry, err := m.AddEntry(context.Background(), "New", "new.com")
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Order, "appended entry takes the next position")
	assert.Equal(t, 4, m.Count())
}

func TestUpdateEntry_PatchesInPlace(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 3)

	_, err := m.UpdateEntry(context.Background(), "Renamed", "", "https://site-1.com/")
	require.NoError(t, err)

	entries := m.Entries()
	assert.Equal(t, "Renamed", entries[1].Title)
	assert.Equal(t, 1, entries[1].Order, "position is untouched by update")
}

func TestDeleteEntry_FailureLeavesMirrorUntouched(t *testing.T) {
	api := &fakeAPI{deleteErr: ErrNotFound}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 3)

	err := m.DeleteEntry(context.Background(), "https://site-1.com/")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, m.Count())
}

func TestMoveEntry_OptimisticWithDenseRenumber(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 4)

	require.NoError(t, m.MoveEntry(context.Background(), 3, 0))

	entries := m.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "https://site-3.com/", entries[0].URL)
	for i, e := range entries {
		assert.Equal(t, i, e.Order, "orders must stay dense 0..N-1")
	}
	assert.Equal(t, 1, api.reorderCalls)
}

func TestMoveEntry_RollsBackOnServerFailure(t *testing.T) {
	api := &fakeAPI{reorderErr: errors.New("server exploded")}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 4)
	before := m.Entries()

	err := m.MoveEntry(context.Background(), 3, 0)
	require.Error(t, err)
	assert.Equal(t, before, m.Entries(), "failed reorder must restore the snapshot")
}

func TestMoveEntry_BadIndexes(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 2)

	assert.ErrorIs(t, m.MoveEntry(context.Background(), -1, 0), ErrBadIndex)
	assert.ErrorIs(t, m.MoveEntry(context.Background(), 0, 2), ErrBadIndex)
	assert.Zero(t, api.reorderCalls)
}

func TestRefresh_DiscardsStaleResponse(t *testing.T) {
	api := &fakeAPI{}
	m := NewMirror(api, 1280)
	seedMirror(t, m, api, 2)

	// Пока List в полёте, успевает пройти мутация: её результат новее.
	api.entries = []Entry{{Title: "Stale", URL: "https://stale.com/", Order: 0}}
	api.beforeList = func() {
		api.beforeList = nil
		_, err := m.AddEntry(context.Background(), "Fresh", "fresh.com")
		require.NoError(t, err)
	}

	require.NoError(t, m.Refresh(context.Background()))

	urls := make([]string, 0, m.Count())
	for _, e := range m.Entries() {
		urls = append(urls, e.URL)
	}
	assert.Contains(t, urls, "fresh.com", "mutation applied during fetch must survive")
	assert.NotContains(t, urls, "https://stale.com/", "stale list response must be discarded")
}

func TestMemoryPreferenceStore(t *testing.T) {
	prefs := NewMemoryPreferenceStore()

	format, err := prefs.ClockFormat()
	require.NoError(t, err)
	assert.Equal(t, Clock24h, format)

	require.NoError(t, prefs.SetClockFormat(Clock12h))
	format, err = prefs.ClockFormat()
	require.NoError(t, err)
	assert.Equal(t, Clock12h, format)

	open, err := prefs.SidebarOpen()
	require.NoError(t, err)
	assert.False(t, open)

	require.NoError(t, prefs.SetSidebarOpen(true))
	open, err = prefs.SidebarOpen()
	require.NoError(t, err)
	assert.True(t, open)
}
