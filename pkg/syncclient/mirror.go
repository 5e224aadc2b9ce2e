package syncclient

import (
	"context"
	"errors"
	"sync"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
)

// Ошибки локального зеркала.
var (
	// ErrEntryBusy - по этой записи уже идёт незавершённая мутация.
	ErrEntryBusy = errors.New("syncclient: mutation for this entry is already in flight")
	// ErrBadIndex - индекс перетаскивания вне границ списка.
	ErrBadIndex = errors.New("syncclient: drag index out of range")
)

// FavouritesAPI - часть APIClient, нужная зеркалу.
type FavouritesAPI interface {
	List(ctx context.Context) ([]Entry, error)
	Add(ctx context.Context, title, rawURL string) (Entry, error)
	Update(ctx context.Context, title, newURL, oldURL string) (Entry, error)
	Delete(ctx context.Context, entryURL string) error
	Reorder(ctx context.Context, pairs []ReorderPair) error
}

// Mirror - локальное зеркало списка избранного с постраничным отображением.
//
// Мутации применяются к зеркалу только после подтверждения сервером,
// кроме перетаскивания: оно применяется оптимистично и откатывается
// по снимку при ошибке. Пока мутация записи в полёте, повторные мутации
// той же записи отклоняются с ErrEntryBusy.
type Mirror struct {
	api FavouritesAPI

	mu           sync.Mutex
	entries      []Entry
	pageIndex    int
	itemsPerPage int

	// Монотонный токен запросов List: ответ с устаревшим токеном
	// отбрасывается, чтобы не затереть более новое состояние зеркала.
	listToken    uint64
	lastApplied  uint64
	inFlight     map[string]struct{}
	moveInFlight bool
}

// NewMirror создает зеркало для заданной ширины окна.
func NewMirror(api FavouritesAPI, viewportWidth int) *Mirror {
	return &Mirror{
		api:          api,
		itemsPerPage: itemsPerPageForWidth(viewportWidth),
		inFlight:     make(map[string]struct{}),
	}
}

// itemsPerPageForWidth возвращает размер страницы для полосы ширины окна.
func itemsPerPageForWidth(width int) int {
	switch {
	case width >= 1024:
		return 10
	case width >= 640:
		return 8
	default:
		return 9
	}
}

// Refresh перечитывает список с сервера. Если за время запроса зеркало
// успело измениться (мутация или более новый Refresh), ответ отбрасывается.
func (m *Mirror) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.listToken++
	token := m.listToken
	m.mu.Unlock()

	entries, err := m.api.List(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if token <= m.lastApplied {
		// Пришёл устаревший ответ
		return nil
	}
	m.entries = entries
	m.lastApplied = token
	return nil
}

// markApplied фиксирует локальную мутацию: все запросы List, выпущенные
// до этого момента, считаются устаревшими.
func (m *Mirror) markApplied() {
	m.listToken++
	m.lastApplied = m.listToken
}

func (m *Mirror) acquireEntry(key string) error {
	if m.moveInFlight {
		return ErrEntryBusy
	}
	if _, busy := m.inFlight[key]; busy {
		return ErrEntryBusy
	}
	m.inFlight[key] = struct{}{}
	return nil
}

func (m *Mirror) releaseEntry(key string) {
	m.mu.Lock()
	delete(m.inFlight, key)
	m.mu.Unlock()
}

// AddEntry добавляет запись. Дубликат по нормализованному URL отклоняется
// локально, без похода на сервер. Зеркало меняется только при успехе.
func (m *Mirror) AddEntry(ctx context.Context, title, rawURL string) (Entry, error) {
	_, cleanURL := domain.CleanFavourite(title, rawURL)

	m.mu.Lock()
	for _, e := range m.entries {
		if e.URL == cleanURL {
			m.mu.Unlock()
			return Entry{}, ErrDuplicate
		}
	}
	if err := m.acquireEntry(cleanURL); err != nil {
		m.mu.Unlock()
		return Entry{}, err
	}
	m.mu.Unlock()
	defer m.releaseEntry(cleanURL)

	created, err := m.api.Add(ctx, title, rawURL)
	if err != nil {
		return Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	created.Order = len(m.entries)
	m.entries = append(m.entries, created)
	m.markApplied()
	return created, nil
}

// UpdateEntry меняет title и/или url записи с oldURL. Зеркало правится
// на месте только после подтверждения сервером.
func (m *Mirror) UpdateEntry(ctx context.Context, title, newURL, oldURL string) (Entry, error) {
	m.mu.Lock()
	if err := m.acquireEntry(oldURL); err != nil {
		m.mu.Unlock()
		return Entry{}, err
	}
	m.mu.Unlock()
	defer m.releaseEntry(oldURL)

	updated, err := m.api.Update(ctx, title, newURL, oldURL)
	if err != nil {
		return Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].URL == oldURL {
			m.entries[i].Title = updated.Title
			m.entries[i].URL = updated.URL
			updated.Order = m.entries[i].Order
			break
		}
	}
	m.markApplied()
	return updated, nil
}

// DeleteEntry удаляет запись по URL. Зеркало меняется только при успехе.
func (m *Mirror) DeleteEntry(ctx context.Context, entryURL string) error {
	m.mu.Lock()
	if err := m.acquireEntry(entryURL); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()
	defer m.releaseEntry(entryURL)

	if err := m.api.Delete(ctx, entryURL); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].URL == entryURL {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	m.markApplied()
	return nil
}

// MoveEntry переносит запись с позиции from на позицию to (индексы по всему
// списку, не по странице), переназначает плотный порядок 0..N-1 и применяет
// его оптимистично. При ошибке сервера зеркало откатывается по снимку.
func (m *Mirror) MoveEntry(ctx context.Context, from, to int) error {
	m.mu.Lock()
	if m.moveInFlight || len(m.inFlight) > 0 {
		m.mu.Unlock()
		return ErrEntryBusy
	}
	if from < 0 || from >= len(m.entries) || to < 0 || to >= len(m.entries) {
		m.mu.Unlock()
		return ErrBadIndex
	}

	snapshot := make([]Entry, len(m.entries))
	copy(snapshot, m.entries)

	moved := m.entries[from]
	m.entries = append(m.entries[:from], m.entries[from+1:]...)
	m.entries = append(m.entries[:to], append([]Entry{moved}, m.entries[to:]...)...)

	pairs := make([]ReorderPair, len(m.entries))
	for i := range m.entries {
		m.entries[i].Order = i
		pairs[i] = ReorderPair{URL: m.entries[i].URL, Order: i}
	}

	m.moveInFlight = true
	m.markApplied()
	m.mu.Unlock()

	err := m.api.Reorder(ctx, pairs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.moveInFlight = false
	if err != nil {
		// Сервер не принял порядок: восстанавливаем снимок
		m.entries = snapshot
		m.markApplied()
		return err
	}
	return nil
}

// SetViewportWidth переводит зеркало в полосу ширины окна.
// Смена полосы сбрасывает страницу на первую.
func (m *Mirror) SetViewportWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	perPage := itemsPerPageForWidth(width)
	if perPage != m.itemsPerPage {
		m.itemsPerPage = perPage
		m.pageIndex = 0
	}
}

// ItemsPerPage возвращает текущий размер страницы.
func (m *Mirror) ItemsPerPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsPerPage
}

// PageIndex возвращает номер текущей страницы (с нуля).
func (m *Mirror) PageIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageIndex
}

// Count возвращает число записей в зеркале.
func (m *Mirror) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries возвращает копию всего зеркала.
func (m *Mirror) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// TotalPages возвращает число страниц. Пока лимит не достигнут, одна
// позиция резервируется под плитку добавления.
func (m *Mirror) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPagesLocked()
}

func (m *Mirror) totalPagesLocked() int {
	effective := len(m.entries)
	if effective < domain.MaxFavourites {
		effective++
	}
	pages := (effective + m.itemsPerPage - 1) / m.itemsPerPage
	if pages == 0 {
		pages = 1
	}
	return pages
}

// DisplaySlice возвращает записи текущей страницы.
func (m *Mirror) DisplaySlice() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displaySliceLocked()
}

func (m *Mirror) displaySliceLocked() []Entry {
	start := m.pageIndex * m.itemsPerPage
	if start >= len(m.entries) {
		return nil
	}
	end := start + m.itemsPerPage
	if end > len(m.entries) {
		end = len(m.entries)
	}
	out := make([]Entry, end-start)
	copy(out, m.entries[start:end])
	return out
}

// ShowAddAffordance сообщает, показывать ли на текущей странице плитку
// добавления: лимит не достигнут и на странице есть свободная позиция.
func (m *Mirror) ShowAddAffordance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries) < domain.MaxFavourites && len(m.displaySliceLocked()) < m.itemsPerPage
}

// NextPage листает вперёд, если есть куда.
func (m *Mirror) NextPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pageIndex+1 < m.totalPagesLocked() {
		m.pageIndex++
	}
}

// PrevPage листает назад, если есть куда.
func (m *Mirror) PrevPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pageIndex > 0 {
		m.pageIndex--
	}
}
