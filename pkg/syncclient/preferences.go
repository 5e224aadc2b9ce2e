package syncclient

// ClockFormat - формат часов на стартовой странице.
type ClockFormat string

const (
	Clock12h ClockFormat = "12h"
	Clock24h ClockFormat = "24h"
)

// PreferenceStore - контракт для хранения клиентских настроек отображения.
// Настройки живут вне ядра синхронизации: зеркало их не трогает,
// они загружаются при старте и меняются по действию пользователя.
type PreferenceStore interface {
	ClockFormat() (ClockFormat, error)
	SetClockFormat(format ClockFormat) error

	SidebarOpen() (bool, error)
	SetSidebarOpen(open bool) error
}

// MemoryPreferenceStore - простое хранилище настроек в памяти процесса.
// Подходит для тестов и как значение по умолчанию, пока не подключено
// постоянное хранилище.
type MemoryPreferenceStore struct {
	clockFormat ClockFormat
	sidebarOpen bool
}

// NewMemoryPreferenceStore создает хранилище с настройками по умолчанию.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{
		clockFormat: Clock24h,
		sidebarOpen: false,
	}
}

func (s *MemoryPreferenceStore) ClockFormat() (ClockFormat, error) {
	return s.clockFormat, nil
}

func (s *MemoryPreferenceStore) SetClockFormat(format ClockFormat) error {
	s.clockFormat = format
	return nil
}

func (s *MemoryPreferenceStore) SidebarOpen() (bool, error) {
	return s.sidebarOpen, nil
}

func (s *MemoryPreferenceStore) SetSidebarOpen(open bool) error {
	s.sidebarOpen = open
	return nil
}
