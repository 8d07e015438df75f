package preferences

import (
	"context"
	"sync"

	"github.com/skinfridge/fridge/internal/domain"
)

// Keys under which preferences are stored
const (
	KeyTheme = "theme"
	KeyDay   = "day"
)

// MemoryStore is a thread-safe in-memory preferences store. It keeps the
// values as strings under the same keys browser local storage would use.
type MemoryStore struct {
	data  map[string]string
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Load returns the stored preferences, falling back to defaults for missing
// or unknown values
func (s *MemoryStore) Load(ctx context.Context) (domain.Preferences, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefs := domain.DefaultPreferences()
	if theme, ok := s.data[KeyTheme]; ok {
		prefs.Theme = domain.Theme(theme)
	}
	if day, ok := s.data[KeyDay]; ok {
		prefs.Day = domain.Day(day)
	}
	return prefs.Normalize(), nil
}

// Save stores both preferences
func (s *MemoryStore) Save(ctx context.Context, prefs domain.Preferences) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[KeyTheme] = string(prefs.Theme)
	s.data[KeyDay] = string(prefs.Day)
	return nil
}
