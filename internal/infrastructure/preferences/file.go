package preferences

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/skinfridge/fridge/internal/domain"
)

const fileMode = 0o600

// FileStore persists preferences to a YAML file so they survive restarts
type FileStore struct {
	path   string
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first save.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   path,
		logger: logger.Named("preferences"),
	}
}

// Load reads the preferences file. A missing file yields defaults.
func (s *FileStore) Load(ctx context.Context) (domain.Preferences, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.DefaultPreferences(), fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}

	var prefs domain.Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		s.logger.Warn("ignoring unreadable preferences file", zap.String("path", s.path), zap.Error(err))
		return domain.DefaultPreferences(), nil
	}
	return prefs.Normalize(), nil
}

// Save writes the preferences atomically through a temporary file
func (s *FileStore) Save(ctx context.Context, prefs domain.Preferences) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := yaml.Marshal(prefs.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}

	s.logger.Debug("preferences saved",
		zap.String("path", s.path),
		zap.String("theme", string(prefs.Theme)),
		zap.String("day", string(prefs.Day)))
	return nil
}
