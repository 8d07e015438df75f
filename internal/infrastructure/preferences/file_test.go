package preferences

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/skinfridge/fridge/internal/domain"
)

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"), zaptest.NewLogger(t))

	prefs, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	ctx := context.Background()

	first := NewFileStore(path, zaptest.NewLogger(t))
	require.NoError(t, first.Save(ctx, domain.Preferences{Theme: domain.ThemeDark, Day: domain.DayPM}))

	second := NewFileStore(path, zaptest.NewLogger(t))
	prefs, err := second.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Theme: domain.ThemeDark, Day: domain.DayPM}, prefs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: dark")
	assert.Contains(t, string(data), "day: PM")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o600))

	store := NewFileStore(path, zaptest.NewLogger(t))
	prefs, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)
}

func TestFileStore_UnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: sepia\nday: PM\n"), 0o600))

	store := NewFileStore(path, nil)
	prefs, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Theme: domain.ThemeLight, Day: domain.DayPM}, prefs)
}
