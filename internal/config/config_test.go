package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := newAt(filepath.Join(t.TempDir(), "config.json"))

	assert.Equal(t, ModeTap, c.ActivationMode())
	assert.Equal(t, DefaultHoldThreshold, c.HoldThreshold())
	assert.Equal(t, KeySpace, c.Hotkey().Key)
	assert.True(t, c.Ducking().Enabled)
	assert.Equal(t, DuckDefault, c.Ducking().Level)
	assert.True(t, c.NotificationsEnabled())
	assert.False(t, c.Cleanup().Enabled)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	c := newAt(path)
	c.SetActivationMode(ModePush)
	c.SetHotkey(HotkeyConfig{Modifiers: []Modifier{ModAlt}, Key: KeyD})
	c.SetDucking(DuckingConfig{Enabled: false, Level: DuckMax, Advanced: true})
	c.SetCleanupEnabled(true)

	loaded := newAt(path)
	assert.Equal(t, ModePush, loaded.ActivationMode())
	assert.True(t, loaded.Hotkey().Equal(HotkeyConfig{Modifiers: []Modifier{ModAlt}, Key: KeyD}))
	assert.Equal(t, DuckMax, loaded.Ducking().Level)
	assert.True(t, loaded.Ducking().Advanced)
	assert.False(t, loaded.Ducking().Enabled)
	assert.True(t, loaded.Cleanup().Enabled)
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c := newAt(path)
	assert.Equal(t, ModeTap, c.ActivationMode())
	assert.Equal(t, KeySpace, c.Hotkey().Key)
}

func TestUnknownModeIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activation_mode":"banana","hotkey":{"key":"space"}}`), 0644))

	c := newAt(path)
	assert.Equal(t, ModeTap, c.ActivationMode())
}

func TestHoldThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hold_threshold_ms":300,"hotkey":{"key":"space"}}`), 0644))

	c := newAt(path)
	assert.Equal(t, 300*time.Millisecond, c.HoldThreshold())
}

func TestHotkeyString(t *testing.T) {
	hk := HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModShift}, Key: KeySpace}
	assert.Equal(t, "ctrl+shift+space", hk.String())

	special := HotkeyConfig{Key: KeyDictate}
	assert.Equal(t, "dictate", special.String())
	assert.True(t, special.IsSpecial())
	assert.False(t, hk.IsSpecial())
}
