package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightenDarken(t *testing.T) {
	assert.Equal(t, "#9699FF", Lighten("#6366F1", 20))
	assert.Equal(t, "#303300", Darken("#636633", 20))
	assert.Equal(t, "#FFFFFF", Lighten("#F0F0F0", 50))
	assert.Equal(t, "#000000", Darken("#101010", 50))
	assert.Equal(t, "oops", Lighten("oops", 20))
}

func TestThemeStore_DefaultsAndPersistence(t *testing.T) {
	storage := NewMemoryStorage()

	ts := NewThemeStore(storage, true)
	assert.Equal(t, "Dark", ts.Theme().Name)

	require.NoError(t, ts.SetTheme("lightGreen"))
	assert.Equal(t, Themes["lightGreen"], ts.Theme())

	reloaded := NewThemeStore(storage, true)
	assert.Equal(t, Themes["lightGreen"], reloaded.Theme())
}

func TestThemeStore_ToggleKeepsPrimary(t *testing.T) {
	ts := NewThemeStore(NewMemoryStorage(), false)
	require.NoError(t, ts.SetTheme("lightBlue"))

	require.NoError(t, ts.ToggleDarkMode())
	th := ts.Theme()
	assert.True(t, th.Dark)
	assert.Equal(t, "Dark Custom", th.Name)
	assert.Equal(t, "#3B82F6", th.Colors.Primary)
	assert.Equal(t, "#60A5FA", th.Colors.PrimaryLight)
	assert.Equal(t, darkSurface.Surface, th.Colors.Surface)

	require.NoError(t, ts.SetDarkMode(true))
	assert.True(t, ts.Theme().Dark)
	require.NoError(t, ts.SetDarkMode(false))
	assert.False(t, ts.Theme().Dark)
}

func TestThemeStore_CustomColor(t *testing.T) {
	ts := NewThemeStore(NewMemoryStorage(), false)

	require.NoError(t, ts.SetPrimaryColor("#123456"))
	c := ts.Theme().Colors
	assert.Equal(t, "#123456", c.Primary)
	assert.Equal(t, Lighten("#123456", 20), c.PrimaryLight)
	assert.Equal(t, Darken("#123456", 20), c.PrimaryDark)

	assert.Error(t, ts.SetPrimaryColor("blue"))
	assert.Error(t, ts.SetTheme("neon"))
}

func TestThemeStore_CorruptSaveFallsBackToLight(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ThemeKey, "{"))

	assert.Equal(t, "Light", NewThemeStore(storage, true).Theme().Name)
}
