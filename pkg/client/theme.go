package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type ThemeColors struct {
	Primary      string `json:"primary"`
	PrimaryLight string `json:"primaryLight"`
	PrimaryDark  string `json:"primaryDark"`
	Surface      string `json:"surface"`
	SurfaceLight string `json:"surfaceLight"`
	SurfaceDark  string `json:"surfaceDark"`
}

type Theme struct {
	Name   string      `json:"name"`
	Dark   bool        `json:"dark"`
	Colors ThemeColors `json:"colors"`
}

// PrimaryColor is a palette entry with hand-picked light and dark shades.
type PrimaryColor struct {
	Name, Value, Light, Dark string
}

var (
	lightSurface = ThemeColors{Surface: "#FFFFFF", SurfaceLight: "#F9FAFB", SurfaceDark: "#F3F4F6"}
	darkSurface  = ThemeColors{Surface: "#1E293B", SurfaceLight: "#334155", SurfaceDark: "#0F172A"}
)

// PrimaryColors is the selectable palette.
var PrimaryColors = []PrimaryColor{
	{"Indigo", "#6366F1", "#818CF8", "#4F46E5"},
	{"Purple", "#9333EA", "#A855F7", "#7E22CE"},
	{"Blue", "#3B82F6", "#60A5FA", "#2563EB"},
	{"Cyan", "#06B6D4", "#22D3EE", "#0891B2"},
	{"Teal", "#14B8A6", "#2DD4BF", "#0D9488"},
	{"Green", "#10B981", "#34D399", "#059669"},
	{"Lime", "#84CC16", "#A3E635", "#65A30D"},
	{"Yellow", "#EAB308", "#FACC15", "#CA8A04"},
	{"Orange", "#F97316", "#FB923C", "#EA580C"},
	{"Red", "#EF4444", "#F87171", "#DC2626"},
	{"Pink", "#EC4899", "#F472B6", "#DB2777"},
	{"Rose", "#F43F5E", "#FB7185", "#E11D48"},
}

// Themes are the named presets accepted by SetTheme.
var Themes = map[string]Theme{
	"light":       preset("Light", false, "#6366F1"),
	"dark":        preset("Dark", true, "#6366F1"),
	"lightPurple": preset("Light Purple", false, "#9333EA"),
	"darkPurple":  preset("Dark Purple", true, "#9333EA"),
	"lightBlue":   preset("Light Blue", false, "#3B82F6"),
	"darkBlue":    preset("Dark Blue", true, "#3B82F6"),
	"lightGreen":  preset("Light Green", false, "#10B981"),
	"darkGreen":   preset("Dark Green", true, "#10B981"),
	"lightOrange": preset("Light Orange", false, "#F97316"),
	"darkOrange":  preset("Dark Orange", true, "#F97316"),
}

func preset(name string, dark bool, primary string) Theme {
	t := themeFromColor(primary, dark)
	t.Name = name
	return t
}

// ThemeStore keeps the display preference, persisted under ThemeKey.
type ThemeStore struct {
	mu      sync.Mutex
	storage Storage
	theme   Theme
}

type savedTheme struct {
	Theme    Theme `json:"theme"`
	DarkMode bool  `json:"darkMode"`
}

// NewThemeStore loads the saved theme, falling back to the light or dark
// preset according to preferDark.
func NewThemeStore(storage Storage, preferDark bool) *ThemeStore {
	ts := &ThemeStore{storage: storage, theme: Themes["light"]}
	if preferDark {
		ts.theme = Themes["dark"]
	}

	raw, ok := storage.Get(ThemeKey)
	if !ok {
		return ts
	}
	var saved savedTheme
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		ts.theme = Themes["light"]
		return ts
	}
	saved.Theme.Dark = saved.DarkMode
	ts.theme = saved.Theme
	return ts
}

func (ts *ThemeStore) Theme() Theme {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.theme
}

// ToggleDarkMode flips dark mode keeping the primary color.
func (ts *ThemeStore) ToggleDarkMode() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.theme = themeFromColor(ts.theme.Colors.Primary, !ts.theme.Dark)
	return ts.save()
}

func (ts *ThemeStore) SetDarkMode(dark bool) error {
	if ts.Theme().Dark == dark {
		return nil
	}
	return ts.ToggleDarkMode()
}

// SetPrimaryColor builds a custom theme around hex, e.g. "#3B82F6".
func (ts *ThemeStore) SetPrimaryColor(hex string) error {
	if _, err := parseHex(hex); err != nil {
		return err
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.theme = themeFromColor(strings.ToUpper(hex), ts.theme.Dark)
	return ts.save()
}

// SetTheme switches to a preset from Themes.
func (ts *ThemeStore) SetTheme(key string) error {
	t, ok := Themes[key]
	if !ok {
		return fmt.Errorf("unknown theme %q", key)
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.theme = t
	return ts.save()
}

func (ts *ThemeStore) save() error {
	data, err := json.Marshal(savedTheme{Theme: ts.theme, DarkMode: ts.theme.Dark})
	if err != nil {
		return err
	}
	return ts.storage.Set(ThemeKey, string(data))
}

func themeFromColor(primary string, dark bool) Theme {
	t := Theme{Name: "Light Custom", Dark: dark, Colors: lightSurface}
	if dark {
		t.Name = "Dark Custom"
		t.Colors = darkSurface
	}
	t.Colors.Primary = primary
	t.Colors.PrimaryLight = Lighten(primary, 20)
	t.Colors.PrimaryDark = Darken(primary, 20)
	for _, c := range PrimaryColors {
		if c.Value == primary {
			t.Colors.PrimaryLight, t.Colors.PrimaryDark = c.Light, c.Dark
			break
		}
	}
	return t
}

// Lighten raises each channel by percent of 255, clamped.
func Lighten(hex string, percent int) string {
	return shift(hex, roundPercent(percent))
}

// Darken lowers each channel by percent of 255, clamped.
func Darken(hex string, percent int) string {
	return shift(hex, -roundPercent(percent))
}

func roundPercent(percent int) int {
	return (percent*255 + 50) / 100
}

func shift(hex string, amt int) string {
	n, err := parseHex(hex)
	if err != nil {
		return hex
	}
	r := clamp(int(n>>16) + amt)
	g := clamp(int(n>>8&0xFF) + amt)
	b := clamp(int(n&0xFF) + amt)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func parseHex(hex string) (uint32, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", hex)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", hex)
	}
	return uint32(n), nil
}

func clamp(v int) int {
	return max(0, min(255, v))
}
