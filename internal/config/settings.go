package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UserSettings represents the viewer configuration
type UserSettings struct {
	// Site data
	SiteFile  string `json:"siteFile"`  // site JSON with tilesMeta per date and the boundary
	StaticDir string `json:"staticDir"` // directory holding {date}/{tileName}.png

	// Map style
	StyleURL       string `json:"styleURL"`
	ReferenceLayer string `json:"referenceLayer"` // tile layers are inserted below this style layer

	// Initial camera
	DefaultZoom      float64 `json:"defaultZoom"`
	DefaultCenterLat float64 `json:"defaultCenterLat"`
	DefaultCenterLon float64 `json:"defaultCenterLon"`
	DefaultDate      string  `json:"defaultDate"` // empty selects the first date of the site

	// Boundary outline
	BoundaryColor string  `json:"boundaryColor"`
	BoundaryWidth float64 `json:"boundaryWidth"`

	// Resize events are throttled to one per interval
	ResizeThrottleMS int `json:"resizeThrottleMS"`
}

// DefaultSettings returns default user settings
func DefaultSettings() *UserSettings {
	return &UserSettings{
		SiteFile:         filepath.Join("static", "KNP", "site.json"),
		StaticDir:        filepath.Join("static", "KNP"),
		StyleURL:         "mapbox://styles/4v-e/cjsket4mh0ty11foda52iviad",
		ReferenceLayer:   "waterway",
		DefaultZoom:      6,
		DefaultCenterLat: -23.92, // Kruger National Park
		DefaultCenterLon: 31.65,
		BoundaryColor:    "#ff7f0e",
		BoundaryWidth:    2,
		ResizeThrottleMS: 500,
	}
}

// GetSettingsPath returns the OS-specific settings file path
func GetSettingsPath() string {
	homeDir, _ := os.UserHomeDir()

	baseDir := filepath.Join(homeDir, ".knp-timelapse", "settings")
	return filepath.Join(baseDir, "settings.json")
}

// LoadSettings loads user settings from disk
func LoadSettings() (*UserSettings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from path. A missing file yields defaults.
func LoadSettingsFrom(settingsPath string) (*UserSettings, error) {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Merge with defaults for any missing fields
	defaults := DefaultSettings()
	if settings.SiteFile == "" {
		settings.SiteFile = defaults.SiteFile
	}
	if settings.StaticDir == "" {
		settings.StaticDir = defaults.StaticDir
	}
	if settings.StyleURL == "" {
		settings.StyleURL = defaults.StyleURL
	}
	if settings.ReferenceLayer == "" {
		settings.ReferenceLayer = defaults.ReferenceLayer
	}
	if settings.DefaultZoom == 0 {
		settings.DefaultZoom = defaults.DefaultZoom
	}
	if settings.DefaultCenterLat == 0 && settings.DefaultCenterLon == 0 {
		settings.DefaultCenterLat = defaults.DefaultCenterLat
		settings.DefaultCenterLon = defaults.DefaultCenterLon
	}
	if settings.BoundaryColor == "" {
		settings.BoundaryColor = defaults.BoundaryColor
	}
	if settings.BoundaryWidth == 0 {
		settings.BoundaryWidth = defaults.BoundaryWidth
	}
	if settings.ResizeThrottleMS == 0 {
		settings.ResizeThrottleMS = defaults.ResizeThrottleMS
	}

	return &settings, nil
}

// SaveSettings saves user settings to disk
func SaveSettings(settings *UserSettings) error {
	return SaveSettingsTo(GetSettingsPath(), settings)
}

// SaveSettingsTo writes settings to path
func SaveSettingsTo(settingsPath string, settings *UserSettings) error {
	// Ensure directory exists
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// ValidateSettings checks settings before they are saved
func ValidateSettings(settings *UserSettings) error {
	if settings.SiteFile == "" {
		return fmt.Errorf("site file is required")
	}
	if settings.StaticDir == "" {
		return fmt.Errorf("static directory is required")
	}
	if settings.ReferenceLayer == "" {
		return fmt.Errorf("reference layer is required")
	}
	if !strings.HasPrefix(settings.BoundaryColor, "#") {
		return fmt.Errorf("invalid boundary color: %s (must be #rrggbb)", settings.BoundaryColor)
	}
	if settings.BoundaryWidth <= 0 {
		return fmt.Errorf("boundary width must be positive")
	}
	if settings.ResizeThrottleMS < 0 {
		return fmt.Errorf("resize throttle cannot be negative")
	}
	return nil
}
