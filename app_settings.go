package main

import (
	"knp-timelapse/internal/config"
)

// ===================
// Settings Management
// ===================

// GetSettings returns current user settings
func (a *App) GetSettings() (*config.UserSettings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Return a copy to prevent external modifications
	settingsCopy := *a.settings
	return &settingsCopy, nil
}

// SaveSettings saves user settings to disk and updates app state
func (a *App) SaveSettings(settings *config.UserSettings) error {
	if err := config.ValidateSettings(settings); err != nil {
		return err
	}

	// Save to disk
	if err := config.SaveSettings(settings); err != nil {
		return err
	}

	a.mu.Lock()
	a.settings = settings
	a.mu.Unlock()

	// The view keeps its site and options until the next start
	a.log.Info("settings saved, site and style changes apply on next restart")
	return nil
}

// GetSettingsPath returns the OS-specific settings file path
func (a *App) GetSettingsPath() string {
	return config.GetSettingsPath()
}
