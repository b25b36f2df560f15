package store

import (
	"encoding/json"

	"fyne.io/fyne/v2"

	"github.com/penlet/reminders/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	app fyne.App
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(app fyne.App) *ConfigStore {
	return &ConfigStore{app: app}
}

// Load loads configuration from preferences
func (cs *ConfigStore) Load() *models.Config {
	prefs := cs.app.Preferences()

	config := &models.Config{
		PortalURL:       prefs.String("portal_url"),
		APIToken:        prefs.String("api_token"),
		TimetableURL:    prefs.String("timetable_url"),
		AutoStart:       prefs.BoolWithFallback("auto_start", false),
		PollInterval:    prefs.IntWithFallback("poll_interval", 30),
		CheckInterval:   prefs.IntWithFallback("check_interval", 5),
		NotifyInterval:  prefs.IntWithFallback("notify_interval", 60),
		SnoozeMinutes:   prefs.IntWithFallback("snooze_minutes", 5),
		HoldTimeSeconds: prefs.IntWithFallback("hold_time_seconds", 2),
	}

	// Load quiet hour ranges from JSON string
	quietHoursJSON := prefs.String("quiet_hour_ranges")
	if quietHoursJSON != "" {
		if err := json.Unmarshal([]byte(quietHoursJSON), &config.QuietHourRanges); err != nil {
			config.QuietHourRanges = []models.TimeRange{}
		}
	} else {
		config.QuietHourRanges = []models.TimeRange{}
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	prefs := cs.app.Preferences()

	prefs.SetString("portal_url", config.PortalURL)
	prefs.SetString("api_token", config.APIToken)
	prefs.SetString("timetable_url", config.TimetableURL)
	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetInt("poll_interval", config.PollInterval)
	prefs.SetInt("check_interval", config.CheckInterval)
	prefs.SetInt("notify_interval", config.NotifyInterval)
	prefs.SetInt("snooze_minutes", config.SnoozeMinutes)
	prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)

	// Save quiet hour ranges as JSON string
	if quietHoursJSON, err := json.Marshal(config.QuietHourRanges); err == nil {
		prefs.SetString("quiet_hour_ranges", string(quietHoursJSON))
	}
}
