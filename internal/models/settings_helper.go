package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitgrid/internal/constants"
)

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{
		AutoSortCompleted: constants.DefaultAutoSortCompleted,
		RetentionDays:     constants.DefaultRetentionDays,
		Timezone:          constants.DefaultTimezone,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys that are absent keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingAutoSortCompleted:
			settings.AutoSortCompleted = value == "true"
		case constants.SettingRetentionDays:
			days, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing retention_days: %w", err)
			}
			settings.RetentionDays = days
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingAutoSortCompleted: strconv.FormatBool(settings.AutoSortCompleted),
		constants.SettingRetentionDays:     strconv.Itoa(settings.RetentionDays),
		constants.SettingTimezone:          settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.RetentionDays <= 0 {
		settings.RetentionDays = constants.DefaultRetentionDays
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
