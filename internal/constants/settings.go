package constants

const (
	SettingAutoSortCompleted = "auto_sort_completed"
	SettingRetentionDays     = "retention_days"
	SettingTimezone          = "timezone"

	// Default Settings Values
	DefaultAutoSortCompleted = true
	DefaultRetentionDays     = 30
	DefaultTimezone          = "Local" // Use system local timezone by default
)
