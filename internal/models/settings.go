package models

// Settings represents application-wide settings
type Settings struct {
	AutoSortCompleted bool   `json:"auto_sort_completed" yaml:"auto_sort_completed"` // move habits completed today below open ones
	RetentionDays     int    `json:"retention_days" yaml:"retention_days"`           // days an archived habit is kept before it is purged
	Timezone          string `json:"timezone" yaml:"timezone"`                       // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
}
