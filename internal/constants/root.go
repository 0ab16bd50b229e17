package constants

// SessionState represents the current state of the TUI application
type SessionState int

// FrequencyType identifies a habit's recurrence rule
type FrequencyType string

const (
	AppName            = "habitgrid"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitgrid"
	DefaultConfigPath  = "~/.config/habitgrid/habitgrid.db"
	ConfigFileName     = "config.toml"
	EnvPrefix          = "HABITGRID"
	EnvDBConnection    = "HABITGRID_DB_CONNECTION"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitgrid-"
	BackupFileSuffix = ".db"

	// Frequency constants
	FrequencyDaily        FrequencyType = "daily"
	FrequencySpecificDays FrequencyType = "specific_days"
	FrequencyTimesPerWeek FrequencyType = "times_per_week"

	// MaxLookbackDays bounds every backward streak walk.
	MaxLookbackDays = 365

	MinTimesPerWeek = 1
	MaxTimesPerWeek = 7

	DefaultHabitColor = "#007AFF"
)

// Session States
const (
	StateHabits SessionState = iota
	StateArchived
	StateHeatmap
	StateAddHabit
	StateConfirmDelete
)

// HabitColors is the palette offered when creating a habit.
var HabitColors = []string{
	"#007AFF", // Blue
	"#34C759", // Green
	"#FF9500", // Orange
	"#FF3B30", // Red
	"#AF52DE", // Purple
	"#FF2D55", // Pink
	"#5AC8FA", // Teal
	"#5856D6", // Indigo
}
