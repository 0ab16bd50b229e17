package constants

const (
	// DateFormat is the canonical date-key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"
)
