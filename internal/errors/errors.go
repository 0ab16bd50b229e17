package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitgrid/internal/logger"
)

// Sentinel errors shared by the storage backends and the surfaces above them.
// Stores wrap these, so callers match with errors.Is.
var (
	ErrHabitNotFound    = stderrors.New("habit not found")
	ErrHabitArchived    = stderrors.New("habit is archived")
	ErrHabitNotArchived = stderrors.New("habit is not archived")
	ErrDuplicateName    = stderrors.New("a habit with that name already exists")
	ErrNotInitialized   = stderrors.New("storage not initialized, run 'habitgrid init' first")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
