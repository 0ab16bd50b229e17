package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/dashboard"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigFile string

	// Now, Out and In default to the real clock, stdout and stdin.
	Now func() time.Time
	Out io.Writer
	In  io.Reader
}

// Clock returns the current time.
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) Writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Dashboard wraps the store with the stats engine.
func (c *Context) Dashboard() *dashboard.Dashboard {
	return dashboard.New(c.Store)
}

// Today returns the current calendar day in the configured timezone.
func (c *Context) Today() (time.Time, error) {
	today, _, err := c.Dashboard().Today(c.Clock())
	return today, err
}

// Confirm asks a yes/no question on In. Anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite databases are backed up.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// SweepExpiredHabits purges archived habits past the retention window.
// Failures are logged, never fatal.
func (c *Context) SweepExpiredHabits() int {
	n, err := c.Dashboard().Sweep(c.Clock())
	if err != nil {
		logger.Warn("Sweep of expired habits failed", "error", err)
		return 0
	}
	return n
}

// FindHabit looks a habit up by exact name, then by ID.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	h, err := c.Store.GetHabitByName(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, errors.ErrHabitNotFound) {
		return models.Habit{}, err
	}
	h, err = c.Store.GetHabit(ref)
	if errors.Is(err, errors.ErrHabitNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	}
	return h, err
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		// Try parsing as number (0=Sunday, 6=Saturday)
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}

	return weekdays, nil
}

// ParseFrequency builds a Frequency from CLI flags. kind accepts the stored
// names and the short forms "days" and "weekly".
func ParseFrequency(kind, days string, times int) (models.Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "daily":
		return models.Daily{}, nil
	case "specific_days", "specific-days", "days":
		wds, err := ParseWeekdays(days)
		if err != nil {
			return nil, err
		}
		return models.SpecificDays{Days: wds}, nil
	case "times_per_week", "times-per-week", "weekly":
		return models.TimesPerWeek{Target: times}, nil
	default:
		return nil, fmt.Errorf("unknown frequency %q (expected daily, specific_days or times_per_week)", kind)
	}
}
