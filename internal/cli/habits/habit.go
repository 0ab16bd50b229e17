package habits

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit an existing habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Toggle   HabitToggleCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Today    HabitTodayCmd    `cmd:"" help:"Show today's habit status."`
	Stats    HabitStatsCmd    `cmd:"" help:"Show streaks and totals for a habit."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit log (ASCII history)."`
	Heatmap  HabitHeatmapCmd  `cmd:"" help:"Show a year heatmap for a habit."`
	Archive  HabitArchiveCmd  `cmd:"" help:"Archive a habit."`
	Archived HabitArchivedCmd `cmd:"" help:"List archived habits and their retention."`
	Restore  HabitRestoreCmd  `cmd:"" help:"Restore an archived habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Permanently delete a habit and its history."`
	Reorder  HabitReorderCmd  `cmd:"" help:"Set the display order of active habits."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency string `help:"Frequency: daily, specific_days or times_per_week." default:"daily" short:"f"`
	Days      string `help:"Weekdays for specific_days (e.g. mon,wed,fri)."`
	Times     int    `help:"Target completions per week for times_per_week." default:"3"`
	Color     string `help:"Display color (#RRGGBB)." default:"${default_color}"`
	Icon      string `help:"Optional icon (emoji)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	freq, err := cli.ParseFrequency(c.Frequency, c.Days, c.Times)
	if err != nil {
		return err
	}
	color := c.Color
	if color == "" {
		color = constants.DefaultHabitColor
	}

	habit := models.NewHabit(strings.TrimSpace(c.Name), freq, color, c.Icon, ctx.Clock())
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}

	// Check if habit with same name already exists
	if _, err := ctx.Store.GetHabitByName(habit.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", habit.Name)
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Name, habit.Frequency)
	return nil
}

type HabitEditCmd struct {
	Habit     string  `arg:"" help:"Habit name or ID."`
	Name      *string `help:"New name."`
	Frequency *string `help:"New frequency: daily, specific_days or times_per_week." short:"f"`
	Days      string  `help:"Weekdays for specific_days (e.g. mon,wed,fri)."`
	Times     int     `help:"Target completions per week for times_per_week." default:"3"`
	Color     *string `help:"New display color (#RRGGBB)."`
	Icon      *string `help:"New icon."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name != habit.Name {
			if existing, err := ctx.Store.GetHabitByName(name); err == nil && existing.ID != habit.ID {
				return fmt.Errorf("habit with name %q already exists", name)
			}
		}
		habit.Name = name
		updated = true
	}
	if c.Frequency != nil {
		freq, err := cli.ParseFrequency(*c.Frequency, c.Days, c.Times)
		if err != nil {
			return err
		}
		habit.Frequency = freq
		updated = true
	}
	if c.Color != nil {
		habit.Color = *c.Color
		updated = true
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Dashboard().ActiveHabits(ctx.Clock())
	if err != nil {
		return err
	}

	var archived []models.ArchivedHabit
	if c.Archived {
		archived, err = ctx.Dashboard().ArchivedHabits(ctx.Clock())
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 && len(archived) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		ctx.Printf("%-24s %-28s streak %d\n", label(h.Habit), h.Frequency, h.CurrentStreak)
	}
	for _, h := range archived {
		ctx.Printf("%-24s %-28s [ARCHIVED]\n", label(h.Habit), h.Frequency)
	}

	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.Today()
	if err != nil {
		return err
	}
	if c.Date != "" {
		if err := validation.ValidateDateKey(c.Date); err != nil {
			return err
		}
		day, _ = utils.ParseDateKey(c.Date)
	}

	stats, done, err := ctx.Dashboard().Toggle(habit.ID, day, ctx.Clock())
	if err != nil {
		return err
	}

	key := utils.FormatDateKey(day)
	if done {
		ctx.Printf("Marked habit %q for %s (streak %d)\n", habit.Name, key, stats.CurrentStreak)
	} else {
		ctx.Printf("Unmarked habit %q for %s (streak %d)\n", habit.Name, key, stats.CurrentStreak)
	}
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID to archive."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID, ctx.Clock()); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	ctx.Printf("Archived habit: %s\n", habit.Name)
	ctx.Printf("(It will be permanently deleted after %d days. Use 'habitgrid habit restore' to undo)\n", settings.RetentionDays)
	return nil
}

type HabitArchivedCmd struct{}

func (c *HabitArchivedCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	archived, err := ctx.Dashboard().ArchivedHabits(ctx.Clock())
	if err != nil {
		return err
	}
	if len(archived) == 0 {
		ctx.Println("No archived habits.")
		return nil
	}

	now := ctx.Clock()
	for _, h := range archived {
		when := humanize.RelTime(*h.ArchivedAt, now, "ago", "from now")
		ctx.Printf("%-24s archived %-16s %s\n", label(h.Habit), when, remaining(h.DaysRemaining))
	}
	return nil
}

func remaining(days int) string {
	switch days {
	case 0:
		return "(deleted at next start)"
	case 1:
		return "(1 day left)"
	default:
		return fmt.Sprintf("(%d days left)", days)
	}
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit name or ID to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.RestoreHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Restored habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID to delete."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Permanently delete %q and all of its completions?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.PermanentlyDeleteHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitReorderCmd struct {
	Habits []string `arg:"" help:"Habit names or IDs in the desired order. Unlisted habits keep their relative order after these."`
}

func (c *HabitReorderCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	active, err := ctx.Store.ListActiveHabits()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(active))
	ids := make([]string, 0, len(active))
	for _, ref := range c.Habits {
		h, err := ctx.FindHabit(ref)
		if err != nil {
			return err
		}
		if h.IsArchived() {
			return fmt.Errorf("habit %q is archived", h.Name)
		}
		if seen[h.ID] {
			return fmt.Errorf("habit %q listed twice", h.Name)
		}
		seen[h.ID] = true
		ids = append(ids, h.ID)
	}
	for _, h := range active {
		if !seen[h.ID] {
			ids = append(ids, h.ID)
		}
	}

	if err := ctx.Store.ReorderHabits(ids); err != nil {
		return err
	}

	ctx.Println("Habit order updated.")
	return nil
}

func label(h models.Habit) string {
	if h.Icon == "" {
		return h.Name
	}
	return h.Icon + " " + h.Name
}
