package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/tui/components/heatmap"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Dashboard().ActiveHabits(ctx.Clock())
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}

	ctx.Printf("Habits for %s:\n\n", utils.FormatDateKey(today))
	recorded := 0
	for _, h := range habits {
		status := "[ ]"
		if h.CompletedToday {
			status = "[x]"
			recorded++
		}
		ctx.Printf("%s %-24s %s\n", status, label(h.Habit), progress(h, today))
	}

	ctx.Printf("\nRecorded: %d/%d\n", recorded, len(habits))
	return nil
}

// progress describes where a habit stands for the current unit.
func progress(h models.HabitWithStats, today time.Time) string {
	switch f := h.Frequency.(type) {
	case models.TimesPerWeek:
		return fmt.Sprintf("%d/%d this week, %d-week streak", h.CompletionsThisWeek, f.Target, h.CurrentStreak)
	case models.SpecificDays:
		if !f.Includes(today.Weekday()) {
			return fmt.Sprintf("not due today, %d streak", h.CurrentStreak)
		}
		return fmt.Sprintf("%d streak", h.CurrentStreak)
	default:
		return fmt.Sprintf("%d-day streak", h.CurrentStreak)
	}
}

type HabitStatsCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	stats, err := ctx.Dashboard().Habit(habit.ID, ctx.Clock())
	if err != nil {
		return err
	}

	unit := "days"
	if _, ok := stats.Frequency.(models.TimesPerWeek); ok {
		unit = "weeks"
	}

	ctx.Printf("%s\n", label(stats.Habit))
	ctx.Printf("  Frequency:        %s\n", stats.Frequency)
	ctx.Printf("  Current streak:   %d %s\n", stats.CurrentStreak, unit)
	ctx.Printf("  Longest streak:   %d %s\n", stats.LongestStreak, unit)
	ctx.Printf("  Done today:       %t\n", stats.CompletedToday)
	ctx.Printf("  This week:        %d\n", stats.CompletionsThisWeek)
	ctx.Printf("  Total:            %d\n", stats.TotalCompletions)
	ctx.Printf("  Created:          %s\n", stats.CreatedAt.Format(constants.DateFormat))
	if stats.ArchivedAt != nil {
		ctx.Printf("  Archived:         %s\n", stats.ArchivedAt.Format(constants.DateFormat))
	}
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if c.Days < 1 || c.Days > constants.MaxLookbackDays {
		return fmt.Errorf("--days must be between 1 and %d", constants.MaxLookbackDays)
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := ctx.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		active, err := ctx.Store.ListActiveHabits()
		if err != nil {
			return err
		}
		selected = active
	}

	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	endDay, err := ctx.Today()
	if err != nil {
		return err
	}
	startDay := utils.AddDays(endDay, -(c.Days - 1))

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)

	// Print header with dates
	const maxNameLen = 20
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", maxNameLen, "Habit"))
	for i := 0; i < c.Days; i++ {
		b.WriteString(fmt.Sprintf(" %5s", utils.AddDays(startDay, i).Format("01/02")))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", maxNameLen+6*c.Days))
	b.WriteString("\n")

	for _, habit := range selected {
		name := []rune(habit.Name)
		if len(name) > maxNameLen {
			name = append(name[:maxNameLen-3], []rune("...")...)
		}
		b.WriteString(fmt.Sprintf("%-*s", maxNameLen, string(name)))

		keys, err := ctx.Store.ListCompletionDatesInRange(
			habit.ID,
			utils.FormatDateKey(startDay),
			utils.FormatDateKey(endDay),
		)
		if err != nil {
			return err
		}
		done := tracker.NewCompletionSet(keys)

		for i := 0; i < c.Days; i++ {
			day := utils.AddDays(startDay, i)
			switch {
			case done.Has(day):
				b.WriteString("  x   ")
			case utils.IsScheduled(day, habit.Frequency):
				b.WriteString("  .   ")
			default:
				b.WriteString("      ")
			}
		}
		b.WriteString("\n")
	}

	ctx.Printf("%s", b.String())
	return nil
}

type HabitHeatmapCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Year  int    `help:"Year to show (default: current year)."`
}

func (c *HabitHeatmapCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	year := c.Year
	if year == 0 {
		today, err := ctx.Today()
		if err != nil {
			return err
		}
		year = today.Year()
	}

	data, err := ctx.Dashboard().Heatmap(habit.ID, year)
	if err != nil {
		return err
	}

	ctx.Printf("%s · %d\n\n", label(habit), year)
	ctx.Printf("%s\n", heatmap.Render(data, habit.Color))
	ctx.Printf("    %s\n", heatmap.Legend(habit.Color))
	return nil
}
