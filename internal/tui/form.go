package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// HabitFormModel holds the add-habit form values.
type HabitFormModel struct {
	Name      string
	Frequency constants.FrequencyType
	Days      []time.Weekday
	Times     string
	Color     string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Frequency: constants.FrequencyDaily,
		Times:     "3",
		Color:     constants.DefaultHabitColor,
	}
}

// Habit builds the habit described by the form.
func (fm *HabitFormModel) Habit(now time.Time) (models.Habit, error) {
	var freq models.Frequency
	switch fm.Frequency {
	case constants.FrequencySpecificDays:
		freq = models.SpecificDays{Days: fm.Days}
	case constants.FrequencyTimesPerWeek:
		n, err := strconv.Atoi(strings.TrimSpace(fm.Times))
		if err != nil {
			return models.Habit{}, fmt.Errorf("times per week must be a number")
		}
		freq = models.TimesPerWeek{Target: n}
	default:
		freq = models.Daily{}
	}

	h := models.NewHabit(strings.TrimSpace(fm.Name), freq, fm.Color, "", now)
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

var weekdayOptions = []huh.Option[time.Weekday]{
	huh.NewOption("Sunday", time.Sunday),
	huh.NewOption("Monday", time.Monday),
	huh.NewOption("Tuesday", time.Tuesday),
	huh.NewOption("Wednesday", time.Wednesday),
	huh.NewOption("Thursday", time.Thursday),
	huh.NewOption("Friday", time.Friday),
	huh.NewOption("Saturday", time.Saturday),
}

// NewHabitForm creates the add-habit form. The days and times groups are
// hidden unless the matching frequency is chosen.
func NewHabitForm(fm *HabitFormModel, exists func(name string) bool) *huh.Form {
	colors := make([]huh.Option[string], len(constants.HabitColors))
	for i, c := range constants.HabitColors {
		colors[i] = huh.NewOption(c, c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if err := validation.ValidateHabitName(s); err != nil {
						return err
					}
					if exists != nil && exists(strings.TrimSpace(s)) {
						return fmt.Errorf("a habit named %q already exists", strings.TrimSpace(s))
					}
					return nil
				}),
			huh.NewSelect[constants.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Every day", constants.FrequencyDaily),
					huh.NewOption("Specific days", constants.FrequencySpecificDays),
					huh.NewOption("Times per week", constants.FrequencyTimesPerWeek),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Days").
				Options(weekdayOptions...).
				Value(&fm.Days).
				Validate(func(days []time.Weekday) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != constants.FrequencySpecificDays }),
		huh.NewGroup(
			huh.NewInput().
				Title("Times per week").
				Value(&fm.Times).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < constants.MinTimesPerWeek || n > constants.MaxTimesPerWeek {
						return fmt.Errorf("enter a number from %d to %d", constants.MinTimesPerWeek, constants.MaxTimesPerWeek)
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != constants.FrequencyTimesPerWeek }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}
