package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

func TestValidateHabitName(t *testing.T) {
	if err := ValidateHabitName("Read"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateHabitName("   "); err == nil {
		t.Error("expected error for blank name")
	}
	if err := ValidateHabitName(strings.Repeat("x", MaxHabitNameLength+1)); err == nil {
		t.Error("expected error for overlong name")
	}
}

func TestValidateFrequency(t *testing.T) {
	tests := []struct {
		name    string
		freq    models.Frequency
		wantErr bool
	}{
		{"daily", models.Daily{}, false},
		{"specific days", models.SpecificDays{Days: []time.Weekday{time.Monday, time.Friday}}, false},
		{"specific days empty", models.SpecificDays{}, true},
		{"specific days out of range", models.SpecificDays{Days: []time.Weekday{7}}, true},
		{"specific days negative", models.SpecificDays{Days: []time.Weekday{-1}}, true},
		{"specific days duplicate", models.SpecificDays{Days: []time.Weekday{time.Monday, time.Monday}}, true},
		{"times per week", models.TimesPerWeek{Target: 3}, false},
		{"times per week max", models.TimesPerWeek{Target: 7}, false},
		{"times per week zero", models.TimesPerWeek{Target: 0}, true},
		{"times per week eight", models.TimesPerWeek{Target: 8}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFrequency(tt.freq)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFrequency(%v) error = %v, wantErr %v", tt.freq, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	for _, c := range []string{"#007AFF", "#abcdef"} {
		if err := ValidateColor(c); err != nil {
			t.Errorf("ValidateColor(%q) unexpected error: %v", c, err)
		}
	}
	for _, c := range []string{"", "007AFF", "#FFF", "#GGGGGG", "#007AFF0"} {
		if err := ValidateColor(c); err == nil {
			t.Errorf("ValidateColor(%q) expected error", c)
		}
	}
}

func TestValidateDateKey(t *testing.T) {
	for _, k := range []string{"2024-02-29", "2023-12-31"} {
		if err := ValidateDateKey(k); err != nil {
			t.Errorf("ValidateDateKey(%q) unexpected error: %v", k, err)
		}
	}
	for _, k := range []string{"", "2023-02-29", "2024-1-5", "2024/01/05", "2024-01-05T00:00:00Z"} {
		if err := ValidateDateKey(k); err == nil {
			t.Errorf("ValidateDateKey(%q) expected error", k)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	if err := ValidateSettings(models.Settings{RetentionDays: 30, Timezone: "Local"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSettings(models.Settings{RetentionDays: 0, Timezone: "Local"}); err == nil {
		t.Error("expected error for zero retention")
	}
	if err := ValidateSettings(models.Settings{RetentionDays: 30, Timezone: "Nowhere/City"}); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestValidateData(t *testing.T) {
	today := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		{ID: "a", Name: "Read", Frequency: models.Daily{}, Color: "#007AFF"},
		{ID: "b", Name: "read ", Frequency: models.Daily{}, Color: "#007AFF"},
		{ID: "c", Name: "Run", Frequency: models.TimesPerWeek{Target: 9}, Color: "#007AFF"},
	}
	completions := []models.Completion{
		{HabitID: "a", Day: "2024-05-14"},
		{HabitID: "a", Day: "2024-05-16"},
		{HabitID: "c", Day: "2024-13-01"},
		{HabitID: "zzz", Day: "2024-05-01"},
	}

	result := New().ValidateData(habits, completions, today)
	if !result.HasConflicts() {
		t.Fatal("expected conflicts")
	}

	counts := map[ConflictType]int{}
	for _, c := range result.Conflicts {
		counts[c.Type]++
	}
	want := map[ConflictType]int{
		ConflictInvalidHabit:       1,
		ConflictDuplicateHabitName: 1,
		ConflictFutureCompletion:   1,
		ConflictInvalidDateKey:     1,
		ConflictOrphanCompletion:   1,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("expected %d %s conflicts, got %d\n%s", n, typ, counts[typ], result.FormatReport())
		}
	}
}

func TestValidateDataClean(t *testing.T) {
	habits := []models.Habit{{ID: "a", Name: "Read", Frequency: models.Daily{}, Color: "#007AFF"}}
	result := New().ValidateData(habits, []models.Completion{{HabitID: "a", Day: "2024-05-01"}}, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}
