package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
)

// Frequency is a habit's recurrence rule. It is a closed set of variants:
// Daily, SpecificDays and TimesPerWeek.
type Frequency interface {
	Type() constants.FrequencyType
	String() string
	isFrequency()
}

// Daily schedules every calendar day.
type Daily struct{}

// SpecificDays schedules the listed weekdays only.
type SpecificDays struct {
	Days []time.Weekday
}

// TimesPerWeek asks for Target completions per Sunday-start week.
type TimesPerWeek struct {
	Target int
}

func (Daily) Type() constants.FrequencyType        { return constants.FrequencyDaily }
func (SpecificDays) Type() constants.FrequencyType { return constants.FrequencySpecificDays }
func (TimesPerWeek) Type() constants.FrequencyType { return constants.FrequencyTimesPerWeek }

func (Daily) isFrequency()        {}
func (SpecificDays) isFrequency() {}
func (TimesPerWeek) isFrequency() {}

func (Daily) String() string { return "daily" }

func (f SpecificDays) String() string {
	if len(f.Days) == 0 {
		return "no days"
	}
	days := append([]time.Weekday(nil), f.Days...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	names := make([]string, 0, len(days))
	for _, wd := range days {
		names = append(names, wd.String()[:3])
	}
	return "on " + strings.Join(names, ",")
}

func (f TimesPerWeek) String() string {
	return fmt.Sprintf("%dx per week", f.Target)
}

// Includes reports whether wd is one of the configured days.
func (f SpecificDays) Includes(wd time.Weekday) bool {
	for _, d := range f.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// FrequencySpec is the flat, storable form of a Frequency. Exactly one of
// Days or TimesPerWeek is meaningful, depending on Type.
type FrequencySpec struct {
	Type         constants.FrequencyType `json:"type" yaml:"type"`
	Days         []int                   `json:"days,omitempty" yaml:"days,omitempty"`
	TimesPerWeek int                     `json:"times_per_week,omitempty" yaml:"times_per_week,omitempty"`
}

// SpecOf flattens a Frequency for storage or transport.
func SpecOf(f Frequency) FrequencySpec {
	switch f := f.(type) {
	case Daily:
		return FrequencySpec{Type: constants.FrequencyDaily}
	case SpecificDays:
		days := make([]int, len(f.Days))
		for i, d := range f.Days {
			days[i] = int(d)
		}
		sort.Ints(days)
		return FrequencySpec{Type: constants.FrequencySpecificDays, Days: days}
	case TimesPerWeek:
		return FrequencySpec{Type: constants.FrequencyTimesPerWeek, TimesPerWeek: f.Target}
	default:
		return FrequencySpec{}
	}
}

// Frequency rebuilds the typed rule. Unknown types are an error; the
// parameters themselves are checked by the validation package.
func (s FrequencySpec) Frequency() (Frequency, error) {
	switch s.Type {
	case constants.FrequencyDaily:
		return Daily{}, nil
	case constants.FrequencySpecificDays:
		days := make([]time.Weekday, len(s.Days))
		for i, d := range s.Days {
			days[i] = time.Weekday(d)
		}
		return SpecificDays{Days: days}, nil
	case constants.FrequencyTimesPerWeek:
		return TimesPerWeek{Target: s.TimesPerWeek}, nil
	default:
		return nil, fmt.Errorf("unknown frequency type %q", s.Type)
	}
}
