package storage

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
)

func TestEncodeFrequency(t *testing.T) {
	cols, err := EncodeFrequency(models.SpecificDays{Days: []time.Weekday{time.Friday, time.Monday}})
	if err != nil {
		t.Fatalf("EncodeFrequency failed: %v", err)
	}
	if cols.Type != "specific_days" || cols.Days.String != "[1,5]" || cols.TimesPerWeek.Valid {
		t.Errorf("unexpected columns: %+v", cols)
	}

	cols, err = EncodeFrequency(models.TimesPerWeek{Target: 4})
	if err != nil {
		t.Fatalf("EncodeFrequency failed: %v", err)
	}
	if cols.Type != "times_per_week" || cols.Days.Valid || cols.TimesPerWeek.Int64 != 4 {
		t.Errorf("unexpected columns: %+v", cols)
	}

	if _, err := EncodeFrequency(nil); err == nil {
		t.Error("expected error for nil frequency")
	}
}

func TestFrequencyColumnsDecode(t *testing.T) {
	tests := []models.Frequency{
		models.Daily{},
		models.SpecificDays{Days: []time.Weekday{time.Sunday, time.Saturday}},
		models.TimesPerWeek{Target: 3},
	}
	for _, want := range tests {
		cols, err := EncodeFrequency(want)
		if err != nil {
			t.Fatalf("EncodeFrequency(%v) failed: %v", want, err)
		}
		got, err := cols.Decode()
		if err != nil {
			t.Fatalf("Decode(%+v) failed: %v", cols, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Decode() = %#v, want %#v", got, want)
		}
	}
}

func TestFrequencyColumnsDecodeErrors(t *testing.T) {
	if _, err := (FrequencyColumns{Type: "hourly"}).Decode(); err == nil {
		t.Error("expected error for unknown type")
	}

	bad := FrequencyColumns{Type: "specific_days"}
	bad.Days.String, bad.Days.Valid = "not json", true
	if _, err := bad.Decode(); err == nil {
		t.Error("expected error for malformed days")
	}
}
