package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
)

// FrequencyColumns is a Frequency split across the habits table columns.
type FrequencyColumns struct {
	Type         string
	Days         sql.NullString
	TimesPerWeek sql.NullInt64
}

// EncodeFrequency flattens a Frequency into its column values. SpecificDays
// stores its weekdays as a JSON array.
func EncodeFrequency(f models.Frequency) (FrequencyColumns, error) {
	spec := models.SpecOf(f)
	cols := FrequencyColumns{Type: string(spec.Type)}

	switch spec.Type {
	case constants.FrequencyDaily:
	case constants.FrequencySpecificDays:
		days := spec.Days
		if days == nil {
			days = []int{}
		}
		data, err := json.Marshal(days)
		if err != nil {
			return FrequencyColumns{}, fmt.Errorf("failed to encode frequency days: %w", err)
		}
		cols.Days = sql.NullString{String: string(data), Valid: true}
	case constants.FrequencyTimesPerWeek:
		cols.TimesPerWeek = sql.NullInt64{Int64: int64(spec.TimesPerWeek), Valid: true}
	default:
		return FrequencyColumns{}, fmt.Errorf("unsupported frequency %T", f)
	}
	return cols, nil
}

// Decode rebuilds the Frequency stored in the columns.
func (c FrequencyColumns) Decode() (models.Frequency, error) {
	spec := models.FrequencySpec{Type: constants.FrequencyType(c.Type)}
	if c.Days.Valid && c.Days.String != "" {
		if err := json.Unmarshal([]byte(c.Days.String), &spec.Days); err != nil {
			return nil, fmt.Errorf("failed to decode frequency days: %w", err)
		}
	}
	if c.TimesPerWeek.Valid {
		spec.TimesPerWeek = int(c.TimesPerWeek.Int64)
	}
	return spec.Frequency()
}
