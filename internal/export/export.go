// Package export converts the whole database to and from a portable
// YAML or JSON document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// CurrentVersion is written to every exported document.
const CurrentVersion = 1

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected yaml or json)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is the exported form of a habitgrid database.
type Document struct {
	Version    int             `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Settings   models.Settings `json:"settings" yaml:"settings"`
	Habits     []HabitRecord   `json:"habits" yaml:"habits"`
}

// HabitRecord is one habit with its completion history.
type HabitRecord struct {
	Name        string               `json:"name" yaml:"name"`
	Frequency   models.FrequencySpec `json:"frequency" yaml:"frequency"`
	Color       string               `json:"color" yaml:"color"`
	Icon        string               `json:"icon,omitempty" yaml:"icon,omitempty"`
	SortOrder   int                  `json:"sort_order" yaml:"sort_order"`
	CreatedAt   time.Time            `json:"created_at" yaml:"created_at"`
	ArchivedAt  *time.Time           `json:"archived_at,omitempty" yaml:"archived_at,omitempty"`
	Completions []string             `json:"completions" yaml:"completions"`
}

// Export reads every habit, active and archived, with its completions.
func Export(store storage.Provider, now time.Time) (Document, error) {
	settings, err := store.GetSettings()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read settings: %w", err)
	}

	active, err := store.ListActiveHabits()
	if err != nil {
		return Document{}, fmt.Errorf("failed to list habits: %w", err)
	}
	archived, err := store.ListArchivedHabits()
	if err != nil {
		return Document{}, fmt.Errorf("failed to list archived habits: %w", err)
	}

	completions, err := store.GetAllCompletions()
	if err != nil {
		return Document{}, fmt.Errorf("failed to list completions: %w", err)
	}
	byHabit := make(map[string][]string)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Day)
	}

	doc := Document{
		Version:    CurrentVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		Settings:   settings,
		Habits:     make([]HabitRecord, 0, len(active)+len(archived)),
	}
	for _, h := range append(active, archived...) {
		days := byHabit[h.ID]
		if days == nil {
			days = []string{}
		}
		sort.Strings(days)
		doc.Habits = append(doc.Habits, HabitRecord{
			Name:        h.Name,
			Frequency:   models.SpecOf(h.Frequency),
			Color:       h.Color,
			Icon:        h.Icon,
			SortOrder:   h.SortOrder,
			CreatedAt:   h.CreatedAt,
			ArchivedAt:  h.ArchivedAt,
			Completions: days,
		})
	}
	return doc, nil
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode reads a document and rejects versions newer than this build.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return Document{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	if doc.Version < 1 || doc.Version > CurrentVersion {
		return Document{}, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	return doc, nil
}

// Result summarises an import.
type Result struct {
	Created     int
	Skipped     []string
	Completions int
}

// Import adds the document's habits to store. Habits whose name already
// exists are skipped; completions are added idempotently. Settings are only
// applied when withSettings is set.
func Import(store storage.Provider, doc Document, withSettings bool, now time.Time) (Result, error) {
	var res Result

	for i, rec := range doc.Habits {
		freq, err := rec.Frequency.Frequency()
		if err != nil {
			return res, fmt.Errorf("habit %d (%q): %w", i+1, rec.Name, err)
		}
		h := models.NewHabit(strings.TrimSpace(rec.Name), freq, rec.Color, rec.Icon, now)
		if !rec.CreatedAt.IsZero() {
			h.CreatedAt = rec.CreatedAt.UTC()
		}
		if err := validation.ValidateHabit(h); err != nil {
			return res, fmt.Errorf("habit %d (%q): %w", i+1, rec.Name, err)
		}
		for _, day := range rec.Completions {
			if err := validation.ValidateDateKey(day); err != nil {
				return res, fmt.Errorf("habit %q: %w", rec.Name, err)
			}
		}
	}

	if withSettings {
		models.ApplyDefaultSettings(&doc.Settings)
		if err := validation.ValidateSettings(doc.Settings); err != nil {
			return res, err
		}
	}

	// Records are applied in their exported order so relative positions survive.
	records := append([]HabitRecord(nil), doc.Habits...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].SortOrder < records[j].SortOrder })

	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if _, err := store.GetHabitByName(name); err == nil {
			res.Skipped = append(res.Skipped, name)
			logger.Debug("Skipping existing habit on import", "name", name)
			continue
		} else if !errors.Is(err, errors.ErrHabitNotFound) {
			return res, fmt.Errorf("failed to look up habit %q: %w", name, err)
		}

		freq, _ := rec.Frequency.Frequency()
		h := models.NewHabit(name, freq, rec.Color, rec.Icon, now)
		if !rec.CreatedAt.IsZero() {
			h.CreatedAt = rec.CreatedAt.UTC()
		}
		if err := store.AddHabit(h); err != nil {
			return res, fmt.Errorf("failed to add habit %q: %w", name, err)
		}
		res.Created++

		for _, day := range rec.Completions {
			if err := store.AddCompletion(h.ID, day); err != nil {
				return res, fmt.Errorf("failed to add completion %s for %q: %w", day, name, err)
			}
			res.Completions++
		}

		if rec.ArchivedAt != nil {
			if err := store.ArchiveHabit(h.ID, *rec.ArchivedAt); err != nil {
				return res, fmt.Errorf("failed to archive habit %q: %w", name, err)
			}
		}
	}

	if withSettings {
		if err := store.SaveSettings(doc.Settings); err != nil {
			return res, fmt.Errorf("failed to save settings: %w", err)
		}
	}

	logger.Info("Import finished", "created", res.Created, "skipped", len(res.Skipped), "completions", res.Completions)
	return res, nil
}
