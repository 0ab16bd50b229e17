package settings

import (
	"fmt"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	AutoSortCompleted *bool   `help:"Move habits completed today below open ones."`
	RetentionDays     *int    `help:"Days an archived habit is kept before it is permanently deleted."`
	Timezone          *string `help:"IANA timezone used to decide what 'today' is (or Local)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Auto-sort Completed:   %v\n", settings.AutoSortCompleted)
		ctx.Printf("  Retention:             %d days\n", settings.RetentionDays)
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.AutoSortCompleted != nil {
		settings.AutoSortCompleted = *c.AutoSortCompleted
		updated = true
	}
	if c.RetentionDays != nil {
		settings.RetentionDays = *c.RetentionDays
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := validation.ValidateSettings(settings); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
