package data

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/export"
)

type ExportCmd struct {
	Format string `help:"Output format: yaml or json (default: from --out extension, else yaml)." enum:",yaml,yml,json" default:""`
	Out    string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	format := export.FormatFromPath(c.Out)
	if c.Format != "" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = f
	}

	doc, err := export.Export(ctx.Store, ctx.Clock())
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Writer()
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Out, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Encode(w, doc, format); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if c.Out != "" {
		ctx.Printf("Exported %d habits to %s\n", len(doc.Habits), c.Out)
	}
	return nil
}

type ImportCmd struct {
	File     string `arg:"" help:"Export file to import (.yaml, .yml or .json)." type:"existingfile"`
	Format   string `help:"Input format: yaml or json (default: from file extension)." enum:",yaml,yml,json" default:""`
	Settings bool   `help:"Also replace settings with the ones in the file."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	format := export.FormatFromPath(c.File)
	if c.Format != "" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = f
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	doc, err := export.Decode(f, format)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	result, err := export.Import(ctx.Store, doc, c.Settings, ctx.Clock())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	ctx.Printf("Imported %d habits and %d completions\n", result.Created, result.Completions)
	for _, name := range result.Skipped {
		ctx.Printf("  skipped %q (already exists)\n", name)
	}
	return nil
}
