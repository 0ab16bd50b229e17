package system

import (
	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/config"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a default config.toml."`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration."`
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	path := ctx.ConfigFile
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.WriteDefault(path, c.Force); err != nil {
		return err
	}
	ctx.Printf("Wrote default config to: %s\n", path)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	out, err := config.Render(ctx.Config)
	if err != nil {
		return err
	}
	ctx.Printf("%s", out)
	return nil
}
