package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitgrid/internal/api"
	"github.com/julianstephens/habitgrid/internal/cli"
)

type ServeCmd struct {
	Addr string `help:"Listen address (default from config, 127.0.0.1:8420)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(ctx.Store, api.Options{
		CORSOrigins: ctx.Config.Server.CORSOrigins,
		Now:         ctx.Clock,
	})
	ctx.Printf("Serving habitgrid API on http://%s (Ctrl+C to stop)\n", addr)
	return srv.ListenAndServe(sigCtx, addr)
}
