package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/refreshd/internal/daemon"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Admin   string `help:"Admin listen address, overrides daemon.admin_addr (\"-\" disables)"`
	NoWatch bool   `name:"no-watch" help:"Do not reload the configuration when the file changes"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(daemon.Options{
		ConfigPath:  root.Config,
		AdminAddr:   r.Admin,
		WatchConfig: !r.NoWatch,
		Logger:      g.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("Starting refreshd", slog.String("config", root.Config))
	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}
	slog.Info("refreshd stopped")
	return nil
}
