/*
Package calc is the reference host application for cline.

It sums or subtracts two integers given on the command line, optionally
publishing each result to Redis, and can serve those results as a live
WebSocket feed.
*/
package calc

import (
	"context"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ldamasio/cline"
	"github.com/ldamasio/cline/internal/broadcast"
)

// NewCommand returns the command describing calc's flags and usage.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [a] [b]",
		Short: "Sums or subtracts two integers",
		Long: `calc sums or subtracts two integers.

Results can be published to a Redis channel and followed live over
WebSocket with --serve.

Examples:
  calc 1 2 --sum
  calc 5 3 --sub --json
  calc 1 2 --sum --publish
  calc --serve --port 8080`,
	}

	flags := cmd.Flags()
	flags.Bool("sum", false, "sums the numbers")
	flags.Bool("sub", false, "subtracts b from a")
	flags.Bool("version", false, "show version")
	flags.Bool("json", false, "output in JSON format")
	flags.Bool("publish", false, "publish the result to Redis")
	flags.Bool("serve", false, "serve published results over WebSocket")
	flags.String("config", "", "path to a TOML config file")
	flags.String("redis", "", "Redis address (env: CALC_REDIS_ADDR)")
	flags.String("channel", "", "Redis channel (env: CALC_CHANNEL)")
	flags.String("port", "", "WebSocket server port (env: CALC_PORT)")
	return cmd
}

// ResultPublisher publishes calculation results.
type ResultPublisher interface {
	Publish(ctx context.Context, event broadcast.Event) error
	Close() error
}

// App holds calc's collaborators. The zero value uses Redis and the real
// feed server.
type App struct {
	// NewPublisher connects a publisher for settings.
	NewPublisher func(settings Settings) ResultPublisher
	// Serve runs the live feed until ctx is done.
	Serve func(ctx context.Context, settings Settings, logger *slog.Logger) error
}

// Tasks returns calc's tasks in priority order.
func (a App) Tasks() []cline.Task {
	return []cline.Task{
		SubtractTask(a),
		SumTask(a),
		ServeTask(a),
	}
}

// New returns calc's Cli.
func (a App) New(cfg cline.Config) *cline.Cli {
	if cfg.Out == nil {
		cfg.Color = !color.NoColor
	}
	return cline.New(cline.NewCobraParser(NewCommand(), "a", "b"), a.Tasks(), cfg)
}

func (a App) publisher(settings Settings) ResultPublisher {
	if a.NewPublisher != nil {
		return a.NewPublisher(settings)
	}
	return newRedisPublisher(settings)
}

func (a App) serve(ctx context.Context, settings Settings, logger *slog.Logger) error {
	if a.Serve != nil {
		return a.Serve(ctx, settings, logger)
	}
	return broadcast.Run(ctx, broadcast.Options{
		RedisAddr: settings.RedisAddr,
		Channel:   settings.Channel,
		Addr:      ":" + settings.Port,
		Logger:    logger,
	})
}
