package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keystate-dev/keystate"
	"github.com/keystate-dev/keystate/pkg/inspect"
	"github.com/keystate-dev/keystate/pkg/middleware"
)

func demoCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
		metrics  bool
		tracing  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the inspector against a demo registry",
		Long: `Run the development inspector against a self-mutating demo registry.

The demo registers a counter instance with a validator and a computed
"parity" key, then keeps incrementing it so the inspector has live data.

Endpoints:
  GET  /instances                    list instance names
  GET  /instances/{name}             state snapshot
  POST /instances/{name}             inject a write (validators apply)
  GET  /instances/{name}/events      WebSocket event stream
  GET  /stats                        store stats

Examples:
  keystate demo
  keystate demo --addr=:9090 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(addr, interval, metrics, tracing)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:7070", "Inspector listen address")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Demo mutation interval")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Enable Prometheus request metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Enable OpenTelemetry request tracing")

	return cmd
}

func runDemo(addr string, interval time.Duration, metrics, tracing bool) error {
	printBanner()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	reg := keystate.NewRegistry(keystate.WithLogger(logger))

	reg.Register(map[string]keystate.Entry{
		"counter": keystate.Init(func(in *keystate.Instance) map[string]any {
			in.SetValidators(map[string]keystate.Validator{
				"count": func(v any) bool {
					n, ok := v.(int)
					return ok && n >= 0
				},
			})
			in.Define(keystate.Values(map[string]any{
				"parity": keystate.Computed{
					State: "even",
					Get: func(target *keystate.Instance, key string, raw any) any {
						if n, ok := target.Read("count").(int); ok && n%2 != 0 {
							return "odd"
						}
						return "even"
					},
				},
			}))
			return map[string]any{"count": 0}
		}),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keep the counter moving so event streams have traffic.
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		counter := reg.Use("counter")
		for {
			select {
			case <-ticker.C:
				n, _ := counter.Read("count").(int)
				counter.Store(keystate.Values(map[string]any{"count": n + 1}))
			case <-ctx.Done():
				return
			}
		}
	}()

	opts := []inspect.Option{
		inspect.WithAddr(addr),
		inspect.WithLogger(logger),
	}
	if metrics {
		middleware.ExportStats(reg.Stats())
		opts = append(opts, inspect.WithMiddleware(middleware.Prometheus()))
	}
	if tracing {
		opts = append(opts, inspect.WithMiddleware(middleware.OpenTelemetry()))
	}

	info("demo registry ready, inspector on %s", addr)
	return inspect.New(reg, opts...).Serve(ctx)
}
