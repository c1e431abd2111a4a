package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alanyang/support-router/internal/config"
	"github.com/alanyang/support-router/internal/domain/assignment"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"
	"github.com/alanyang/support-router/internal/wire"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "support-router",
		Short: "Agent assignment engine for multi-tenant support chat",
		Long: `support-router decides which support agent receives a conversation,
honoring per-agent capacity and the tenant's configured assignment strategy.

Without a subcommand it runs the HTTP + MCP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(setStrategyCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

// loadConfig reads the environment and installs the JSON logger writing to logOut.
func loadConfig(logOut io.Writer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP + MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg, err := loadConfig(os.Stdout)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := wire.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		return err
	}
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP + MCP server listening", "addr", app.Server.Addr)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			slog.Error("HTTP server error", "error", serveErr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("support-router server stopped")
	return serveErr
}

func resolveCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "resolve [tenant]",
		Short: "Print the assignment strategy in force for a tenant queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Pool.Close()

			res, err := eng.Service.ResolveStrategy(cmd.Context(), args[0], group)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			return printJSON(cmd, map[string]any{
				"tenant_id": args[0],
				"group_key": group,
				"strategy":  res.Key,
				"fallback":  res.Fallback(),
				"requested": res.Requested,
			})
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "queue key (empty = tenant default queue)")
	return cmd
}

func assignCmd() *cobra.Command {
	var (
		group string
		last  string
	)

	cmd := &cobra.Command{
		Use:   "assign [tenant]",
		Short: "Dry-run an assignment against the current agents and loads",
		Long: `Computes the decision the server would make for a new conversation in
the queue. Nothing is written and no events are published.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Pool.Close()

			d, err := eng.Service.Route(cmd.Context(), assignsvc.RouteRequest{
				TenantID:        args[0],
				GroupKey:        group,
				LastAgentUserID: last,
			})
			if err != nil {
				return fmt.Errorf("assign: %w", err)
			}
			return printJSON(cmd, d)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "queue key (empty = tenant default queue)")
	cmd.Flags().StringVar(&last, "last", "", "user id of the agent that received the previous conversation")
	return cmd
}

func setStrategyCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "set-strategy [tenant] [strategy]",
		Short: "Store the assignment strategy for a tenant queue",
		Long: `Writes the strategy to the database. Running servers pick it up once
their cached entry for the queue expires.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Pool.Close()

			key := assignment.NormalizeKey(args[1])
			if err := eng.Strategies.Set(cmd.Context(), args[0], group, string(key)); err != nil {
				return fmt.Errorf("set strategy: %w", err)
			}
			return printJSON(cmd, map[string]any{"tenant_id": args[0], "group_key": group, "strategy": key})
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "queue key (empty = tenant-wide default)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applied, err := wire.Migrate(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if applied == nil {
				applied = []string{}
			}
			return printJSON(cmd, map[string]any{"applied": applied})
		},
	}
}

func buildEngine(ctx context.Context) (*wire.Engine, error) {
	// Logs go to stderr so stdout carries only the JSON result.
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	eng, err := wire.BuildEngine(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return eng, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
