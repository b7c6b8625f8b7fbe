package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/felixbrock/ponygp/internal/app"
	"github.com/felixbrock/ponygp/internal/components"
	"github.com/felixbrock/ponygp/internal/persistence"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "ponygp",
		Short:        "PonyGP website and fitness chart tools",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	cmd.AddCommand(newServeCommand(&configPath))
	cmd.AddCommand(newChartCommand())

	return cmd
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload and chart web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, config.LogLevel, config.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, closeRepos, err := newApp(config)
	if err != nil {
		return err
	}

	defer func() {
		err := closeRepos()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	return a.Start(ctx)
}

func newLogger(w io.Writer, level string, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// newApp wires the storage and session backends named in config. The returned
// func releases them.
func newApp(config app.Config) (app.App, func() error, error) {
	noop := func() error { return nil }

	var fileStore app.FileStore
	switch config.Storage.Backend {
	case "azblob":
		store, err := persistence.NewBlobStore(
			config.Storage.AzureConnectionString, config.Storage.AzureContainer, config.UploadDir)
		if err != nil {
			return app.App{}, noop, fmt.Errorf("azure blob storage: %w", err)
		}
		fileStore = store
	default:
		fileStore = persistence.DiskStore{Dir: config.UploadDir}
	}

	var sessionRepo app.SessionRepo
	closeRepos := noop
	switch config.Session.Backend {
	case "sqlite":
		repo, err := persistence.NewSQLiteSessionRepo(config.Session.Path)
		if err != nil {
			return app.App{}, noop, err
		}
		sessionRepo = repo
		closeRepos = repo.Close
	default:
		sessionRepo = persistence.NewMemSessionRepo()
	}

	a := app.App{
		FileStore:      fileStore,
		SessionRepo:    sessionRepo,
		InspectDataset: persistence.InspectDataset,
		ComponentBuilder: app.ComponentBuilder{
			Index:  components.Index,
			PonyGP: components.PonyGP,
			Error:  components.Error,
		},
		Config: config,
	}

	return a, closeRepos, nil
}
