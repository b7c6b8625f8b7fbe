package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/felixbrock/ponygp/internal/chart"
	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/felixbrock/ponygp/internal/runlog"
	"github.com/spf13/cobra"
)

type chartOptions struct {
	output string
	format string
	width  int
	height int
	watch  bool
}

func newChartCommand() *cobra.Command {
	opts := chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart <run.log>",
		Short: "Render the Generation vs. Fitness chart of a run log",
		Long: `Render the Generation vs. Fitness chart of a run log.

The json format writes the Chart.js configuration the website uses, png and
svg render the chart as an image. With --watch the output is rewritten every
time the run log changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: png, svg or json (default from the output extension, else png)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Image height in pixels")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-render whenever the run log changes")

	return cmd
}

func runChart(ctx context.Context, stdout io.Writer, logPath string, opts chartOptions) error {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
		if format != "json" && format != string(chart.SVG) {
			format = string(chart.PNG)
		}
	}

	if format != "json" {
		if _, err := chart.ParseFormat(format); err != nil {
			return err
		}
	}

	size := chart.Size{Width: opts.width, Height: opts.height}

	if !opts.watch {
		series, err := runlog.ReadFile(logPath)
		if err != nil {
			return err
		}
		return writeChartTo(stdout, opts.output, series, format, size)
	}

	if opts.output == "-" {
		return fmt.Errorf("--watch needs an output file")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runlog.Watch(ctx, logPath, func(series domain.FitnessSeries) error {
		err := writeChartTo(stdout, opts.output, series, format, size)
		if err != nil {
			// The run may not have logged a generation yet.
			slog.Warn("chart not written", "output", opts.output, "error", err)
			return nil
		}

		slog.Info("chart written", "output", opts.output, "generations", len(series))
		return nil
	})
}

// writeChartTo writes to stdout for "-", otherwise replaces the output file.
func writeChartTo(stdout io.Writer, output string, series domain.FitnessSeries, format string, size chart.Size) error {
	if output == "-" {
		return writeChart(stdout, series, format, size)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".chart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err = tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}

	if err = writeChart(tmp, series, format, size); err != nil {
		tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), output)
}

func writeChart(w io.Writer, series domain.FitnessSeries, format string, size chart.Size) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chart.NewConfig(series))
	}

	f, err := chart.ParseFormat(format)
	if err != nil {
		return err
	}

	return chart.Render(w, series, f, size)
}
