// Command isomap draws contour charts of synthetic scalar fields in the
// terminal and exports their contours as GeoJSON.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"isomap/internal/config"
	"isomap/internal/contour"
	"isomap/internal/field"
	"isomap/internal/logging"
	"isomap/internal/tui"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	root := &cobra.Command{
		Use:   "isomap [overlay]",
		Short: "Terminal contour map viewer",
		Long: "isomap contours a synthetic scalar field, places labels and thins the grid,\n" +
			"then draws the result with braille graphics. An optional overlay file\n" +
			"(GeoJSON, WKT or CSV) is drawn on top.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Overlay = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(cfg), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
	bindFlags(root, &cfg)
	root.AddCommand(newContoursCmd(&cfg))
	return root
}

func newContoursCmd(cfg *config.Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "contours",
		Short: "Write the field's contours as a GeoJSON FeatureCollection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeContours(w, *cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func writeContours(w io.Writer, cfg config.Config) error {
	g, err := field.Generate(cfg.FieldSpec())
	if err != nil {
		return err
	}
	set, err := contour.Extract(g, cfg.ContourOptions())
	if err != nil {
		return err
	}
	data, err := set.FeatureCollection().MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode contours: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// setupLogging sends logs to the configured file. Without one the viewer
// stays silent so logs never corrupt the terminal UI.
func setupLogging(cfg config.Config) error {
	if cfg.LogFile == "" {
		return nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logging.SetLogger(logging.NewText(f, logging.ParseLevel(cfg.LogLevel)))
	return nil
}

func bindFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.PersistentFlags()
	f.StringVar(&cfg.Field, "field", cfg.Field, fmt.Sprintf("synthetic field %v", field.Kinds()))
	f.IntVar(&cfg.NI, "ni", cfg.NI, "grid columns")
	f.IntVar(&cfg.NJ, "nj", cfg.NJ, "grid rows")
	f.Float64SliceVar(&cfg.Bounds, "bounds", cfg.Bounds, "min lon, min lat, max lon, max lat")
	f.StringVar(&cfg.Projection, "projection", cfg.Projection, "grid projection: latlon or mercator")

	f.Float64Var(&cfg.Interval, "interval", cfg.Interval, "contour interval")
	f.Float64SliceVar(&cfg.Levels, "levels", cfg.Levels, "explicit contour levels, overrides --interval")
	f.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "drop contour points closer than this (degrees)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "levels traced concurrently, 0 for GOMAXPROCS")

	f.IntVar(&cfg.MaxZoom, "max-zoom", cfg.MaxZoom, "deepest label zoom")
	f.Float64Var(&cfg.LabelSpacing, "label-spacing", cfg.LabelSpacing, "label spacing at max zoom in mercator units, 0 for default")
	f.IntVar(&cfg.Decimals, "decimals", cfg.Decimals, "label fraction digits, -1 for shortest")
	f.StringVar(&cfg.Locale, "locale", cfg.Locale, "BCP 47 locale of label numbers")
	f.StringVar(&cfg.Index, "index", cfg.Index, "label spatial index: kdtree or gridhash")

	f.IntVar(&cfg.ThinBase, "thin-base", cfg.ThinBase, "coarsest grid-point stride, a power of two")
	f.IntVar(&cfg.ThinMaxZoom, "thin-max-zoom", cfg.ThinMaxZoom, "deepest grid-point zoom")
	f.Float64Var(&cfg.MarginR, "margin-r", cfg.MarginR, "mesh texture margin along i")
	f.Float64Var(&cfg.MarginS, "margin-s", cfg.MarginS, "mesh texture margin along j")

	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "bundle jobs run at once, 0 for all")
}
