package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"planact/internal/config"
	"planact/normalization"
	"planact/pipeline"
	"planact/report"
	"planact/server"
	"planact/table"
)

type runOptions struct {
	files map[pipeline.Role]*string

	out          string
	crossTabOut  string
	signoffOut   string
	orderBookOut string
	linesOut     string
	preview      int
	envFile      string
	verbose      bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{files: make(map[pipeline.Role]*string)}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the plan vs actuals report from the five input files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	for _, role := range pipeline.Roles() {
		name := strings.ReplaceAll(string(role), "_", "-")
		opts.files[role] = flags.String(name, "", role.Label()+" file (xlsx, csv or html)")
		_ = cmd.MarkFlagRequired(name)
	}
	flags.StringVar(&opts.out, "out", report.DefaultFileName, "Final report workbook")
	flags.StringVar(&opts.crossTabOut, "crosstab-out", "", "Schedule by date cross-tab workbook (optional)")
	flags.StringVar(&opts.signoffOut, "signoff-out", "", "Sign-off reconciliation workbook (optional)")
	flags.StringVar(&opts.orderBookOut, "orderbook-out", "", "Order book with product mapping workbook (optional)")
	flags.StringVar(&opts.linesOut, "orderbook-lines-out", "", "Order book lines with derived progress metrics workbook (optional)")
	flags.IntVar(&opts.preview, "preview", 5, "Rows of the final report to print, 0 to disable")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Optional environment file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every stage as JSON to stderr")

	return cmd
}

func runReport(ctx context.Context, stdout, stderr io.Writer, opts runOptions) error {
	cfg, err := config.LoadConfig(opts.envFile)
	if err != nil {
		return err
	}

	level := cfg.SlogLevel()
	if !opts.verbose && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := server.NewLogger(stderr, level, "text")

	inputs := make(pipeline.Inputs, len(opts.files))
	for _, role := range pipeline.Roles() {
		path := *opts.files[role]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", role.Label(), err)
		}
		inputs.Add(role, filepath.Base(path), data)
	}

	p := pipeline.New(pipeline.Options{
		Normalization: normalization.Options{
			TeamLabel:        cfg.TeamLabel,
			PlanFixedColumns: cfg.PlanFixedColumns,
		},
		Logger:   logger,
		Observer: stagePrinter{w: stderr},
	})
	res, err := p.Run(ctx, inputs)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	xopts := report.Options{SheetName: cfg.ReportSheetName}
	exports := []struct {
		path string
		t    *table.Table
	}{
		{opts.out, res.Final},
		{opts.crossTabOut, res.CrossTab().Table()},
		{opts.signoffOut, res.Signoff.Table},
		{opts.orderBookOut, res.OrderBookMapping},
		{opts.linesOut, res.OrderBook.LinesTable()},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := writeWorkbook(e.path, e.t, xopts); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote %s (%d rows)\n", e.path, e.t.Len())
	}

	if opts.preview > 0 {
		printPreview(stdout, res.Final.Head(opts.preview))
	}
	return nil
}

func writeWorkbook(path string, t *table.Table, opts report.Options) error {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, t, opts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printPreview(w io.Writer, t *table.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	for i := 0; i < t.Len(); i++ {
		vals := t.Row(i).Values()
		cells := make([]string, len(vals))
		for j, v := range vals {
			cells[j] = v.Text()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// stagePrinter reports pipeline progress on the terminal.
type stagePrinter struct {
	w io.Writer
}

func (p stagePrinter) StageStarted(context.Context, string, string) {}

func (p stagePrinter) StageFinished(_ context.Context, ev pipeline.StageEvent) {
	if ev.Err != nil {
		fmt.Fprintf(p.w, "%-28s failed after %s\n", ev.Stage, ev.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(p.w, "%-28s %6d rows  %s\n", ev.Stage, ev.Rows, ev.Duration.Round(time.Millisecond))
}
