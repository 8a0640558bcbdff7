package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/pipeline"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	RunFlags

	// RunIDs allows overriding the run identifier generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs pipeline.RunIDGenerator
}

// ConvertResult is the JSON payload of a successful conversion.
type ConvertResult struct {
	Manifest     pipeline.Manifest `json:"manifest"`
	ManifestPath string            `json:"manifest_path,omitempty"`
	Diagnostics  diag.Summary      `json:"diagnostics"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	return newConvertCommand(&ConvertOptions{RootOptions: rootOpts})
}

func newConvertCommand(opts *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert an EQ document into class tables",
		Long: `Convert a CIM EQ export (.xml, or a .zip containing one) into one
enriched and one clean table per class, plus a manifest.json describing
the run.

By default enriched tables are written as CSV to eq_enriched/ and clean
tables as XLSX workbooks to eq_clean/, both under --out.

Example:
  cimtab convert grid_EQ.zip
  cimtab convert grid_EQ.xml -o ./out --clean-format sqlite
  cimtab convert grid_EQ.zip --config cimtab.yaml --max-depth 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	addOutputFlags(cmd, &opts.RunFlags)
	addResolveFlags(cmd, &opts.RunFlags)

	return cmd
}

func runConvert(opts *ConvertOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(cmd, opts.RootOptions, &opts.RunFlags)
	if err != nil {
		return formatter.Fail(errorCode(err, ErrCodeConfig), "invalid configuration", err)
	}

	if _, err := os.Stat(input); err != nil {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("input not found: %s", input), err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	res, err := pipeline.Run(ctx, pipeline.Options{
		Input:  input,
		Config: cfg,
		Logger: newLogger(cmd.ErrOrStderr(), opts.Verbose),
		RunIDs: opts.RunIDs,
	})
	if err != nil {
		return formatter.Fail(errorCode(err, ErrCodeWriteFailed), "conversion failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ConvertResult{
			Manifest:     res.Manifest,
			ManifestPath: res.ManifestPath,
			Diagnostics:  res.Summary,
		})
	}

	w := cmd.OutOrStdout()
	m := res.Manifest
	fmt.Fprintf(w, "Converted %s (run %s)\n", m.Input, m.RunID)
	fmt.Fprintf(w, "  objects:  %d\n", m.Objects)
	fmt.Fprintf(w, "  classes:  %d\n", len(m.Classes))
	fmt.Fprintf(w, "  enriched: %s (%s)\n", cfg.EnrichedDir(), cfg.Enriched.Format)
	fmt.Fprintf(w, "  clean:    %s (%s)\n", cfg.CleanDir(), cfg.Clean.Format)
	if res.ManifestPath != "" {
		fmt.Fprintf(w, "  manifest: %s\n", res.ManifestPath)
	}
	for _, c := range m.Classes {
		formatter.VerboseLog("  %s: %d row(s) -> %s, %s", c.Class, c.Rows, c.Enriched, c.Clean)
	}
	printSummary(w, res.Summary)
	return nil
}

// printSummary writes the end-of-run diagnostics report.
func printSummary(w io.Writer, s diag.Summary) {
	if s.Empty() {
		fmt.Fprintln(w, "✓ No diagnostics")
		return
	}

	fmt.Fprintf(w, "Diagnostics: %d\n", s.Total)
	for _, k := range diag.Kinds {
		n := s.Counts[k]
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %d\n", k, n)
		for _, d := range s.Samples[k] {
			fmt.Fprintf(w, "    %s\n", d)
		}
		if more := n - len(s.Samples[k]); more > 0 {
			fmt.Fprintf(w, "    ... and %d more\n", more)
		}
	}
}

// signalContext returns the command's context, cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
