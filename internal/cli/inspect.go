package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/pipeline"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	RunFlags
}

// TableStats describes one class in inspect output.
type TableStats struct {
	Class           string   `json:"class"`
	Rows            int      `json:"rows"`
	EnrichedColumns int      `json:"enriched_columns"`
	CleanColumns    int      `json:"clean_columns"`
	Header          []string `json:"header,omitempty"`
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Input       string       `json:"input"`
	Member      string       `json:"member,omitempty"`
	Objects     int          `json:"objects"`
	Classes     []TableStats `json:"classes"`
	Diagnostics diag.Summary `json:"diagnostics"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Resolve an EQ document and report tables without writing",
		Long: `Parse and resolve an EQ document in memory and print, per class, the
row count and the number of enriched and clean columns, followed by the
diagnostics. Nothing is written.

With --verbose the enriched header of every class is listed.

Example:
  cimtab inspect grid_EQ.zip
  cimtab inspect grid_EQ.xml --max-depth 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	addResolveFlags(cmd, &opts.RunFlags)

	return cmd
}

func runInspect(opts *InspectOptions, input string, cmd *cobra.Command) error {
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

	model, err := pipeline.Load(ctx, pipeline.Options{
		Input:  input,
		Config: cfg,
		Logger: newLogger(cmd.ErrOrStderr(), opts.Verbose),
	})
	if err != nil {
		return formatter.Fail(errorCode(err, ErrCodeGeneric), "inspection failed", err)
	}

	result := InspectResult{
		Input:       model.Input,
		Member:      model.Member,
		Objects:     len(model.Objects),
		Classes:     make([]TableStats, 0, len(model.Tables)),
		Diagnostics: model.Diags.Summarize(diag.DefaultSampleSize),
	}
	for _, ct := range model.Tables {
		stats := TableStats{
			Class:           ct.Class,
			Rows:            ct.Enriched.Len(),
			EnrichedColumns: len(ct.Enriched.Header),
			CleanColumns:    len(ct.Clean.Header),
		}
		if opts.Verbose {
			stats.Header = ct.Enriched.Header
		}
		result.Classes = append(result.Classes, stats)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %d object(s), %d class(es)\n", result.Input, result.Objects, len(result.Classes))
	fmt.Fprintf(w, "  %-32s %8s %9s %6s\n", "CLASS", "ROWS", "ENRICHED", "CLEAN")
	for _, c := range result.Classes {
		fmt.Fprintf(w, "  %-32s %8d %9d %6d\n", c.Class, c.Rows, c.EnrichedColumns, c.CleanColumns)
		if len(c.Header) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(c.Header, ", "))
		}
	}
	printSummary(w, result.Diagnostics)
	return nil
}
