package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cimtab/internal/pipeline"
)

// ClassesOptions holds flags for the classes command.
type ClassesOptions struct {
	*RootOptions
	RunFlags
}

// NewClassesCommand creates the classes command.
func NewClassesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classes <input>",
		Short: "List the classes of an EQ document",
		Long: `List every class found in an EQ document with its object count, in
document order. References are not resolved.

Example:
  cimtab classes grid_EQ.zip
  cimtab classes grid_EQ.zip --member grid_EQ_v2.xml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(opts, args[0], cmd)
		},
	}

	addMemberFlag(cmd, &opts.RunFlags)

	return cmd
}

func runClasses(opts *ClassesOptions, input string, cmd *cobra.Command) error {
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

	counts, diags, err := pipeline.Classes(ctx, pipeline.Options{
		Input:  input,
		Config: cfg,
		Logger: newLogger(cmd.ErrOrStderr(), opts.Verbose),
	})
	if err != nil {
		return formatter.Fail(errorCode(err, ErrCodeGeneric), "listing classes failed", err)
	}
	if counts == nil {
		counts = []pipeline.ClassCount{}
	}

	if opts.Format == "json" {
		return formatter.Success(counts)
	}

	w := cmd.OutOrStdout()
	for _, c := range counts {
		fmt.Fprintf(w, "%-32s %d\n", c.Class, c.Objects)
	}
	if n := diags.Len(); n > 0 {
		formatter.VerboseLog("%d element(s) skipped or repeated while reading", n)
	}
	return nil
}
