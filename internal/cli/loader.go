package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cimtab/internal/config"
)

// RunFlags are the configuration keys that can be set on the command line.
// A flag only overrides the config file when the user set it explicitly.
type RunFlags struct {
	Out            string
	EnrichedDir    string
	EnrichedFormat string
	CleanDir       string
	CleanFormat    string
	MaxDepth       int
	Workers        int
	Member         string
	DropEnrichment bool
	NoManifest     bool
}

// flagBinding ties a flag name to the config key it overrides.
type flagBinding struct {
	name  string
	apply func(cfg *config.Config, f *RunFlags)
}

var flagBindings = []flagBinding{
	{"out", func(cfg *config.Config, f *RunFlags) { cfg.Out = f.Out }},
	{"enriched-dir", func(cfg *config.Config, f *RunFlags) { cfg.Enriched.Dir = f.EnrichedDir }},
	{"enriched-format", func(cfg *config.Config, f *RunFlags) { cfg.Enriched.Format = f.EnrichedFormat }},
	{"clean-dir", func(cfg *config.Config, f *RunFlags) { cfg.Clean.Dir = f.CleanDir }},
	{"clean-format", func(cfg *config.Config, f *RunFlags) { cfg.Clean.Format = f.CleanFormat }},
	{"max-depth", func(cfg *config.Config, f *RunFlags) { cfg.MaxDepth = f.MaxDepth }},
	{"workers", func(cfg *config.Config, f *RunFlags) { cfg.Workers = f.Workers }},
	{"member", func(cfg *config.Config, f *RunFlags) { cfg.Member = f.Member }},
	{"drop-enrichment", func(cfg *config.Config, f *RunFlags) { cfg.Clean.DropEnrichment = f.DropEnrichment }},
	{"no-manifest", func(cfg *config.Config, f *RunFlags) { cfg.Manifest = !f.NoManifest }},
}

// addResolveFlags registers the flags shared by every command that resolves references.
func addResolveFlags(cmd *cobra.Command, f *RunFlags) {
	defaults := config.Default()
	cmd.Flags().IntVar(&f.MaxDepth, "max-depth", defaults.MaxDepth, "maximum reference hops to follow (0 disables enrichment)")
	cmd.Flags().IntVar(&f.Workers, "workers", defaults.Workers, "goroutines resolving references")
	addMemberFlag(cmd, f)
}

// addMemberFlag registers --member.
func addMemberFlag(cmd *cobra.Command, f *RunFlags) {
	cmd.Flags().StringVar(&f.Member, "member", "", "ZIP member to read (default: first .xml member)")
}

// addOutputFlags registers the flags that control where tables are written.
func addOutputFlags(cmd *cobra.Command, f *RunFlags) {
	defaults := config.Default()
	cmd.Flags().StringVarP(&f.Out, "out", "o", defaults.Out, "output root directory")
	cmd.Flags().StringVar(&f.EnrichedDir, "enriched-dir", defaults.Enriched.Dir, "enriched view directory, relative to --out")
	cmd.Flags().StringVar(&f.EnrichedFormat, "enriched-format", defaults.Enriched.Format, "enriched view format (csv|xlsx|sqlite)")
	cmd.Flags().StringVar(&f.CleanDir, "clean-dir", defaults.Clean.Dir, "clean view directory, relative to --out")
	cmd.Flags().StringVar(&f.CleanFormat, "clean-format", defaults.Clean.Format, "clean view format (csv|xlsx|sqlite)")
	cmd.Flags().BoolVar(&f.DropEnrichment, "drop-enrichment", false, "remove enrichment columns from the clean view")
	cmd.Flags().BoolVar(&f.NoManifest, "no-manifest", false, "do not write manifest.json")
}

// LoadConfig builds the run configuration: defaults, then the --config
// file, then every flag of cmd the user changed. The result is validated.
func LoadConfig(cmd *cobra.Command, rootOpts *RootOptions, f *RunFlags) (*config.Config, error) {
	cfg, err := config.Load(rootOpts.Config)
	if err != nil {
		return nil, err
	}

	for _, b := range flagBindings {
		if fl := cmd.Flags().Lookup(b.name); fl != nil && fl.Changed {
			b.apply(cfg, f)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
