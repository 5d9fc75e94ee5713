// Package cli builds the articlegrip command tree
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"articlegrip/internal/config"
	"articlegrip/internal/logging"
)

var version = "dev"

// options are the persistent flags shared by every command
type options struct {
	verbose    bool
	configPath string
	sourceURL  string
	sourceKind string

	cfg *config.Config
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "articlegrip",
		Short:   "Browse paginated article listings in the terminal",
		Long:    "articlegrip pages through an article source with a live title filter, retrying failed pages on demand.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for init and version
			if cmd.Name() == "init" || cmd.Name() == "version" {
				return nil
			}
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts.cfg)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (.toml or .yaml)")
	root.PersistentFlags().StringVar(&opts.sourceURL, "source", "", "Source URL, {page} is replaced by the page number")
	root.PersistentFlags().StringVar(&opts.sourceKind, "kind", "", "Source kind: api, feed, html or archive")

	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newPageCmd(opts))
	root.AddCommand(newArchiveCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func (o *options) service() config.ConfigService {
	if o.configPath != "" {
		return config.NewConfigServiceAt(o.configPath)
	}
	return config.NewConfigService()
}

// load reads the config, applies flag overrides and starts logging
func (o *options) load() error {
	cfg, err := o.service().Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if o.sourceURL != "" {
		cfg.Source.URL = o.sourceURL
	}
	if o.sourceKind != "" {
		cfg.Source.Kind = o.sourceKind
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Log.Level
	if o.verbose {
		level = log.DebugLevel.String()
	}
	if err := logging.Init(cfg.Log.Path, level); err != nil {
		// logging is optional; the TUI owns the terminal so stay quiet
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	logging.Info("config loaded", "source", cfg.Source.Kind, "url", cfg.Source.URL)

	o.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "articlegrip", version)
		},
	}
}
