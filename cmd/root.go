package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Yates-Labs/gitmine/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gitmine",
	Short: "gitmine - Commit history miner",
	Long: `gitmine walks the history of a Git repository from HEAD and reports
one entry per commit, with authors, co-authors from Co-authored-by trailers,
and a per-file change summary with added/deleted line counts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.gitmine.yaml or ~/.gitmine.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
}

// loadConfig layers defaults, config file, environment and the flags of the
// command being run, then sets up logging
func loadConfig(cmd *cobra.Command, args []string) error {
	v := config.New(cfgFile)

	flagKeys := map[string]string{
		"include-merges": config.KeyIncludeMerges,
		"format":         config.KeyFormat,
		"log-level":      config.KeyLogLevel,
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
