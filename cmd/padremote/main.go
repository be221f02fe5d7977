// Package main starts the padremote server.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// flags holds command line overrides applied on top of the environment.
type flags struct {
	debug    bool
	logLevel string
	listen   string
	dryRun   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("padremote failed")
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "padremote",
		Short: "Phone touchpad for this computer",
		Long: `padremote serves a touchpad page to phones on the local network and
turns their touches into pointer movement, clicks, scrolling and keys.

Configuration comes from the environment and <DATA_DIR>/.env.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(f)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "Enable verbose debug logging")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	root.Flags().StringVar(&f.listen, "listen", "", "Listen address (env: LISTEN_ADDR)")
	root.Flags().BoolVar(&f.dryRun, "dry-run", false, "Log commands instead of injecting input")

	root.AddCommand(newProfilesCmd())
	return root
}

// setupLogging configures the global zerolog logger for console output.
func setupLogging(f *flags) {
	level, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if f.debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
