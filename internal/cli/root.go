// Package cli holds the cobra commands of the pinboard binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iliyamo/skate-pins/internal/config"
)

// defaultLogFileAnnotation on a command names the log file used when
// --log-file is not given.
const defaultLogFileAnnotation = "pinboard/default-log-file"

type rootOptions struct {
	verbose bool
	logFile string
	logger  *zap.Logger
}

// NewRootCmd builds the pinboard command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pinboard",
		Short: "Drop skate spots on a map and keep them in the pin API",
		Long: `pinboard is the terminal client of the pin API.

Run "pinboard board" to open the map.  The store is configured through
PINS_API_URL and PINS_API_KEY (a .env file in the working directory is read
too); without them the board runs locally and nothing is saved.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("read .env: %w", err)
			}
			if opts.logFile == "" {
				opts.logFile = cmd.Annotations[defaultLogFileAnnotation]
			}
			logger, err := opts.buildLogger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	cmd.AddCommand(newBoardCmd(opts), newKeygenCmd(), newPinsCmd(opts))
	return cmd
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if o.logFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.logFile), 0o755); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{o.logFile}
		cfg.ErrorOutputPaths = []string{o.logFile}
	}
	return cfg.Build()
}
