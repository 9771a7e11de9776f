package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/config"
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/rootlocus22/trucktax-app-sub002/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every command.
type app struct {
	envFile  string
	feesFile string
	logLevel string
	logJSON  bool

	parser *config.InputParser
	fees   domain.FeeSchedule
	logger *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{parser: config.NewInputParser()}

	root := &cobra.Command{
		Use:           "hvut",
		Short:         "Price IRS Form 2290 heavy vehicle use tax filings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags().Changed("env-file"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "file of KEY=value settings such as STRIPE_SECRET_KEY")
	root.PersistentFlags().StringVar(&a.feesFile, "fees", "", "fee schedule YAML file (defaults to the built-in schedule)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", logging.DefaultConfig().Level, "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newQuoteCmd(a),
		newTaxCmd(),
		newRatesCmd(),
		newDueDateCmd(),
		newFeesCmd(a),
		newCheckoutCmd(a),
	)
	return root
}

func (a *app) setup(envFileRequired bool) error {
	// existing environment variables win over the file
	if err := godotenv.Load(a.envFile); err != nil {
		if envFileRequired || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	logger, err := logging.NewSugared(logging.Config{Level: a.logLevel, EnableJSON: a.logJSON})
	if err != nil {
		return err
	}
	a.logger = logger

	a.fees = calculation.DefaultFeeSchedule()
	if a.feesFile != "" {
		fees, err := a.parser.LoadFeeSchedule(a.feesFile)
		if err != nil {
			return err
		}
		a.fees = *fees
		a.logger.Debugf("loaded fee schedule from %s", a.feesFile)
	}
	return nil
}

func (a *app) engine() *calculation.Engine {
	e := calculation.NewEngine(a.fees)
	e.SetLogger(a.logger)
	return e
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
