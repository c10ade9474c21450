package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finplan/internal/config"
	"github.com/iwvelando/finplan/internal/server"
	"github.com/iwvelando/finplan/internal/telemetry"
	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	configPath     string
	outputOverride string
	logLevel       string

	conf   *config.Configuration
	logger *zap.Logger
	out    io.Writer
}

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "finplan",
		Short:         "Financial planning calculators: growth, retirement, tax and bond pricing",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVarP(&a.outputOverride, "output-format", "o", "", "type of output override: pretty, csv, json, yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newGrowthCmd(a),
		newPensionCmd(a),
		newTaxCmd(a),
		newBondCmd(a),
		newPlanCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration and logger shared by every subcommand.
func (a *app) setup() error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	if a.outputOverride != "" {
		conf.Output.Format = a.outputOverride
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				a.conf.Server.Address = address
			}
			serverConfig, err := server.NewConfig(a.conf.Server)
			if err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := telemetry.InitTracing(ctx, a.logger, a.conf.Telemetry, version)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					a.logger.Warn("failed to flush traces",
						zap.String("op", "main.serve"),
						zap.Error(err),
					)
				}
			}()

			handler := server.NewHandler(a.logger, serverConfig.BodySizeBytes(), version)
			return server.Run(ctx, a.logger, serverConfig, handler)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}
