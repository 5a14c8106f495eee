package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waabox/catalogdeck/internal/app"
	"github.com/waabox/catalogdeck/internal/cli"
	"github.com/waabox/catalogdeck/internal/config"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/failure"
	"github.com/waabox/catalogdeck/internal/intercept"
	"github.com/waabox/catalogdeck/internal/logging"
	"github.com/waabox/catalogdeck/internal/session"
	"github.com/waabox/catalogdeck/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes.
const (
	ExitOK           = 0
	ExitGeneral      = 1
	ExitUsage        = 2
	ExitNetwork      = 3
	ExitUnauthorized = 4
	ExitForbidden    = 5
	ExitValidation   = 6
	ExitInterrupt    = 130
)

type flags struct {
	configPath string
	endpoint   string
	language   string
}

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var f flags
	env := cli.NewEnv(nil)
	var log *zap.Logger

	root := &cobra.Command{
		Use:     "catalogdeck",
		Short:   "Terminal admin client for the product catalog API",
		Long:    "Without a subcommand catalogdeck opens the interactive terminal UI.",
		Version: version,
		Args:    cobra.NoArgs,
		// Errors are printed once in main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			interactive := !cmd.HasParent()
			a, l, err := build(f, interactive)
			if err != nil {
				return err
			}
			env.App, env.ConfigPath, log = a, f.configPath, l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(env.App)
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", config.DefaultConfigPath(), "configuration file")
	root.PersistentFlags().StringVar(&f.endpoint, "endpoint", "", "GraphQL endpoint (overrides config)")
	root.PersistentFlags().StringVar(&f.language, "lang", "", "interface language: en or fr")

	root.AddCommand(
		cli.LoginCmd(env),
		cli.LogoutCmd(env),
		cli.WhoamiCmd(env),
		cli.RegisterCmd(env),
		cli.ProductsCmd(env),
		cli.ConfigCmd(env),
		cli.PingCmd(env),
	)

	err := root.ExecuteContext(ctx)
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		var reported *cli.ReportedError
		if !errors.As(err, &reported) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "catalogdeck:", err)
		}
		os.Exit(exitCode(err))
	}
}

// build loads configuration and wires the app. The interactive UI owns the
// terminal, so it logs to a file; subcommands log warnings to stderr.
func build(f flags, interactive bool) (*app.App, *zap.Logger, error) {
	cfg, err := config.LoadFrom(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
	}
	if f.language != "" {
		cfg.Language = f.language
	}

	level, logPath := cfg.LogLevelOrDefault(), cfg.LogFileOrDefault()
	if !interactive {
		level, logPath = "warn", ""
		if cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
	}
	log, err := logging.New(level, logPath)
	if err != nil {
		return nil, nil, err
	}

	store := session.NewFileStore(cfg.SessionFileOrDefault(), log)
	a := app.New(app.Options{
		Endpoint: cfg.EndpointOrDefault(),
		Timeout:  cfg.Timeout(),
		Language: cfg.LanguageOrDefault(),
		Store:    store,
		Log:      log,
	})
	log.Debug("started",
		zap.String("version", version),
		zap.String("endpoint", cfg.EndpointOrDefault()),
		zap.Bool("interactive", interactive),
	)
	return a, log, nil
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	if isCobraUsageError(err) {
		return ExitUsage
	}
	switch {
	case errors.Is(err, cli.ErrNotSignedIn), errors.Is(err, domain.ErrUnauthorized):
		return ExitUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return ExitForbidden
	case errors.Is(err, domain.ErrValidation):
		return ExitValidation
	}

	kind, ok := intercept.HandledKind(err)
	if !ok {
		kind = failure.Classify(err).Kind
	}
	if kind == failure.Network {
		return ExitNetwork
	}
	return ExitGeneral
}

// cobraUsageErrorPatterns are substrings of cobra's flag and argument errors,
// which are not typed.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

func isCobraUsageError(err error) bool {
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
