// Package cli implements the pentasign command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "loglevel"
	flagLogFormat = "logformat"
)

// Option configures the command tree.
type Option func(*app)

// WithPrompter replaces the terminal identity prompt.
func WithPrompter(p IdentityPrompter) Option {
	return func(a *app) { a.prompter = p }
}

type app struct {
	v        *viper.Viper
	logger   *slog.Logger
	prompter IdentityPrompter
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := New().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// New builds the pentasign command tree.
func New(opts ...Option) *cobra.Command {
	a := &app{
		v:        viper.New(),
		logger:   slog.Default(),
		prompter: NewTerminalPrompter(),
	}
	for _, opt := range opts {
		opt(a)
	}

	cmd := &cobra.Command{
		Use:   "pentasign [sub-command]",
		Short: "Sign documents with ephemeral keys and visual fingerprints",
		Long: `pentasign signs a document's SHA-256 digest together with a signer
identity (SOFI) using a freshly generated key pair, and renders the digest
as a pentagon pattern that humans can compare at a glance.

The private key never leaves the process and is discarded after signing.
A bundle therefore proves integrity and binding, not who held the key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: a.preRun,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(flagConfig, "", "path to a YAML configuration file")
	cmd.PersistentFlags().String(flagLogLevel, "warn", "set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringP(flagLogFormat, "f", "text", "set the log format (text, json)")

	cmd.AddCommand(
		a.newSignCommand(),
		a.newVerifyCommand(),
		a.newPatternCommand(),
		a.newSchemaCommand(),
		a.newLedgerCommand(),
		a.newServeCommand(),
	)
	return cmd
}

func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString(flagLogLevel), a.v.GetString(flagLogFormat))
	if err != nil {
		return err
	}
	a.logger = logger

	if file := a.v.ConfigFileUsed(); file != "" {
		a.logger.Debug("configuration loaded", "file", file)
	}
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
