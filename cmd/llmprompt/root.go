package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nulzo/llmprompt/internal/cli"
	"github.com/nulzo/llmprompt/internal/config"
	"github.com/nulzo/llmprompt/internal/gateway"
	"github.com/nulzo/llmprompt/internal/llm"
	"github.com/nulzo/llmprompt/internal/platform/logger"
	"github.com/nulzo/llmprompt/internal/platform/otel"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitFailure        = 1
	exitUnknownVersion = 2
	exitCredential     = 3
	exitProvider       = 4
)

type options struct {
	version    string
	list       bool
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "llmprompt [flags] <prompt_text>",
		Short: "Send a prompt to a hosted LLM and print the completion",
		Long: "llmprompt sends a single prompt to an OpenAI GPT model or an Anthropic Claude model on AWS Bedrock\n" +
			"and prints the completion. GPT models need OPENAI_API_KEY; Claude models use the AWS credential chain.",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.version, "version", "v", "", fmt.Sprintf("model version key (default %q, see --list)", config.DefaultVersion))
	flags.BoolVarP(&opts.list, "list", "l", false, "list available model versions and exit")
	flags.StringVar(&opts.configFile, "config", "", "config file path (default ./llmprompt.yaml)")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	return cmd
}

func runPrompt(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       level,
		Format:      cfg.Log.Format,
		EnableColor: logger.ShouldEnableColor(),
	})
	log := logger.Get()
	defer logger.Sync()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer("llmprompt", version, log, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	registry := gateway.NewRegistry(cfg, log)

	if opts.list {
		for _, key := range registry.ListAvailable() {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	}

	key := opts.version
	if key == "" {
		key = cfg.DefaultVersion
	}

	log.Debug("dispatching prompt",
		zap.String("version", key),
		zap.String("build", version),
		zap.String("commit", commit),
	)

	text, err := gateway.NewDispatcher(registry, cmd.OutOrStdout(), log).Invoke(ctx, key, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// run executes the root command and maps the outcome to a process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		kind, code := classify(err)
		fmt.Fprintf(stderr, "%s %s: %v\n", cli.CrossMark(), kind, err)
		return code
	}
	return 0
}

func classify(err error) (string, int) {
	var (
		unknownErr    *llm.UnknownVersionError
		credentialErr *llm.CredentialError
		providerErr   *llm.ProviderError
	)
	switch {
	case errors.As(err, &unknownErr):
		return "unknown version", exitUnknownVersion
	case errors.As(err, &credentialErr):
		return "missing credential", exitCredential
	case errors.As(err, &providerErr):
		return "provider error", exitProvider
	default:
		return "error", exitFailure
	}
}
