package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/house-price-estimator/internal/backend"
	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/config"
	"github.com/octobees/house-price-estimator/internal/logger"
	"github.com/octobees/house-price-estimator/internal/prompt"
)

// env holds what every subcommand needs once the root flags are parsed.
type env struct {
	baseURL  string
	timeout  time.Duration
	logLevel string
	price    config.PriceFormat

	client *backend.Client
	logger *zap.Logger
	driver prompt.Driver
	isTTY  func() bool
}

func Execute() error {
	e, err := newEnv(config.Load)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	e.driver = prompt.NewSurveyDriver()
	e.isTTY = stdinIsTerminal

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = newRootCmd(e).ExecuteContext(ctx)
	var shown reportedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// newEnv seeds the flag defaults from the environment. A broken environment
// is an error rather than a silent fallback to local defaults.
func newEnv(load func() (*config.Config, error)) (*env, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &env{
		baseURL: cfg.PredictorBaseURL,
		timeout: cfg.PredictorTimeout,
		price:   cfg.Price,
	}, nil
}

// reportedError marks a failure the command already printed.
type reportedError struct{ error }

func (r reportedError) Unwrap() error { return r.error }

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "estimate",
		Short:         "House price estimates from the prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.New(e.logLevel, "console")
			if err != nil {
				return err
			}
			e.logger = l
			client, err := backend.NewClient(&http.Client{Timeout: e.timeout}, e.baseURL)
			if err != nil {
				return err
			}
			e.client = client
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.baseURL, "base-url", e.baseURL, "prediction service base URL")
	root.PersistentFlags().DurationVar(&e.timeout, "timeout", e.timeout, "request timeout (0 = none)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(locationsCmd(e), predictCmd(e))
	return root
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func catalogError(avail catalog.Availability) error {
	if err := avail.Err(); err != nil {
		return reportedError{err}
	}
	return reportedError{errors.New(avail.Hint())}
}
