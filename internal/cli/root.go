// Package cli реализует команды burgerctl: разовые действия над тем же контейнером
// состояния, что обслуживает HTTP-сервер.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/api"
	"github.com/mmeshcher/stellar-burgers/internal/config"
	"github.com/mmeshcher/stellar-burgers/internal/service"
	"github.com/mmeshcher/stellar-burgers/internal/storage"
	"github.com/mmeshcher/stellar-burgers/internal/store"
)

// ValidFormats перечисляет допустимые форматы вывода.
var ValidFormats = []string{"text", "json"}

// RootOptions содержит глобальные флаги.
type RootOptions struct {
	APIURL      string
	Storage     string
	RedisAddr   string
	DatabaseURI string
	RetryMax    int
	Format      string
	Verbose     bool

	cfg *config.Config
}

// NewRootCommand создаёт корневую команду burgerctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "burgerctl",
		Short: "Stellar Burgers command line client",
		Long: `Command line client for Stellar Burgers.

Tokens are kept in the configured storage, so a login survives between
invocations with --storage redis or --storage postgres.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.APIURL, "api-url", "u", api.DefaultBaseURL, "Stellar Burgers API base URL")
	cmd.PersistentFlags().StringVarP(&opts.Storage, "storage", "s", config.StorageMemory, "token storage: memory, redis or postgres")
	cmd.PersistentFlags().StringVarP(&opts.RedisAddr, "redis", "r", "", "redis address")
	cmd.PersistentFlags().StringVarP(&opts.DatabaseURI, "database", "d", "", "database URI")
	cmd.PersistentFlags().IntVarP(&opts.RetryMax, "retry", "m", 0, "retries of failed API requests")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewIngredientsCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))
	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))

	return cmd
}

// config собирает конфигурацию из окружения; явно заданные флаги важнее.
func (o *RootOptions) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = o.APIURL
	}
	if flags.Changed("storage") {
		cfg.Storage = o.Storage
	}
	if flags.Changed("redis") {
		cfg.RedisAddr = o.RedisAddr
	}
	if flags.Changed("database") {
		cfg.DatabaseURI = o.DatabaseURI
	}
	if flags.Changed("retry") {
		cfg.APIRetryMax = o.RetryMax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app хранит контейнер состояния, собранный для одной команды.
type app struct {
	root    *store.Root
	service *service.Service
	close   func()
}

func (o *RootOptions) open(ctx context.Context) (*app, error) {
	logger := zap.NewNop()
	if o.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		logger = l
	}

	creds, closeStorage, err := storage.Open(ctx, o.cfg)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(o.cfg.APIURL, creds,
		api.WithRetryMax(o.cfg.APIRetryMax),
		api.WithLogger(logger),
	)
	root := store.New(store.Deps{API: client, Credentials: creds, Logger: logger})

	return &app{
		root:    root,
		service: service.NewService(root, logger),
		close: func() {
			_ = logger.Sync()
			closeStorage()
		},
	}, nil
}

// print выводит v как JSON или, в текстовом режиме, через text.
func (o *RootOptions) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
