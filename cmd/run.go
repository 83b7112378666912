package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/query-engine/internal/catalog"
	"github.com/kubev2v/query-engine/internal/config"
	"github.com/kubev2v/query-engine/internal/handlers"
	"github.com/kubev2v/query-engine/internal/server"
	"github.com/kubev2v/query-engine/internal/services"
	"github.com/kubev2v/query-engine/internal/store"
	"github.com/kubev2v/query-engine/internal/store/migrations"
)

const (
	envPrefix       = "QUERY_ENGINE"
	shutdownTimeout = 10 * time.Second
)

// flagNames maps configuration fields to the flag setting them.
var flagNames = map[string]string{
	"Configuration.Server.HTTPPort":    "server-http-port",
	"Configuration.Server.ServerMode":  "server-mode",
	"Configuration.Database.Path":      "db-path",
	"Configuration.Log.Level":          "log-level",
	"Configuration.Log.Format":         "log-format",
	"Configuration.Query.DefaultLimit": "query-default-limit",
	"Configuration.Query.MaxLimit":     "query-max-limit",
}

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the records API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			viper.SetEnvPrefix(envPrefix)
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)

			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = zap.L().Sync() }()
			return run(cmd.Context(), cfg)
		},
	}

	registerFlags(runCmd, cfg)

	return runCmd
}

func registerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()

	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port the API listens on")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod (prod serves HTTPS with a self-signed certificate)")
	flags.StringVar(&cfg.Database.Path, "db-path", cfg.Database.Path, "Path of the DuckDB database file, :memory: for an in-memory database")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: console or json")
	flags.IntVar(&cfg.Query.DefaultLimit, "query-default-limit", cfg.Query.DefaultLimit, "Page size used when a listing sets no limit")
	flags.IntVar(&cfg.Query.MaxLimit, "query-max-limit", cfg.Query.MaxLimit, "Largest page size a listing may request")
}

func validateConfiguration(cfg *config.Configuration) error {
	err := cfg.Validate()
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var result *multierror.Error
	for _, fe := range verrs {
		name, ok := flagNames[fe.Namespace()]
		if !ok {
			name = fe.Namespace()
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		result = multierror.Append(result, fmt.Errorf("invalid %s %v: must satisfy %s", name, fe.Value(), rule))
	}
	return result.ErrorOrNil()
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Format

	return zc.Build()
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger := zap.S().Named("run")

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}

	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Errorw("failed to close store", "error", err)
		}
	}()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cat := catalog.New()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("invalid relation catalog: %w", err)
	}

	h := handlers.New(services.NewRecordService(st, cat, cfg.Query))
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	logger.Infow("server started", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode, "db", cfg.Database.Path, "tables", cat.Names())

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Stop(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
