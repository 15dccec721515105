package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contentcore/internal/cache"
	"contentcore/internal/config"
	"contentcore/internal/content"
	"contentcore/internal/gentext"
	"contentcore/internal/media"
)

// app holds the dependencies commands share. Everything is built lazily in
// setup so flag parsing and help never touch the database.
type app struct {
	cfgPath string
	verbose bool

	cfg     *config.Config
	logger  *zap.SugaredLogger
	svc     *content.Service
	tracker *cache.Tracker
	media   media.Store
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zap.InfoLevel
	if a.verbose || cfg.Logging.Verbose {
		level = zap.DebugLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger.Sugar()

	a.tracker = cache.NewTracker()
	engine := content.NewDefaultRulesEngine()
	store, skipped, err := content.OpenPersistentStore(cmd.Context(), engine, content.StorageOptions{
		Driver:      cfg.Storage.Driver,
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
		Invalidator: a.tracker,
	})
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	for _, bucket := range skipped {
		a.logger.Warnw("skipped malformed snapshot bucket", "bucket", bucket)
	}

	a.svc = content.NewService(store,
		content.WithLogger(zapAdapter{a.logger}),
		content.WithMetricsRecorder(content.NewExpvarMetricsRecorder("")),
	)
	return nil
}

func (a *app) teardown() {
	if a.svc != nil {
		if err := a.svc.Close(); err != nil && a.logger != nil {
			a.logger.Warnw("close content store", "error", err)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// mediaStore builds the asset store on first use; most commands never need
// it.
func (a *app) mediaStore(ctx context.Context) (media.Store, error) {
	if a.media != nil {
		return a.media, nil
	}
	store, err := media.Open(ctx, media.Options{
		Driver: media.Driver(a.cfg.Media.Driver),
		FSRoot: a.cfg.Media.FSRoot,
		S3: media.S3Config{
			Bucket:    a.cfg.Media.S3Bucket,
			Region:    a.cfg.Media.S3Region,
			Endpoint:  a.cfg.Media.S3Endpoint,
			PathStyle: a.cfg.Media.S3PathStyle,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open media store: %w", err)
	}
	a.media = store
	return store, nil
}

func (a *app) generator(ctx context.Context) (gentext.Generator, error) {
	if a.cfg.Gentext.APIKey == "" {
		return gentext.NewTemplateGenerator(), nil
	}
	return gentext.NewGeminiGenerator(ctx, a.cfg.Gentext.APIKey, a.cfg.Gentext.Model)
}

// zapAdapter bridges the service's Logger interface onto zap.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (z zapAdapter) Debug(msg string, kv ...any) { z.sugar.Debugw(msg, kv...) }
func (z zapAdapter) Info(msg string, kv ...any)  { z.sugar.Infow(msg, kv...) }
func (z zapAdapter) Warn(msg string, kv ...any)  { z.sugar.Warnw(msg, kv...) }
func (z zapAdapter) Error(msg string, kv ...any) { z.sugar.Errorw(msg, kv...) }

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "contentcore",
		Short:         "Manage portfolio content collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default contentcore.yaml in the working directory)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newAddCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newPageCommand(a),
		newSubscribeCommand(a),
		newUnsubscribeCommand(a),
		newImportCommand(a),
		newExportCommand(a),
		newDescribeCommand(a),
		newMediaCommand(a),
		newLoginCommand(a),
	)
	return root
}
