package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/internal/config"
	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/httpapi"
	"github.com/goliatone/go-docwizard/pkg/preview"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("load configuration")
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	store, err := catalog.LoadFile(ctx, cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"catalog": cfg.CatalogPath, "documents": store.Len()}).Info("catalog loaded")
	if err := store.Validate(); err != nil {
		logger.WithError(err).Warn("catalog has invalid documents")
	}

	var dict dictionary.Provider = dictionary.Default()
	if cfg.DictionaryPath != "" {
		loaded, err := dictionary.LoadFS(os.DirFS(filepath.Dir(cfg.DictionaryPath)), filepath.Base(cfg.DictionaryPath))
		if err != nil {
			return err
		}
		dict = loaded
	}

	previewOpts := []preview.Option{preview.WithDictionary(dict)}
	if cfg.TemplateDir != "" {
		previewOpts = append(previewOpts, preview.WithBaseDir(cfg.TemplateDir))
	}
	engine, err := preview.New(previewOpts...)
	if err != nil {
		return err
	}

	srv, err := httpapi.New(store,
		httpapi.WithLogger(logger),
		httpapi.WithPolicy(cfg.ValidationPolicy()),
		httpapi.WithDictionary(dict),
		httpapi.WithPreview(engine),
		httpapi.WithSessionLimits(cfg.SessionMaxAge, cfg.SessionIdle, cfg.CleanupPeriod),
	)
	if err != nil {
		return err
	}

	logger.WithField("addr", cfg.Addr).Info("listening")
	return srv.Run(ctx, cfg.Addr)
}
