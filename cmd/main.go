package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	appconfig "github.com/fedutinova/docgen/internal/config"
	"github.com/fedutinova/docgen/internal/document"
	"github.com/fedutinova/docgen/internal/gpt"
	"github.com/fedutinova/docgen/internal/pdf"
	"github.com/fedutinova/docgen/internal/server"
	"github.com/fedutinova/docgen/internal/storage"
	httpapi "github.com/fedutinova/docgen/internal/transport/http"
)

func main() {
	cfg := appconfig.Load()
	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	slog.Info("starting docgen",
		"addr", cfg.HTTPAddr,
		"model", cfg.OpenAIModel,
		"prompt_variant", cfg.PromptVariant,
		"font", cfg.FontPath)

	scratch, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		slog.Error("failed to initialize scratch storage", "err", err)
		os.Exit(1)
	}

	renderer := pdf.NewRenderer(pdf.Options{
		FontPath:   cfg.FontPath,
		FontFamily: cfg.FontFamily,
		FontSize:   cfg.FontSize,
		Compress:   cfg.PDFCompress,
		Verify:     cfg.PDFVerify,
	})
	// requests fail with a render error until the font shows up
	if err := renderer.CheckFont(); err != nil {
		slog.Warn("font not available, document rendering will fail", "err", err)
	}

	gptClient := gpt.NewClient(gpt.Options{
		APIKey:        cfg.OpenAIAPIKey,
		BaseURL:       cfg.OpenAIBaseURL,
		Model:         cfg.OpenAIModel,
		MaxTokens:     cfg.OpenAIMaxTokens,
		PromptVariant: cfg.PromptVariant,
	})

	generator := document.NewGenerator(gptClient, renderer, scratch, document.Options{
		Header:   cfg.DocumentHeader,
		Filename: cfg.DownloadFilename,
	})

	handlers := &httpapi.Handlers{
		Generator: generator,
		Font:      renderer,
		Scratch:   scratch,
		Config:    cfg,
	}
	r := server.NewRouter(handlers)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shCancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg appconfig.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
