package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/injuries/internal/api"
	"github.com/ougirez/injuries/internal/pkg/config"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/service/fetcher"
	"github.com/ougirez/injuries/internal/service/loader"
	"github.com/ougirez/injuries/internal/service/pipeline"
	"github.com/spf13/viper"
)

func main() {
	mode := flag.String("mode", "run", "mode: clean, run, serve or fetch")
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(viper.New(), *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithFields(ctx, "mode", *mode)

	switch *mode {
	case "clean":
		err = runClean(ctx, cfg)
	case "run":
		err = runPipeline(ctx, cfg)
	case "serve":
		err = serve(ctx, cfg)
	case "fetch":
		err = fetch(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q, expected clean, run, serve or fetch", *mode)
	}
	if err != nil {
		logger.Error(ctx, "finished with error", "error", err.Error())
		logger.Sync()
		os.Exit(1)
	}
}

func newPipeline(cfg *config.Config) *pipeline.Service {
	return pipeline.NewPipelineService(cfg, loader.NewCache(loader.NewLoader()))
}

func runClean(ctx context.Context, cfg *config.Config) error {
	p, err := newPipeline(cfg).Clean(ctx)
	if err != nil {
		return fmt.Errorf("pipeline.Clean: %w", err)
	}
	return pipeline.WriteCleaned(ctx, cfg.Output.Dir, p)
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	p, err := newPipeline(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline.Run: %w", err)
	}
	return pipeline.WriteProducts(ctx, cfg.Output.Dir, p, cfg.Industry.MinEmployees)
}

func serve(ctx context.Context, cfg *config.Config) error {
	p, err := newPipeline(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline.Run: %w", err)
	}

	st := store.NewStore()
	if err := st.Put(ctx, p.Snapshot()); err != nil {
		return fmt.Errorf("store.Put: %w", err)
	}

	svc, err := api.NewAPIService(st, cfg)
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	go svc.Serve(cfg.HTTP.Addr)
	logger.Infof(ctx, "serving on %s", cfg.HTTP.Addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return svc.Shutdown(shutdownCtx)
}

func fetch(ctx context.Context, cfg *config.Config) error {
	client := &http.Client{Timeout: 5 * time.Minute}
	written, err := fetcher.NewFetcherService(client, cfg.Fetch.Retries).
		Fetch(ctx, cfg.Fetch.PageURL, cfg.TrackedYears(), cfg.Data.Dir, cfg.Data.FilePattern)
	if err != nil {
		return fmt.Errorf("fetcher.Fetch: %w", err)
	}

	logger.Infof(ctx, "fetched %d of %d years", len(written), len(cfg.TrackedYears()))
	return nil
}
