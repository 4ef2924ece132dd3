package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/config"
	"github.com/Adda-Baaj/storefront-apitest/internal/logger"
	"github.com/Adda-Baaj/storefront-apitest/internal/storage"
	"github.com/Adda-Baaj/storefront-apitest/internal/suite"
	"github.com/Adda-Baaj/storefront-apitest/pkg/collections"
	"github.com/Adda-Baaj/storefront-apitest/pkg/httpclient"
	"github.com/Adda-Baaj/storefront-apitest/pkg/publishers"
	"github.com/google/uuid"
)

// Runner executes the collection suites against the configured API. It owns
// the shared HTTP client, the item ledger and the report publishers.
type Runner struct {
	cfg         *config.Config
	collections *collections.Registry
	env         *suite.Env
	fanout      *publishers.Fanout
	store       storage.Store
	interval    time.Duration
	log         logger.Logger
}

// NewRunner builds a runner from config.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	colReg := collections.Default()
	if cfg.CollectionsFile != "" {
		reg, err := collections.LoadRegistry(cfg.CollectionsFile)
		if err != nil {
			return nil, fmt.Errorf("load collections registry: %w", err)
		}
		colReg = reg
	}
	names := make([]string, 0)
	for _, c := range colReg.Enabled() {
		names = append(names, c.Name)
	}
	log.InfoObj("collections registry loaded", "collections_meta", map[string]any{
		"count":   len(names),
		"enabled": names,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	clientOpts := []httpclient.Option{httpclient.WithDebug(cfg.HTTPDebug)}
	if z, ok := log.(*logger.Zap); ok {
		clientOpts = append(clientOpts, httpclient.WithLogger(z.Sugar()))
	}

	return &Runner{
		cfg:         cfg,
		collections: colReg,
		env: &suite.Env{
			Client:  httpclient.NewRestyClient(cfg.RequestTimeout, clientOpts...),
			BaseURL: cfg.BaseURL,
			Tracker: store,
			Log:     log,
		},
		fanout:   fanout,
		store:    store,
		interval: cfg.RunInterval,
		log:      log,
	}, nil
}

// buildFanout loads the optional publishers file. Without one, reports are
// only logged.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run executes every enabled suite once, or repeatedly on the configured
// interval until ctx is cancelled. A single run returns an error when any case
// failed; repeated runs only log failures.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.env == nil {
		return fmt.Errorf("runner is not initialized")
	}
	defer r.close()

	cols := r.collections.Enabled()
	if len(cols) == 0 {
		return fmt.Errorf("no collections enabled")
	}

	r.log.InfoObj("apitest run starting", "runner_state", map[string]any{
		"base_url":          r.cfg.BaseURL,
		"collections_count": len(cols),
		"publishers_count":  r.fanout.Size(),
		"run_interval":      r.interval.String(),
	})

	err := r.runOnce(ctx, cols)
	if r.interval <= 0 {
		return err
	}
	if err != nil {
		r.log.ErrorObj("initial run failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("apitest loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, cols); err != nil {
				r.log.ErrorObj("scheduled run failed", "error", err.Error())
			}
		}
	}
}

// runOnce sweeps leftovers and runs each collection suite.
func (r *Runner) runOnce(ctx context.Context, cols []collections.Collection) error {
	runID := uuid.NewString()
	start := time.Now()
	r.log.InfoObj("run started", "run_meta", map[string]any{
		"run_id":            runID,
		"collections_count": len(cols),
		"started_at":        start.UTC(),
	})

	r.sweep(ctx)

	var errs []error
	for _, c := range cols {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := r.runCollection(ctx, runID, c); err != nil {
			errs = append(errs, err)
		}
	}

	r.log.InfoObj("run completed", "run_meta", map[string]any{
		"run_id":     runID,
		"failed":     len(errs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

func (r *Runner) runCollection(ctx context.Context, runID string, c collections.Collection) error {
	s, err := suite.ForCollection(c)
	if err != nil {
		return err
	}

	started := time.Now()
	results, err := suite.Execute(ctx, r.env, s, r.cfg.CaseTimeout)
	if err != nil {
		return fmt.Errorf("run %s suite: %w", c.Name, err)
	}

	evt := publishers.NewEvent(runID, c.Name, r.cfg.BaseURL, results, started)
	for _, res := range results {
		if res.Passed {
			continue
		}
		r.log.WarnObj("case failed", "case_result", res)
	}
	r.log.InfoObj("collection suite completed", "collection_result", map[string]any{
		"run_id":     runID,
		"collection": c.Name,
		"total":      evt.Total,
		"passed":     evt.Passed,
		"failed":     evt.Failed,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	r.publish(ctx, evt)

	if evt.Failed > 0 {
		return fmt.Errorf("%s: %d of %d cases failed", c.Name, evt.Failed, evt.Total)
	}
	return nil
}

// publish hands the report to every publisher. Delivery errors are logged only.
func (r *Runner) publish(ctx context.Context, evt publishers.Event) {
	if r.fanout.Size() == 0 {
		return
	}
	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.ErrorObj("report publish failed", "publish_error", map[string]any{
			"collection": evt.Collection,
			"delivered":  delivered,
			"error":      err.Error(),
		})
		return
	}
	r.log.DebugObj("report published", "publish_meta", map[string]any{
		"collection": evt.Collection,
		"delivered":  delivered,
	})
}

// close releases the ledger and publisher connections, logging any errors.
func (r *Runner) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}
