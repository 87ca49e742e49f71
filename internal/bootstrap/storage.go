package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
	"github.com/hyunhan-cho/LT-GDG/internal/storage"
)

const storageSetupTimeout = 10 * time.Second

// StorageComponents holds the configured result sinks.
type StorageComponents struct {
	Sinks   []pipeline.ResultSink
	History *storage.SQLStore
	Closers []io.Closer
}

// SetupStorage connects the result sinks. Elasticsearch is optional: when it
// cannot be reached the service runs without it. An enabled database that
// cannot be opened is an error.
func SetupStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*StorageComponents, error) {
	comps := &StorageComponents{}

	if es := cfg.Storage.Elasticsearch; es.Enabled {
		if sink := setupElasticsearch(ctx, es, log); sink != nil {
			comps.Sinks = append(comps.Sinks, sink)
		}
	}

	if db := cfg.Storage.Database; db.Enabled {
		log.Info("Connecting to result database", logger.String("driver", db.Driver))

		conn, err := storage.Open(db.Driver, db.DSN)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		store := storage.NewSQLStore(conn)

		migrateCtx, cancel := context.WithTimeout(ctx, storageSetupTimeout)
		defer cancel()
		if err = store.Migrate(migrateCtx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}

		comps.Sinks = append(comps.Sinks, store)
		comps.History = store
		comps.Closers = append(comps.Closers, conn)
		log.Info("Result database connected successfully")
	}

	return comps, nil
}

func setupElasticsearch(ctx context.Context, cfg config.ElasticsearchConfig, log logger.Logger) *storage.ElasticsearchSink {
	ctx, cancel := context.WithTimeout(ctx, storageSetupTimeout)
	defer cancel()

	client, err := storage.NewElasticsearchClient(ctx, storage.ElasticsearchConfig{
		URL:        cfg.URL,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		log.Warn("Failed to connect to Elasticsearch, turn index disabled", logger.Error(err))
		return nil
	}

	sink := storage.NewElasticsearchSink(client, cfg.Index, log)
	if err = sink.EnsureIndex(ctx); err != nil {
		log.Warn("Failed to ensure Elasticsearch index, turn index disabled",
			logger.String("index", cfg.Index),
			logger.Error(err),
		)
		return nil
	}

	log.Info("Elasticsearch connected successfully", logger.String("index", cfg.Index))
	return sink
}
