// internal/app/resources.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/database"
	apperrors "childcare-assistant/internal/common/errors"
	commonhttp "childcare-assistant/internal/common/http"
	"childcare-assistant/internal/common/llm"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/observability"
	"childcare-assistant/pkg/registry"
)

const pingTimeout = 5 * time.Second

// Resources owns everything shared between requests: connection pools,
// model clients and the compiled schema registry. Open it once per process
// and Close it on shutdown.
type Resources struct {
	Config    *config.Config
	Logger    logger.Logger
	Postgres  *database.PostgresClient
	Redis     *database.RedisClient         // nil when the embedding cache is off
	Search    *database.ElasticsearchClient // nil unless the provider index is used
	Embedder  *llm.OpenAI
	Completer llm.Completer
	Registry  *registry.Registry
	Obs       *observability.Observability
}

// Open connects to every backend the configuration asks for. Postgres is
// required; Redis is optional and only disables the embedding cache when it
// cannot be reached.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *Resources, err error) {
	res := &Resources{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = res.Close()
		}
	}()

	res.Registry, err = registry.Load(cfg.Assistant.SchemaRegistryPath)
	if err != nil {
		var entryErr *registry.EntryError
		if errors.As(err, &entryErr) {
			return nil, apperrors.NewSchemaRegistryInvalidError(entryErr.Intent, err)
		}
		return nil, apperrors.NewConfigInvalidError(fmt.Sprintf("schema registry: %v", err))
	}

	res.Postgres, err = database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	if err = ping(ctx, res.Postgres.Ping); err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	log.Info("postgres connected", nil)

	if cfg.Database.Redis.Address != "" && cfg.Assistant.EmbeddingCacheTTL > 0 {
		rc, rerr := database.NewRedis(cfg.Database.Redis)
		if rerr == nil {
			rerr = ping(ctx, rc.Ping)
		}
		if rerr != nil {
			log.Warn("redis unavailable, embedding cache disabled", map[string]interface{}{"error": rerr})
			if rc != nil {
				_ = rc.Close()
			}
		} else {
			res.Redis = rc
			log.Info("redis connected", nil)
		}
	}

	if cfg.Assistant.ProvidersBackend == "elasticsearch" {
		if res.Search, err = OpenSearch(ctx, cfg); err != nil {
			return nil, err
		}
		log.Info("elasticsearch connected", nil)
	}

	httpClient := commonhttp.NewClient(config.GetDuration(cfg.APIs.OpenAI.Timeout))
	res.Embedder = llm.NewOpenAI(cfg.APIs.OpenAI, httpClient)
	res.Completer, err = llm.NewCompleter(ctx, cfg.APIs, httpClient)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	res.Obs, err = observability.New(cfg.App.Name, cfg.Tracing, nil)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	return res, nil
}

// OpenSearch connects to Elasticsearch on its own, for commands that only
// need the provider index.
func OpenSearch(ctx context.Context, cfg *config.Config) (*database.ElasticsearchClient, error) {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	if err := ping(ctx, es.Ping); err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	return es, nil
}

// Ready pings the required backends.
func (r *Resources) Ready(ctx context.Context) error {
	if err := ping(ctx, r.Postgres.Ping); err != nil {
		return err
	}
	if r.Search != nil {
		if err := ping(ctx, r.Search.Ping); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resources) Close() error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.Postgres != nil {
		errs = append(errs, r.Postgres.Close())
	}
	if r.Obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		r.Obs.Shutdown(ctx)
	}
	return errors.Join(errs...)
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
