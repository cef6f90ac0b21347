package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/internal/translate"
	anthropicpkg "github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/apollo"
	"github.com/sells-group/prospect-cli/pkg/hunter"
)

// pipelineEnv holds the initialized store and pipeline needed by the
// search/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "prospect.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, provider clients, and the pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	// Primary provider is optional. When no key is set the pipeline routes
	// everything through the fallback provider.
	var primary apollo.Client
	if cfg.Apollo.Key != "" {
		primary = apollo.NewClient(cfg.Apollo.Key, apollo.WithBaseURL(cfg.Apollo.BaseURL))
	} else {
		zap.L().Warn("PROSPECT_APOLLO_KEY not set, primary provider disabled")
	}

	var fallback hunter.Client
	if cfg.Hunter.Key != "" {
		fallback = hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithRateLimit(cfg.Hunter.RatePerSecond),
		)
	} else {
		zap.L().Warn("PROSPECT_HUNTER_KEY not set, fallback provider disabled")
	}

	// AI translation is optional. Without a key the translator always takes
	// the heuristic path.
	var aiClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Debug("PROSPECT_ANTHROPIC_KEY not set, filter translation uses heuristics only")
	}
	translator := translate.New(aiClient, cfg.Anthropic.Model)

	poll := apollo.PollPolicy{
		MaxAttempts: cfg.Poll.MaxAttempts,
		Interval:    time.Duration(cfg.Poll.IntervalMS) * time.Millisecond,
	}

	p := pipeline.New(primary, fallback, translator, poll)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
	}, nil
}
