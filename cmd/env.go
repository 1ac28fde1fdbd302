package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/redscout/redscout-cli/internal/cluster"
	"github.com/redscout/redscout-cli/internal/queryparse"
	"github.com/redscout/redscout-cli/internal/research"
	"github.com/redscout/redscout-cli/internal/scheduler"
	"github.com/redscout/redscout-cli/internal/solutions"
	"github.com/redscout/redscout-cli/internal/store"
	"github.com/redscout/redscout-cli/pkg/llm"
	"github.com/redscout/redscout-cli/pkg/reddit"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "redscout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadCatalog loads the solution catalog from the configured path, falling
// back to the embedded copy.
func loadCatalog() (*solutions.Catalog, error) {
	if cfg.Research.CatalogPath != "" {
		return solutions.LoadCatalog(cfg.Research.CatalogPath)
	}
	return solutions.DefaultCatalog()
}

// initEngine builds the research engine and its collaborators from config.
// st may be nil for commands that do not persist runs.
func initEngine(st store.Store) (*research.Engine, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	parser, err := queryparse.New(tables)
	if err != nil {
		return nil, eris.Wrap(err, "init parser")
	}

	vocab, err := loadVocabulary()
	if err != nil {
		return nil, err
	}
	clusterer, err := cluster.New(vocab, cluster.Config{})
	if err != nil {
		return nil, eris.Wrap(err, "init clusterer")
	}

	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	discovery, err := solutions.NewDiscovery(catalog, nil)
	if err != nil {
		return nil, eris.Wrap(err, "init discovery")
	}

	client := reddit.NewClient(reddit.Options{
		BaseURL:           cfg.Reddit.BaseURL,
		UserAgent:         cfg.Reddit.UserAgent,
		Timeout:           time.Duration(cfg.Reddit.TimeoutSecs) * time.Second,
		Limiter:           rate.NewLimiter(rate.Limit(cfg.Reddit.RequestsPerSecond), 1),
		ResultsPerRequest: cfg.Reddit.ResultsPerRequest,
	})
	sched := scheduler.New(client.Search, scheduler.Config{
		TaskInterval: time.Duration(cfg.Research.TaskIntervalMs) * time.Millisecond,
	})

	var llmClient llm.Client
	if cfg.Anthropic.Key != "" {
		llmClient = llm.NewClient(cfg.Anthropic.Key)
	}

	return research.New(research.Options{
		Parser:          parser,
		Scheduler:       sched,
		Clusterer:       clusterer,
		Discovery:       discovery,
		Store:           st,
		LLM:             llmClient,
		SolutionWorkers: cfg.Research.SolutionWorkers,
	})
}

func loadTables() (*queryparse.Tables, error) {
	if cfg.Research.TablesPath != "" {
		return queryparse.LoadTables(cfg.Research.TablesPath)
	}
	return queryparse.DefaultTables()
}

func loadVocabulary() (*cluster.Vocabulary, error) {
	if cfg.Research.VocabularyPath != "" {
		return cluster.LoadVocabulary(cfg.Research.VocabularyPath)
	}
	return cluster.DefaultVocabulary()
}
