// Package bootstrap builds the process-wide dependency graph: configuration,
// session storage, oracle and embedding clients, the knowledge retriever, and
// the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/grants"
	"grantwriter-backend/internal/knowledge"
	"grantwriter-backend/internal/letters"
	"grantwriter-backend/internal/llm"
	openai "grantwriter-backend/internal/llm/openai"
	"grantwriter-backend/internal/onboarding"
	"grantwriter-backend/internal/scrape"
	"grantwriter-backend/internal/sessions"
	"grantwriter-backend/internal/shared/config"
	"grantwriter-backend/internal/shared/server"
	"grantwriter-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Sessions  sessions.Store
	Oracle    llm.Client
	Retriever *knowledge.Retriever

	OnboardingService *onboarding.Service
	GrantsService     *grants.Service
	LettersService    *letters.Service

	OnboardingHandler *onboarding.Handler
	GrantsHandler     *grants.Handler
	LettersHandler    *letters.Handler
}

// Build prepares the dependency graph and wires the router. A configured but
// unloadable knowledge index is fatal; a missing database degrades to the
// in-memory session store in dev-like environments.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store sessions.Store
	if sqlDB != nil {
		store = &sessions.PGStore{DB: sqlDB}
	} else {
		store = sessions.NewMemoryStore()
	}

	oracle, err := buildOracle(cfg)
	if err != nil {
		return nil, err
	}

	retriever, err := buildRetriever(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Sessions:  store,
		Oracle:    oracle,
		Retriever: retriever,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		OnboardingHandler: app.OnboardingHandler,
		GrantsHandler:     app.GrantsHandler,
		LettersHandler:    app.LettersHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory session store")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory session store: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildOracle(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
}

// buildRetriever loads the knowledge index when one is configured. Load
// failures are fatal at startup, not recoverable per-request.
func buildRetriever(ctx context.Context, cfg config.Config) (*knowledge.Retriever, error) {
	if strings.TrimSpace(cfg.KnowledgeIndexPath) == "" {
		log.Printf("bootstrap: KNOWLEDGE_INDEX_PATH empty; prompts run ungrounded")
		return nil, nil
	}
	embedder, err := openai.NewEmbeddingClient(os.Getenv("OPENAI_API_KEY"), cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	return knowledge.NewRetriever(ctx, cfg.KnowledgeIndexPath, embedder)
}

func buildServices(app *App) {
	scraper := scrape.New()

	var grounder onboarding.Grounder
	if app.Retriever != nil {
		grounder = app.Retriever
	}
	var feed grants.SampleFeed
	if strings.TrimSpace(app.Config.GrantFeedURL) != "" {
		feed = grants.NewFeed(app.Config.GrantFeedURL, app.Config.GrantFeedAPIKey)
	}

	app.OnboardingService = onboarding.NewService(app.Oracle, app.Sessions, scraper, grounder)
	app.GrantsService = grants.NewService(app.Oracle, app.Sessions, feed, scraper)
	app.LettersService = letters.NewService(app.Oracle, app.Sessions)

	app.OnboardingHandler = onboarding.NewHandler(app.OnboardingService)
	app.GrantsHandler = grants.NewHandler(app.GrantsService)
	app.LettersHandler = letters.NewHandler(app.LettersService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
