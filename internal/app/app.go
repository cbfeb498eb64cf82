// Package app builds the service's dependencies from configuration. Clients are
// constructed once here and injected everywhere else.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"bookrec/internal/auth"
	"bookrec/internal/book"
	"bookrec/internal/config"
	"bookrec/internal/logging"
	"bookrec/internal/platform/bedrock"
	"bookrec/internal/platform/dynamo"
	"bookrec/internal/platform/gemini"
	"bookrec/internal/platform/postgres"
	"bookrec/internal/readinglist"
	"bookrec/internal/recommend"
	"bookrec/internal/server"
)

// Stores are the configured repositories.
type Stores struct {
	Books book.Repository
	Lists readinglist.Repository
	// Dynamo is set for the dynamodb backend.
	Dynamo *dynamodb.Client
	Ready  []server.Pinger

	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores connects the backend named by cfg.Store.Backend.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendDynamo:
		awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		client := dynamo.NewClient(awsCfg, cfg.Store.Endpoint)
		books := book.NewDynamoRepo(client, cfg.Store.BooksTable, cfg.Store.Timeout)
		lists := readinglist.NewDynamoRepo(client, cfg.Store.ReadingListsTable, cfg.Store.UserIndex, cfg.Store.Timeout)
		logging.Info().
			Str("books_table", cfg.Store.BooksTable).
			Str("reading_lists_table", cfg.Store.ReadingListsTable).
			Str("endpoint", cfg.Store.Endpoint).
			Msg("using dynamodb store")
		return &Stores{Books: books, Lists: lists, Dynamo: client, Ready: []server.Pinger{books, lists}}, nil

	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		books := book.NewPostgresRepo(pool, cfg.Store.Timeout)
		lists := readinglist.NewPostgresRepo(pool, cfg.Store.Timeout)
		logging.Info().Str("dsn", postgres.RedactDSN(cfg.Store.DSN)).Msg("using postgres store")
		return &Stores{Books: books, Lists: lists, Ready: []server.Pinger{books}, close: pool.Close}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// NewModel builds the model client named by cfg.Model.Provider, bounded by the model timeout.
func NewModel(ctx context.Context, cfg *config.Config) (recommend.ModelClient, error) {
	var model recommend.ModelClient
	switch cfg.Model.Provider {
	case config.ProviderBedrock:
		awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		model = bedrock.NewClient(bedrock.NewRuntime(awsCfg), cfg.Model.BedrockModelID, cfg.Model.MaxTokens)
		logging.Info().Str("model", cfg.Model.BedrockModelID).Msg("using bedrock model")
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.Model.GeminiAPIKey, cfg.Model.GeminiModel, cfg.Model.MaxTokens)
		if err != nil {
			return nil, err
		}
		model = c
		logging.Info().Str("model", cfg.Model.GeminiModel).Msg("using gemini model")
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
	return recommend.WithTimeout(model, cfg.Model.Timeout), nil
}

// NewVerifier returns the bearer-token verifier for cfg.Auth.Mode, or nil for none.
func NewVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeNone:
		return nil, nil
	case config.AuthModeHMAC:
		return auth.NewHMACVerifier(cfg.Auth.Secret), nil
	case config.AuthModeJWKS:
		keys := auth.NewJWKSCache(cfg.Auth.JWKSURL, nil, cfg.Auth.JWKSTTL)
		return auth.NewJWKSVerifier(keys, cfg.Auth.Issuer, cfg.Auth.ClientID), nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
}

// App is the wired service.
type App struct {
	Config *config.Config
	Stores *Stores
	Router http.Handler
}

// New wires stores, model, verifier and router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	model, err := NewModel(ctx, cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}
	verifier, err := NewVerifier(cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}
	logging.Info().
		Str("auth_mode", cfg.Auth.Mode).
		Bool("allow_anonymous", cfg.Auth.AllowAnonymous).
		Msg("auth configured")

	router := server.NewRouter(server.Options{
		Books:           book.NewHTTPHandler(book.NewService(stores.Books)),
		ReadingLists:    readinglist.NewHTTPHandler(readinglist.NewService(stores.Lists)),
		Recommendations: recommend.NewHTTPHandler(recommend.NewService(model)),
		Verifier:        verifier,
		AllowAnonymous:  cfg.Auth.AllowAnonymous,
		AdminGroup:      cfg.Auth.AdminGroup,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Ready:           stores.Ready,
	})
	return &App{Config: cfg, Stores: stores, Router: router}, nil
}

func (a *App) Close() {
	a.Stores.Close()
}
