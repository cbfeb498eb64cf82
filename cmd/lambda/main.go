package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"bookrec/internal/app"
	"bookrec/internal/config"
	"bookrec/internal/lambdaproxy"
	"bookrec/internal/logging"
)

// API Gateway's Cognito authorizer verifies tokens before invocation; the
// adapter copies its claims, so bearer verification is normally left at "none".
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("wire application")
	}

	lambda.Start(lambdaproxy.New(a.Router).Handle)
}
