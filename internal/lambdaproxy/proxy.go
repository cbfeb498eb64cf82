// Package lambdaproxy serves API Gateway proxy events through an http.Handler.
package lambdaproxy

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"bookrec/internal/auth"
	"bookrec/internal/logging"
)

// Handler adapts an http.Handler to the Lambda proxy integration.
type Handler struct {
	adapter *httpadapter.HandlerAdapter
}

func New(next http.Handler) *Handler {
	return &Handler{adapter: httpadapter.New(AuthorizerClaims(next))}
}

// Handle serves one proxy event. An event that cannot be turned into a request
// answers 400.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := h.adapter.ProxyWithContext(ctx, event)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("path", event.Path).Msg("serve proxy event")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Invalid request","code":"BAD_REQUEST"}`,
		}, nil
	}
	return resp, nil
}

// AuthorizerClaims marks the request as verified with the claims API Gateway's
// authorizer attached to the event, when there are any.
func AuthorizerClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gw, ok := core.GetAPIGatewayContextFromContext(r.Context()); ok {
			if m, ok := gw.Authorizer["claims"].(map[string]any); ok {
				if claims := auth.ClaimsFromMap(m); claims != nil {
					r = r.WithContext(auth.ContextWithClaims(r.Context(), claims))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
