package lambdaproxy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/auth"
	"bookrec/internal/httpx"
)

func echoCaller() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		httpx.JSON(w, r, http.StatusCreated, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"caller": auth.CallerID(r),
			"body":   string(body),
			"tags":   r.URL.Query()["tag"],
		})
	})
}

func TestHandle_ConvertsRequestAndResponse(t *testing.T) {
	h := New(echoCaller())

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodPost,
		Path:                  "/reading-lists",
		Headers:               map[string]string{"Content-Type": "application/json"},
		QueryStringParameters: map[string]string{"userId": "xyz"},
		Body:                  `{"name":"x"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"application/json"}, resp.MultiValueHeaders["Content-Type"])
	assert.JSONEq(t, `{"method":"POST","path":"/reading-lists","caller":"xyz","body":"{\"name\":\"x\"}","tags":null}`, resp.Body)
}

func TestHandle_AuthorizerClaimsWin(t *testing.T) {
	h := New(echoCaller())

	event := events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/reading-lists",
		QueryStringParameters: map[string]string{"userId": "xyz"},
	}
	event.RequestContext.Authorizer = map[string]any{
		"claims": map[string]any{"sub": "abc", "cognito:username": "reader"},
	}

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Contains(t, resp.Body, `"caller":"abc"`)
}

func TestHandle_NoClaimsIsAnonymous(t *testing.T) {
	resp, err := New(echoCaller()).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/reading-lists",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, `"caller":"anonymous"`)
}

func TestHandle_Base64Body(t *testing.T) {
	resp, err := New(echoCaller()).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/recommendations",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"query":"q"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, `{\"query\":\"q\"}`)
}

func TestHandle_BadBase64(t *testing.T) {
	resp, err := New(echoCaller()).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/recommendations",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request","code":"BAD_REQUEST"}`, resp.Body)
}

func TestHandle_MultiValueQuery(t *testing.T) {
	resp, err := New(echoCaller()).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:                      http.MethodGet,
		Path:                            "/books",
		MultiValueQueryStringParameters: map[string][]string{"tag": {"a", "b"}},
		QueryStringParameters:           map[string]string{"tag": "b"},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, `"tags":["a","b"]`)
}

func TestHandle_PreflightHasEmptyBody(t *testing.T) {
	h := New(httpx.CORSMiddleware(http.NotFoundHandler()))
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions, Path: "/anything"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, []string{"*"}, resp.MultiValueHeaders["Access-Control-Allow-Origin"])
}

func TestAuthorizerClaims_OutsideLambdaIsPassThrough(t *testing.T) {
	w := httptest.NewRecorder()
	AuthorizerClaims(echoCaller()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reading-lists", nil))
	assert.Contains(t, w.Body.String(), `"caller":"anonymous"`)
}
