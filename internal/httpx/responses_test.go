package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_BareRecord(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)

	JSON(w, r, http.StatusOK, []map[string]string{{"id": "1"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"1"}]`, w.Body.String())
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/x", nil)

	JSONError(w, r, http.StatusNotFound, CodeNotFound, "Book not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Book not found", Code: "NOT_FOUND"}, body)
}

func TestJSON_UnencodableValue(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)

	JSON(w, r, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), CodeInternal)
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/reading-lists", strings.NewReader(""))
		var v map[string]any
		assert.ErrorIs(t, DecodeJSON(r, &v), ErrEmptyBody)
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/reading-lists", strings.NewReader("{"))
		var v map[string]any
		err := DecodeJSON(r, &v)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/reading-lists", strings.NewReader(`{"name":"x"}`))
		var v struct{ Name string }
		require.NoError(t, DecodeJSON(r, &v))
		assert.Equal(t, "x", v.Name)
	})
}
