package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server, retries int) *Client {
	c := NewClient("bookrec-test", 1000, retries).WithBaseURL(srv.URL)
	c.backoff = time.Millisecond
	return c
}

func TestSearchSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "fantasy", r.URL.Query().Get("subject"))
		assert.Equal(t, "bookrec-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL1W","title":"The Hobbit","author_name":["J.R.R. Tolkien"],"isbn":["9780547928227"],"first_publish_year":1937,"cover_i":42}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv, 0).SearchSubject(context.Background(), "fantasy", 5)
	require.NoError(t, err)
	require.Len(t, res.Docs, 1)
	assert.Equal(t, "The Hobbit", res.Docs[0].Title)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-L.jpg", res.Docs[0].CoverURL())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"numFound":0,"docs":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, 3).SearchSubject(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, 3).SearchSubject(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetBooksByISBN_Description(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ISBN:1,ISBN:2", r.URL.Query().Get("bibkeys"))
		_, _ = w.Write([]byte(`{
			"ISBN:1":{"details":{"title":"A","description":"plain"}},
			"ISBN:2":{"details":{"title":"B","description":{"type":"/type/text","value":"typed"}}}
		}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv, 0).GetBooksByISBN(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, "plain", res["ISBN:1"].DescriptionText())
	assert.Equal(t, "typed", res["ISBN:2"].DescriptionText())
}
