// Package client is a typed HTTP client for the bookrec API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"bookrec/internal/book"
	"bookrec/internal/readinglist"
	"bookrec/internal/recommend"
)

// TokenSource supplies the bearer token for a request. An empty token or an
// error sends the request without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Error is returned for every failed call. Message is the one shown to users.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetBooks(ctx context.Context) ([]book.Book, error) {
	var out []book.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &out, "Failed to fetch books"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []book.Book{}
	}
	return out, nil
}

// GetBook returns nil, nil when the book does not exist.
func (c *Client) GetBook(ctx context.Context, id string) (*book.Book, error) {
	var out book.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &out, "Failed to fetch book")
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBook(ctx context.Context, in book.CreateInput) (*book.Book, error) {
	var out book.Book
	if err := c.do(ctx, http.MethodPost, "/books", in, &out, "Failed to create book"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReadingLists(ctx context.Context) ([]readinglist.ReadingList, error) {
	var out []readinglist.ReadingList
	if err := c.do(ctx, http.MethodGet, "/reading-lists", nil, &out, "Failed to fetch reading lists"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []readinglist.ReadingList{}
	}
	return out, nil
}

func (c *Client) CreateReadingList(ctx context.Context, in readinglist.CreateInput) (*readinglist.ReadingList, error) {
	var out readinglist.ReadingList
	if err := c.do(ctx, http.MethodPost, "/reading-lists", in, &out, "Failed to create a reading list"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReadingList(ctx context.Context, id string, in readinglist.UpdateInput) (*readinglist.ReadingList, error) {
	var out readinglist.ReadingList
	if err := c.do(ctx, http.MethodPut, "/reading-lists/"+url.PathEscape(id), in, &out, "Failed to update a reading list"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReadingList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reading-lists/"+url.PathEscape(id), nil, nil, "Failed to delete a reading list")
}

func (c *Client) GetRecommendations(ctx context.Context, query string) ([]recommend.Recommendation, error) {
	var out recommend.Response
	if err := c.do(ctx, http.MethodPost, "/recommendations", recommend.Request{Query: query}, &out, "Failed to get recommendations"); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// do sends one request. Any non-2xx status becomes *Error{Status, failMsg};
// a 204 or an empty body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, in, out any, failMsg string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Message: failMsg}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: failMsg}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, err := c.tokens.Token(ctx); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: failMsg}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Status: resp.StatusCode, Message: failMsg}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: failMsg}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: failMsg}
	}
	return nil
}
