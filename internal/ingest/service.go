package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bookrec/internal/book"
	"bookrec/internal/logging"
	"bookrec/internal/platform/openlibrary"
)

type OpenLibraryClient interface {
	SearchSubject(ctx context.Context, subject string, limit int) (*openlibrary.SearchResponse, error)
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}

type Service struct {
	ol    OpenLibraryClient
	books book.Repository
	cfg   Config
	newID func() string
}

func NewService(ol OpenLibraryClient, books book.Repository, cfg Config) *Service {
	if cfg.BooksPerSubject <= 0 {
		cfg.BooksPerSubject = 20
	}
	return &Service{ol: ol, books: books, cfg: cfg, newID: uuid.NewString}
}

// Run searches every configured subject and stores the new titles. ISBNs
// already in the catalog, including ones added earlier in the run, are skipped.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result

	existing, err := s.books.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list catalog: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, b := range existing {
		if b.ISBN != "" {
			seen[normalizeISBN(b.ISBN)] = true
		}
	}

	for _, subject := range s.cfg.Subjects {
		log := logging.With().Str("subject", subject).Logger()

		found, err := s.ol.SearchSubject(ctx, subject, s.cfg.BooksPerSubject)
		if err != nil {
			return res, fmt.Errorf("search subject %q: %w", subject, err)
		}
		res.Fetched += len(found.Docs)

		var isbns []string
		for _, d := range found.Docs {
			if isbn := pickISBN(d.ISBN); isbn != "" {
				isbns = append(isbns, isbn)
			}
		}
		details, err := s.ol.GetBooksByISBN(ctx, isbns)
		if err != nil {
			log.Warn().Err(err).Msg("details lookup failed, continuing without descriptions")
			details = nil
		}

		mapped := toBooks(found.Docs, details, subject, s.newID)
		res.Skipped += len(found.Docs) - len(mapped)
		added := 0
		for _, b := range mapped {
			if key := normalizeISBN(b.ISBN); key != "" {
				if seen[key] {
					res.Skipped++
					continue
				}
				seen[key] = true
			}
			if err := s.books.Put(ctx, b); err != nil {
				return res, fmt.Errorf("store %q: %w", b.Title, err)
			}
			added++
		}
		res.Upserted += added
		log.Info().Int("fetched", len(found.Docs)).Int("upserted", added).Msg("subject ingested")
	}
	return res, nil
}

// toBooks maps search hits to catalog entries, dropping hits without a title or author.
func toBooks(docs []openlibrary.SearchDoc, details map[string]openlibrary.BookDetails, subject string, newID func() string) []book.Book {
	genre := titleCase(subject)
	out := make([]book.Book, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Title) == "" || len(d.AuthorNames) == 0 {
			continue
		}
		isbn := pickISBN(d.ISBN)
		b := book.Book{
			ID:            newID(),
			Title:         d.Title,
			Author:        d.AuthorNames[0],
			Genre:         genre,
			CoverImage:    d.CoverURL(),
			Rating:        clampRating(d.RatingsAverage),
			PublishedYear: d.FirstPublishYear,
			ISBN:          isbn,
		}
		if det, ok := details["ISBN:"+isbn]; ok {
			b.Description = det.DescriptionText()
		}
		out = append(out, b)
	}
	return out
}

// pickISBN prefers an ISBN-13.
func pickISBN(isbns []string) string {
	for _, s := range isbns {
		if len(s) == 13 {
			return s
		}
	}
	if len(isbns) > 0 {
		return isbns[0]
	}
	return ""
}

func normalizeISBN(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

func clampRating(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 5:
		return 5
	}
	return r
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
