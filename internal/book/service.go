package book

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service provides catalog operations.
type Service struct {
	repo  Repository
	newID func() string
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new catalog entry under a generated id. in must already be validated.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	b := Book{
		ID:            s.newID(),
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Genre:         strings.TrimSpace(in.Genre),
		Description:   in.Description,
		CoverImage:    in.CoverImage,
		Rating:        in.Rating,
		PublishedYear: in.PublishedYear,
		ISBN:          in.ISBN,
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}
