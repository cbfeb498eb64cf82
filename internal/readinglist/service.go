package readinglist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// List returns the caller's lists, possibly empty.
func (s *Service) List(ctx context.Context, userID string) ([]ReadingList, error) {
	lists, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []ReadingList{}
	}
	for i := range lists {
		lists[i].normalize()
	}
	return lists, nil
}

// Create stores a new list owned by userID. The name is trimmed and must not be blank.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (ReadingList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ReadingList{}, ErrNameRequired
	}

	bookIDs := in.BookIDs
	if bookIDs == nil {
		bookIDs = []string{}
	}
	now := FormatTime(s.now())
	l := ReadingList{
		ID:          s.newID(),
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		BookIDs:     bookIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return ReadingList{}, err
	}
	return l, nil
}

// Update changes only the fields present in in and always refreshes updatedAt.
// A name, when present, is trimmed and must not be blank.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (ReadingList, error) {
	if strings.TrimSpace(id) == "" {
		return ReadingList{}, ErrIDRequired
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return ReadingList{}, ErrNameRequired
		}
		in.Name = &name
	}

	p, err := NewPatch(in)
	if err != nil {
		return ReadingList{}, err
	}
	l, err := s.repo.Update(ctx, id, userID, p, s.now())
	if err != nil {
		return ReadingList{}, err
	}
	l.normalize()
	return l, nil
}

// Delete removes the caller's list id.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id, userID)
}
