package readinglist

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=readinglist

// Repository defines the contract for reading-list storage. Every operation is
// scoped to one owner.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]ReadingList, error)
	Create(ctx context.Context, l ReadingList) error
	// Update applies the patch to an existing (id, userID) record and returns
	// the full record afterwards, or ErrNotFound.
	Update(ctx context.Context, id, userID string, p *Patch, now time.Time) (ReadingList, error)
	// Delete removes (id, userID). Deleting a missing record is not an error.
	Delete(ctx context.Context, id, userID string) error
}
