package readinglist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

var columns = map[Field]string{
	FieldName:        "name",
	FieldDescription: "description",
	FieldBookIDs:     "book_ids",
	FieldUpdatedAt:   "updated_at",
}

const listColumns = `id, user_id, name, description, book_ids, created_at, updated_at`

func scanList(row pgx.Row) (ReadingList, error) {
	var l ReadingList
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.BookIDs, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// setClause renders the patch as "col = $n, ..." with placeholders from firstArg.
func setClause(p *Patch, now time.Time, firstArg int) (string, []any, error) {
	sets := p.Build(now)
	parts := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets))
	for i, a := range sets {
		col, ok := columns[a.Field]
		if !ok {
			return "", nil, fmt.Errorf("no column for field %q", a.Field)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", col, firstArg+i))
		args = append(args, a.Value)
	}
	return strings.Join(parts, ", "), args, nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]ReadingList, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+listColumns+` FROM reading_lists WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reading lists: %w", err)
	}
	defer rows.Close()

	out := []ReadingList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, l ReadingList) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO reading_lists (`+listColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.UserID, l.Name, l.Description, l.BookIDs, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reading list %s: %w", l.ID, err)
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, id, userID string, p *Patch, now time.Time) (ReadingList, error) {
	set, args, err := setClause(p, now, 1)
	if err != nil {
		return ReadingList{}, err
	}
	n := len(args)
	args = append(args, id, userID)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`UPDATE reading_lists SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`, set, n+1, n+2, listColumns)
	l, err := scanList(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReadingList{}, ErrNotFound
		}
		return ReadingList{}, fmt.Errorf("update reading list %s: %w", id, err)
	}
	return l, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM reading_lists WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete reading list %s: %w", id, err)
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(ctx)
}
