package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const listColumns = `id, owner_id, name, description, color, created_at, updated_at`

type listRepository struct {
	db *sql.DB
}

// NewListRepository returns a SQLite-backed implementation of ListRepository.
func NewListRepository(db *sql.DB) repository.ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*domain.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists WHERE id = ?`
	return scanList(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *listRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error) {
	query := `
	SELECT ` + listColumns + `
	FROM lists
	WHERE owner_id = ?
	ORDER BY created_at DESC, rowid DESC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]domain.List, 0)
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

func (r *listRepository) Create(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	ts := now()

	const query = `
	INSERT INTO lists (id, owner_id, name, description, color, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query,
		list.ID,
		list.OwnerID,
		list.Name,
		nullString(list.Description),
		nullString(list.Color),
		toMillis(ts),
		toMillis(ts),
	); err != nil {
		return err
	}
	list.CreatedAt = ts
	list.UpdatedAt = ts
	return nil
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}
	ts := now()

	// owner_id is never updated.
	const query = `
	UPDATE lists
	SET name = ?, description = ?, color = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		list.Name,
		nullString(list.Description),
		nullString(list.Color),
		toMillis(ts),
		list.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrListNotFound
	}
	list.UpdatedAt = ts
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func scanList(row rowScanner) (*domain.List, error) {
	var (
		list        domain.List
		description sql.NullString
		color       sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(
		&list.ID,
		&list.OwnerID,
		&list.Name,
		&description,
		&color,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	list.Description = stringPtr(description)
	list.Color = stringPtr(color)
	list.CreatedAt = fromMillis(createdAt)
	list.UpdatedAt = fromMillis(updatedAt)
	return &list, nil
}
