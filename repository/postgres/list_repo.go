package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type listRepository struct {
	pool *pgxpool.Pool
}

// NewListRepository returns a Postgres-backed implementation of ListRepository.
func NewListRepository(pool *pgxpool.Pool) repository.ListRepository {
	return &listRepository{pool: pool}
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*domain.List, error) {
	query := `
	SELECT id, owner_id, name, description, color, created_at, updated_at
	FROM lists
	WHERE id = $1
	` + lockClause(ctx)

	if !validID(id) {
		return nil, domain.ErrListNotFound
	}
	return scanList(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *listRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error) {
	const query = `
	SELECT id, owner_id, name, description, color, created_at, updated_at
	FROM lists
	WHERE owner_id = $1
	ORDER BY created_at DESC
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ownerID)
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

	const query = `
	INSERT INTO lists (id, owner_id, name, description, color)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		list.ID,
		list.OwnerID,
		list.Name,
		list.Description,
		list.Color,
	).Scan(&list.CreatedAt, &list.UpdatedAt)
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}

	// owner_id is never updated.
	const query = `
	UPDATE lists
	SET name = $2,
		description = $3,
		color = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		list.ID,
		list.Name,
		list.Description,
		list.Color,
	).Scan(&list.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrListNotFound
		}
		return err
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrListNotFound
	}
	const query = `DELETE FROM lists WHERE id = $1`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func scanList(row rowScanner) (*domain.List, error) {
	var list domain.List
	if err := row.Scan(
		&list.ID,
		&list.OwnerID,
		&list.Name,
		&list.Description,
		&list.Color,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}
