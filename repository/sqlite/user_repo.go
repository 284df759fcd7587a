package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository instantiates a SQLite-backed user repository.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, username, email, avatar, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	user, _, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id), false)
	return user, err
}

func (r *userRepository) GetCredentialsByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	const query = `
		SELECT id, username, email, avatar, created_at, updated_at, password_hash
		FROM users
		WHERE email = ?
	`
	user, hash, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, email), true)
	if err != nil {
		return nil, err
	}
	return &domain.Credentials{User: *user, PasswordHash: hash}, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`
	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, passwordHash string) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	ts := now()

	const query = `
	INSERT INTO users (id, username, email, password_hash, avatar, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		passwordHash,
		nullString(user.Avatar),
		toMillis(ts),
		toMillis(ts),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	ts := now()

	const query = `
	UPDATE users
	SET username = ?, email = ?, avatar = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		user.Username,
		user.Email,
		nullString(user.Avatar),
		toMillis(ts),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = ts
	return nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	const query = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, passwordHash, toMillis(now()), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner, withHash bool) (*domain.User, string, error) {
	var (
		user      domain.User
		avatar    sql.NullString
		createdAt int64
		updatedAt int64
		hash      string
	)
	dest := []any{&user.ID, &user.Username, &user.Email, &avatar, &createdAt, &updatedAt}
	if withHash {
		dest = append(dest, &hash)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", err
	}
	user.Avatar = stringPtr(avatar)
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return &user, hash, nil
}
