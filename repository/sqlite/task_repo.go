package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const taskColumns = `id, list_id, title, description, is_completed, priority, due_date, created_at, updated_at`

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository returns a SQLite-backed implementation of TaskRepository.
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return scanTask(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *taskRepository) ListByList(ctx context.Context, listID string) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE list_id = ?
	ORDER BY due_date IS NULL, due_date ASC, created_at ASC, rowid ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	ts := now()

	const query = `
	INSERT INTO tasks (id, list_id, title, description, is_completed, priority, due_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query,
		task.ID,
		task.ListID,
		task.Title,
		nullString(task.Description),
		task.IsCompleted,
		string(task.Priority),
		nullMillis(task.DueDate),
		toMillis(ts),
		toMillis(ts),
	); err != nil {
		return err
	}
	task.CreatedAt = ts
	task.UpdatedAt = ts
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	ts := now()

	const query = `
	UPDATE tasks
	SET title = ?, description = ?, is_completed = ?, priority = ?, due_date = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		task.Title,
		nullString(task.Description),
		task.IsCompleted,
		string(task.Priority),
		nullMillis(task.DueDate),
		toMillis(ts),
		task.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = ts
	return nil
}

func (r *taskRepository) ToggleCompleted(ctx context.Context, id string) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET is_completed = NOT is_completed, updated_at = ?
	WHERE id = ?
	RETURNING ` + taskColumns
	return scanTask(conn(ctx, r.db).QueryRowContext(ctx, query, toMillis(now()), id))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		priority    string
		dueDate     sql.NullInt64
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(
		&task.ID,
		&task.ListID,
		&task.Title,
		&description,
		&task.IsCompleted,
		&priority,
		&dueDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task.Description = stringPtr(description)
	task.Priority = domain.Priority(priority)
	task.DueDate = timePtr(dueDate)
	task.CreatedAt = fromMillis(createdAt)
	task.UpdatedAt = fromMillis(updatedAt)
	return &task, nil
}
