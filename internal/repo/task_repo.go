package repo

import (
	"context"
	"errors"

	"Tasker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by repos when a record does not exist. It is a
// normal return value, not a failure that should reach the exception
// boundary.
var ErrNotFound = errors.New("not found")

// TaskRepo provides task persistence. Create assigns the ID and CreatedAt;
// Update overwrites all mutable fields and refreshes UpdatedAt; Delete is a
// hard delete reporting whether a row was removed. Lists are ordered by
// creation time, newest first.
type TaskRepo interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByCompletion(ctx context.Context, completed bool) ([]domain.Task, error)
	ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error)
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, title, description, is_completed, priority, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.Priority,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	query := `
		INSERT INTO tasks (title, description, is_completed, priority, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.Title, t.Description, t.IsCompleted, t.Priority, t.DueDate))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`
	return r.queryTasks(ctx, query)
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, patch domain.Task) (domain.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, is_completed = $4, priority = $5, due_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	t, err := scanTask(r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Description, patch.IsCompleted, patch.Priority, patch.DueDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return t, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) ListByCompletion(ctx context.Context, completed bool) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE is_completed = $1 ORDER BY created_at DESC, id DESC`
	return r.queryTasks(ctx, query, completed)
}

func (r *PGTaskRepo) ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE priority = $1 ORDER BY created_at DESC, id DESC`
	return r.queryTasks(ctx, query, p)
}

func (r *PGTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.Priority,
			&t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
