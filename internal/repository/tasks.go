package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avelasco/taskapi/internal/models"
)

// TaskFields are the mutable fields of a task. Updates never touch id or
// owner_id.
type TaskFields struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, fields TaskFields, ownerID int64) (models.Task, error) {
	const query = `
		INSERT INTO tasks (title, description, priority, complete, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	t := models.Task{
		Title:       fields.Title,
		Description: fields.Description,
		Priority:    fields.Priority,
		Complete:    fields.Complete,
		OwnerID:     ownerID,
	}

	err := r.db.QueryRowxContext(ctx, query,
		t.Title, t.Description, t.Priority, t.Complete, t.OwnerID,
	).Scan(&t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	return t, nil
}

// GetByIDAndOwner returns the task only if it belongs to ownerID. An
// ownership mismatch is reported as ErrNotFound, same as absence.
func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (models.Task, error) {
	const query = `
		SELECT id, title, description, priority, complete, owner_id
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	var t models.Task
	if err := r.db.GetContext(ctx, &t, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	const query = `
		SELECT id, title, description, priority, complete, owner_id
		FROM tasks
		WHERE owner_id = $1
	`

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// ListAll returns every task regardless of owner. Admin use only; the
// caller is responsible for the role check.
func (r *TaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	const query = `
		SELECT id, title, description, priority, complete, owner_id
		FROM tasks
	`

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}

	return tasks, nil
}

// Update is fetch-modify-write: the existing row is loaded by (id, owner)
// and rewritten in place. It never inserts, so an id collision or
// duplicate row cannot occur; a missing row is ErrNotFound.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID int64, fields TaskFields) error {
	t, err := r.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	t.Title = fields.Title
	t.Description = fields.Description
	t.Priority = fields.Priority
	t.Complete = fields.Complete

	const query = `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, complete = $4, updated_at = NOW()
		WHERE id = $5 AND owner_id = $6
	`

	if _, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Priority, t.Complete, t.ID, t.OwnerID,
	); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

// DeleteByIDAndOwner removes the caller's own task. Validated by read so
// a missing or not-owned row is a clean ErrNotFound, not a silent no-op.
func (r *TaskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}

	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

// DeleteByID removes any task regardless of owner. Admin use only.
func (r *TaskRepository) DeleteByID(ctx context.Context, id int64) error {
	const getQuery = `
		SELECT id, title, description, priority, complete, owner_id
		FROM tasks
		WHERE id = $1
	`

	var t models.Task
	if err := r.db.GetContext(ctx, &t, getQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get task: %w", err)
	}

	const query = `DELETE FROM tasks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}
