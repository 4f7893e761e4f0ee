package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agenda/internal/core"
)

const taskColumns = `id, owner_id, title, description, completed, due_date, list, created_at, updated_at`

// TaskPatch carries the fields of a partial task update. Nil means "leave
// unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *core.Date
	List        *core.TaskList
}

func (r *Repository) ListTasks(ctx context.Context, ownerID string) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY due_date ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]core.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Repository) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (owner_id, title, description, completed, due_date, list)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.OwnerID, t.Title, t.Description, t.Completed, t.DueDate.String(), string(t.List))
	if err != nil {
		return core.Task{}, fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Task{}, fmt.Errorf("create task id: %w", err)
	}

	slog.InfoContext(ctx, "Task created", "id", id, "list", t.List, "owner", t.OwnerID)
	return r.GetTask(ctx, t.OwnerID, id)
}

func (r *Repository) GetTask(ctx context.Context, ownerID string, id int64) (core.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Task{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) UpdateTask(ctx context.Context, ownerID string, id int64, patch TaskPatch) (core.Task, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, patch.DueDate.String())
	}
	if patch.List != nil {
		sets = append(sets, "list = ?")
		args = append(args, string(*patch.List))
	}
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Task{}, fmt.Errorf("update task rows: %w", err)
	} else if n == 0 {
		return core.Task{}, ErrNotFound
	}
	return r.GetTask(ctx, ownerID, id)
}

func (r *Repository) DeleteTask(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete task rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (core.Task, error) {
	var (
		t       core.Task
		dueDate string
		list    string
		created time.Time
		updated time.Time
	)
	if err := s.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed,
		&dueDate, &list, &created, &updated); err != nil {
		return core.Task{}, err
	}
	d, err := core.ParseDate(dueDate)
	if err != nil {
		return core.Task{}, fmt.Errorf("scan task due date %q: %w", dueDate, err)
	}
	t.DueDate = d
	t.List = core.TaskList(list)
	t.CreatedAt = created
	t.UpdatedAt = updated
	return t, nil
}
