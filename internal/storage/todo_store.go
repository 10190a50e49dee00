package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nikbrunner/td/internal/model"
)

const todoColumns = "id, title, created_at, updated_at"

// ToDoStore reads and writes to-do records.
type ToDoStore struct {
	q        querier
	now      func() time.Time
	logger   *log.Logger
	onChange ChangeFunc
}

// NewToDoStore creates a ToDoStore over db.
func NewToDoStore(db *DB, params StoreParams) *ToDoStore {
	params = params.withDefaults()
	return &ToDoStore{
		q:        db.db,
		now:      params.Now,
		logger:   params.Logger,
		onChange: params.OnChange,
	}
}

// withQuerier returns a copy bound to q (usually a transaction).
// The copy does not emit changes; the caller reports them after commit.
func (s *ToDoStore) withQuerier(q querier) *ToDoStore {
	c := *s
	c.q = q
	c.onChange = nil
	return &c
}

// Add creates a to-do with the given title and returns its new ID.
func (s *ToDoStore) Add(ctx context.Context, title string) (int64, error) {
	now := s.now().UnixNano()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO todos (title, created_at, updated_at) VALUES (?, ?, ?)`,
		title, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert todo: %w", ErrIDAllocation, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: todo: %w", ErrIDAllocation, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: todo: got id %d", ErrIDAllocation, id)
	}

	notify(s.onChange, Change{Entity: EntityToDo, Op: OpAdd, ID: id})
	return id, nil
}

// Update applies patch to the to-do. Missing to-dos are ignored.
// CreatedAt is preserved; UpdatedAt is refreshed.
func (s *ToDoStore) Update(ctx context.Context, id int64, patch model.ToDoPatch) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if patch.Title != nil {
		existing.Title = *patch.Title
	}

	_, err = s.q.ExecContext(ctx,
		`UPDATE todos SET title = ?, updated_at = ? WHERE id = ?`,
		existing.Title, s.now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	notify(s.onChange, Change{Entity: EntityToDo, Op: OpUpdate, ID: id})
	return nil
}

// Delete removes the to-do. Its folder reference goes with it.
// Missing to-dos are ignored.
func (s *ToDoStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil
	}

	notify(s.onChange, Change{Entity: EntityToDo, Op: OpDelete, ID: id})
	return nil
}

// DeleteAll removes every to-do.
func (s *ToDoStore) DeleteAll(ctx context.Context) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM todos`)
	if err != nil {
		return fmt.Errorf("failed to delete todos: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil {
		s.logger.Debug("deleted all todos", "count", n)
	}

	notify(s.onChange, Change{Entity: EntityToDo, Op: OpDelete})
	return nil
}

// FindByID returns the to-do, or nil if it does not exist.
func (s *ToDoStore) FindByID(ctx context.Context, id int64) (*model.ToDo, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)

	todo, err := scanToDo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return &todo, nil
}

// FindAll returns every to-do, newest first.
func (s *ToDoStore) FindAll(ctx context.Context) ([]model.ToDo, error) {
	return queryToDos(ctx, s.q,
		`SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
}

// FindUnfiled returns to-dos that belong to no folder, newest first.
func (s *ToDoStore) FindUnfiled(ctx context.Context) ([]model.ToDo, error) {
	return queryToDos(ctx, s.q, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id NOT IN (SELECT todo_id FROM folder_todos)
		ORDER BY created_at DESC, id DESC`)
}

func queryToDos(ctx context.Context, q querier, query string, args ...any) ([]model.ToDo, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.ToDo{}
	for rows.Next() {
		todo, err := scanToDo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}

func scanToDo(row scannable) (model.ToDo, error) {
	var t model.ToDo
	var createdAt, updatedAt int64
	if err := row.Scan(&t.ID, &t.Title, &createdAt, &updatedAt); err != nil {
		return model.ToDo{}, err
	}
	t.CreatedAt = fromUnixNano(createdAt)
	t.UpdatedAt = fromUnixNano(updatedAt)
	return t, nil
}
