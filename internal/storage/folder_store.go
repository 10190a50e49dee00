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

// FolderStore reads and writes folders and the ordered to-do list each one owns.
// Operations touching more than one row run in a single transaction.
type FolderStore struct {
	db       *DB
	todos    *ToDoStore
	now      func() time.Time
	logger   *log.Logger
	onChange ChangeFunc
}

// NewFolderStore creates a FolderStore that deletes children through todos.
func NewFolderStore(db *DB, todos *ToDoStore, params StoreParams) *FolderStore {
	params = params.withDefaults()
	return &FolderStore{
		db:       db,
		todos:    todos,
		now:      params.Now,
		logger:   params.Logger,
		onChange: params.OnChange,
	}
}

// Add creates an empty folder and returns its new ID.
func (s *FolderStore) Add(ctx context.Context, title string) (int64, error) {
	now := s.now().UnixNano()
	res, err := s.db.db.ExecContext(ctx,
		`INSERT INTO folders (title, created_at, updated_at) VALUES (?, ?, ?)`,
		title, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert folder: %w", ErrIDAllocation, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: folder: %w", ErrIDAllocation, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: folder: got id %d", ErrIDAllocation, id)
	}

	notify(s.onChange, Change{Entity: EntityFolder, Op: OpAdd, ID: id})
	return id, nil
}

// Update applies patch to the folder. Missing folders are ignored.
//
// A non-nil patch.ToDoIDs replaces the folder's to-do list in the given
// order. IDs that do not name an existing to-do are skipped, and a to-do
// listed here is moved out of any other folder. To-dos dropped from the
// list stay in the to-do store without a folder.
func (s *FolderStore) Update(ctx context.Context, id int64, patch model.FolderPatch) error {
	found := false
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := folderExists(ctx, tx, id)
		if err != nil || !ok {
			return err
		}
		found = true

		now := s.now().UnixNano()
		if patch.Title != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE folders SET title = ?, updated_at = ? WHERE id = ?`,
				*patch.Title, now, id)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE folders SET updated_at = ? WHERE id = ?`, now, id)
		}
		if err != nil {
			return fmt.Errorf("failed to update folder: %w", err)
		}

		if patch.ToDoIDs == nil {
			return nil
		}
		return replaceToDoList(ctx, tx, id, patch.ToDoIDs)
	})
	if err != nil {
		return err
	}

	if found {
		notify(s.onChange, Change{Entity: EntityFolder, Op: OpUpdate, ID: id})
	}
	return nil
}

// replaceToDoList rewrites the folder's ordered to-do list.
func replaceToDoList(ctx context.Context, tx *sql.Tx, folderID int64, todoIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM folder_todos WHERE folder_id = ?`, folderID); err != nil {
		return fmt.Errorf("failed to clear folder todos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO folder_todos (todo_id, folder_id, position)
		SELECT id, ?, ? FROM todos WHERE id = ?
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, todoID := range todoIDs {
		if _, err := stmt.ExecContext(ctx, folderID, pos, todoID); err != nil {
			return fmt.Errorf("failed to attach todo %d: %w", todoID, err)
		}
	}
	return nil
}

// Delete removes the folder together with every to-do it owns.
// Either all of them go or none do. Missing folders are ignored.
func (s *FolderStore) Delete(ctx context.Context, id int64) error {
	var deleted []int64
	found := false
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := folderExists(ctx, tx, id)
		if err != nil || !ok {
			return err
		}
		found = true

		deleted, err = s.deleteChildren(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.logger.Debug("deleted folder", "id", id, "todos", len(deleted))
	notify(s.onChange, todoDeletes(deleted)...)
	notify(s.onChange, Change{Entity: EntityFolder, Op: OpDelete, ID: id})
	return nil
}

// DeleteAll removes every to-do and then every folder.
func (s *FolderStore) DeleteAll(ctx context.Context) error {
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.todos.withQuerier(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM folders`); err != nil {
			return fmt.Errorf("failed to delete folders: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("deleted all folders")
	notify(s.onChange,
		Change{Entity: EntityToDo, Op: OpDelete},
		Change{Entity: EntityFolder, Op: OpDelete},
	)
	return nil
}

// FindByID returns the folder with its to-dos in list order, or nil if it does not exist.
func (s *FolderStore) FindByID(ctx context.Context, id int64) (*model.Folder, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM folders WHERE id = ?`, id)

	folder, err := scanFolder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	folder.ToDos, err = queryToDos(ctx, s.db.db, `
		SELECT t.id, t.title, t.created_at, t.updated_at
		FROM folder_todos ft
		JOIN todos t ON t.id = ft.todo_id
		WHERE ft.folder_id = ?
		ORDER BY ft.position`, id)
	if err != nil {
		return nil, err
	}

	return &folder, nil
}

// FindAll returns every folder with its to-dos, newest folder first.
func (s *FolderStore) FindAll(ctx context.Context) ([]model.Folder, error) {
	folders, err := s.queryFolders(ctx)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return folders, nil
	}

	byFolder, err := s.queryMemberships(ctx)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if todos, ok := byFolder[folders[i].ID]; ok {
			folders[i].ToDos = todos
		}
	}

	return folders, nil
}

func (s *FolderStore) queryFolders(ctx context.Context) ([]model.Folder, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM folders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}
	return folders, nil
}

// queryMemberships loads every folder's to-do list in one pass.
func (s *FolderStore) queryMemberships(ctx context.Context) (map[int64][]model.ToDo, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT ft.folder_id, t.id, t.title, t.created_at, t.updated_at
		FROM folder_todos ft
		JOIN todos t ON t.id = ft.todo_id
		ORDER BY ft.folder_id, ft.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder todos: %w", err)
	}
	defer rows.Close()

	byFolder := make(map[int64][]model.ToDo)
	for rows.Next() {
		var folderID, createdAt, updatedAt int64
		var t model.ToDo
		if err := rows.Scan(&folderID, &t.ID, &t.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder todo row: %w", err)
		}
		t.CreatedAt = fromUnixNano(createdAt)
		t.UpdatedAt = fromUnixNano(updatedAt)
		byFolder[folderID] = append(byFolder[folderID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder todos: %w", err)
	}
	return byFolder, nil
}

// DeleteAllToDo removes every to-do owned by the folder and leaves the
// folder empty. Missing folders are ignored.
func (s *FolderStore) DeleteAllToDo(ctx context.Context, folderID int64) error {
	var deleted []int64
	found := false
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := folderExists(ctx, tx, folderID)
		if err != nil || !ok {
			return err
		}
		found = true

		deleted, err = s.deleteChildren(ctx, tx, folderID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE folders SET updated_at = ? WHERE id = ?`,
			s.now().UnixNano(), folderID); err != nil {
			return fmt.Errorf("failed to update folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.logger.Debug("emptied folder", "id", folderID, "todos", len(deleted))
	notify(s.onChange, todoDeletes(deleted)...)
	notify(s.onChange, Change{Entity: EntityFolder, Op: OpUpdate, ID: folderID})
	return nil
}

// FindAllToDo returns the folder's to-dos, newest first.
// Returns an empty slice if the folder is missing or empty.
func (s *FolderStore) FindAllToDo(ctx context.Context, folderID int64) ([]model.ToDo, error) {
	return queryToDos(ctx, s.db.db, `
		SELECT t.id, t.title, t.created_at, t.updated_at
		FROM folder_todos ft
		JOIN todos t ON t.id = ft.todo_id
		WHERE ft.folder_id = ?
		ORDER BY t.created_at DESC, t.id DESC`, folderID)
}

// AddToDo creates a to-do and appends it to the folder in one step.
// Returns ErrNotFound if the folder does not exist.
func (s *FolderStore) AddToDo(ctx context.Context, folderID int64, title string) (int64, error) {
	var todoID int64
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := folderExists(ctx, tx, folderID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("folder %d: %w", folderID, ErrNotFound)
		}

		todoID, err = s.todos.withQuerier(tx).Add(ctx, title)
		if err != nil {
			return err
		}
		return s.appendToDo(ctx, tx, folderID, todoID)
	})
	if err != nil {
		return 0, err
	}

	notify(s.onChange,
		Change{Entity: EntityToDo, Op: OpAdd, ID: todoID},
		Change{Entity: EntityFolder, Op: OpUpdate, ID: folderID},
	)
	return todoID, nil
}

// AttachToDo appends an existing to-do to the end of the folder's list,
// moving it out of any other folder. Ignored if either record is missing.
func (s *FolderStore) AttachToDo(ctx context.Context, folderID, todoID int64) error {
	found := false
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := folderExists(ctx, tx, folderID)
		if err != nil || !ok {
			return err
		}
		todo, err := s.todos.withQuerier(tx).FindByID(ctx, todoID)
		if err != nil || todo == nil {
			return err
		}
		found = true
		return s.appendToDo(ctx, tx, folderID, todoID)
	})
	if err != nil {
		return err
	}

	if found {
		notify(s.onChange, Change{Entity: EntityFolder, Op: OpUpdate, ID: folderID})
	}
	return nil
}

func (s *FolderStore) appendToDo(ctx context.Context, tx *sql.Tx, folderID, todoID int64) error {
	var next int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM folder_todos WHERE folder_id = ?`,
		folderID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to get next position: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO folder_todos (todo_id, folder_id, position) VALUES (?, ?, ?)`,
		todoID, folderID, next); err != nil {
		return fmt.Errorf("failed to attach todo: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE folders SET updated_at = ? WHERE id = ?`,
		s.now().UnixNano(), folderID); err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}
	return nil
}

// deleteChildren deletes the folder's to-dos one at a time through the
// to-do store and returns their IDs.
func (s *FolderStore) deleteChildren(ctx context.Context, tx *sql.Tx, folderID int64) ([]int64, error) {
	ids, err := childIDs(ctx, tx, folderID)
	if err != nil {
		return nil, err
	}

	todos := s.todos.withQuerier(tx)
	for _, todoID := range ids {
		if err := todos.Delete(ctx, todoID); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func childIDs(ctx context.Context, q querier, folderID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT todo_id FROM folder_todos WHERE folder_id = ? ORDER BY position`, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder todos: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func folderExists(ctx context.Context, q querier, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM folders WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up folder: %w", err)
	}
	return true, nil
}

func scanFolder(row scannable) (model.Folder, error) {
	var f model.Folder
	var createdAt, updatedAt int64
	if err := row.Scan(&f.ID, &f.Title, &createdAt, &updatedAt); err != nil {
		return model.Folder{}, err
	}
	f.CreatedAt = fromUnixNano(createdAt)
	f.UpdatedAt = fromUnixNano(updatedAt)
	f.ToDos = []model.ToDo{}
	return f, nil
}

func todoDeletes(ids []int64) []Change {
	changes := make([]Change, len(ids))
	for i, id := range ids {
		changes[i] = Change{Entity: EntityToDo, Op: OpDelete, ID: id}
	}
	return changes
}
