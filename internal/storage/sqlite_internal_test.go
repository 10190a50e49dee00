package storage

import (
	"context"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "td.db"))
	assert.NilError(t, err)
	defer db.Close()

	var enabled int
	assert.NilError(t, db.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, enabled, 1)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.db")
	db, err := Open(path)
	assert.NilError(t, err)
	_, err = db.db.Exec("UPDATE schema_version SET version = 99")
	assert.NilError(t, err)
	assert.NilError(t, db.Close())

	_, err = Open(path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestFolderStore_DeleteRollsBackCascade(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "td.db"))
	assert.NilError(t, err)
	defer db.Close()

	var changes []Change
	stores := NewStores(db, StoreParams{OnChange: func(c Change) { changes = append(changes, c) }})

	folderID, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, folderID, "Milk")
	assert.NilError(t, err)
	eggs, err := stores.Folders.AddToDo(ctx, folderID, "Eggs")
	assert.NilError(t, err)

	// Make the final step of the cascade fail after the children are gone.
	_, err = db.db.Exec(`
		CREATE TRIGGER fail_folder_delete BEFORE DELETE ON folders
		BEGIN SELECT RAISE(ABORT, 'boom'); END;
	`)
	assert.NilError(t, err)

	changes = nil
	err = stores.Folders.Delete(ctx, folderID)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, len(changes), 0, "no changes should be reported for a rolled back delete")

	// Nothing may be half deleted.
	folder, err := stores.Folders.FindByID(ctx, folderID)
	assert.NilError(t, err)
	assert.Assert(t, folder != nil)
	assert.DeepEqual(t, folder.ToDoIDs(), []int64{milk, eggs})

	for _, id := range []int64{milk, eggs} {
		todo, err := stores.ToDos.FindByID(ctx, id)
		assert.NilError(t, err)
		assert.Assert(t, todo != nil, "todo %d was deleted by a failed cascade", id)
	}
}
