package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/storage"
	"gotest.tools/v3/assert"
)

func folderTitles(folders []model.Folder) []string {
	out := []string{}
	for _, f := range folders {
		out = append(out, f.Title)
	}
	return out
}

func TestFolderStore_AddAndFind(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)

	folder, err := stores.Folders.FindByID(ctx, id)
	assert.NilError(t, err)
	if folder == nil {
		t.Fatal("expected to find folder")
	}
	assert.Equal(t, folder.Title, "Groceries")
	assert.Assert(t, !folder.CreatedAt.IsZero())
	assert.Assert(t, folder.ToDos != nil, "todos should be an empty slice, not nil")
	assert.Equal(t, len(folder.ToDos), 0)
}

func TestFolderStore_FindByIDMissing(t *testing.T) {
	stores := newTestStores(t)

	folder, err := stores.Folders.FindByID(context.Background(), 7)
	assert.NilError(t, err)
	assert.Assert(t, folder == nil)
}

func TestFolderStore_DistinctIDs(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		id, err := stores.Folders.Add(ctx, "f")
		assert.NilError(t, err)
		assert.Assert(t, !seen[id], "id %d handed out twice", id)
		seen[id] = true

		// Deleting the newest folder must not free its ID.
		if i%3 == 0 {
			assert.NilError(t, stores.Folders.Delete(ctx, id))
		}
	}
}

func TestFolderStore_FindAllNewestFirst(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"Work", "Home", "Groceries", "Travel"} {
		id, err := stores.Folders.Add(ctx, title)
		assert.NilError(t, err)
		ids = append(ids, id)
	}

	// Updates must not move a folder in the ordering.
	assert.NilError(t, stores.Folders.Update(ctx, ids[0], model.FolderPatch{Title: model.StringPtr("Office")}))
	assert.NilError(t, stores.Folders.Delete(ctx, ids[2]))

	folders, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, folderTitles(folders), []string{"Travel", "Home", "Office"})
}

func TestFolderStore_FindAllIncludesToDos(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	home, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	work, err := stores.Folders.Add(ctx, "Work")
	assert.NilError(t, err)
	_, err = stores.Folders.AddToDo(ctx, home, "Vacuum")
	assert.NilError(t, err)
	_, err = stores.Folders.AddToDo(ctx, home, "Dishes")
	assert.NilError(t, err)

	folders, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(folders), 2)

	assert.Equal(t, folders[0].ID, work)
	assert.Equal(t, len(folders[0].ToDos), 0)
	assert.Equal(t, folders[1].ID, home)
	assert.DeepEqual(t, titles(folders[1].ToDos), []string{"Vacuum", "Dishes"})
}

func TestFolderStore_GroceriesScenario(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	folderID, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	assert.Equal(t, folderID, int64(1))

	// Same flow as the UI: create the to-do, then append it to the folder.
	milk, err := stores.ToDos.Add(ctx, "Milk")
	assert.NilError(t, err)
	assert.NilError(t, stores.Folders.AttachToDo(ctx, folderID, milk))
	eggs, err := stores.ToDos.Add(ctx, "Eggs")
	assert.NilError(t, err)
	assert.NilError(t, stores.Folders.AttachToDo(ctx, folderID, eggs))

	todos, err := stores.Folders.FindAllToDo(ctx, folderID)
	assert.NilError(t, err)
	assert.DeepEqual(t, titles(todos), []string{"Eggs", "Milk"})

	assert.NilError(t, stores.Folders.Delete(ctx, folderID))

	todos, err = stores.Folders.FindAllToDo(ctx, folderID)
	assert.NilError(t, err)
	assert.Equal(t, len(todos), 0)

	for _, id := range []int64{milk, eggs} {
		todo, err := stores.ToDos.FindByID(ctx, id)
		assert.NilError(t, err)
		assert.Assert(t, todo == nil, "todo %d outlived its folder", id)
	}
}

func TestFolderStore_DeleteLeavesOtherFolders(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	home, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	work, err := stores.Folders.Add(ctx, "Work")
	assert.NilError(t, err)
	_, err = stores.Folders.AddToDo(ctx, home, "Vacuum")
	assert.NilError(t, err)
	report, err := stores.Folders.AddToDo(ctx, work, "Report")
	assert.NilError(t, err)
	loose, err := stores.ToDos.Add(ctx, "Loose")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.Delete(ctx, home))

	folders, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, folderTitles(folders), []string{"Work"})

	for _, id := range []int64{report, loose} {
		todo, err := stores.ToDos.FindByID(ctx, id)
		assert.NilError(t, err)
		assert.Assert(t, todo != nil, "todo %d should survive", id)
	}
}

func TestFolderStore_DeleteMissingIsNoop(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.Delete(ctx, 999))

	folders, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(folders), 1)
}

func TestFolderStore_DeleteAll(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	var todoIDs []int64
	for _, title := range []string{"Home", "Work"} {
		id, err := stores.Folders.Add(ctx, title)
		assert.NilError(t, err)
		todoID, err := stores.Folders.AddToDo(ctx, id, title+" task")
		assert.NilError(t, err)
		todoIDs = append(todoIDs, todoID)
	}
	loose, err := stores.ToDos.Add(ctx, "Loose")
	assert.NilError(t, err)
	todoIDs = append(todoIDs, loose)

	assert.NilError(t, stores.Folders.DeleteAll(ctx))

	folders, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(folders), 0)

	for _, id := range todoIDs {
		todo, err := stores.ToDos.FindByID(ctx, id)
		assert.NilError(t, err)
		assert.Assert(t, todo == nil, "todo %d survived DeleteAll", id)
	}
}

func TestFolderStore_UpdateTitle(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, id, "Milk")
	assert.NilError(t, err)
	before, err := stores.Folders.FindByID(ctx, id)
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.Update(ctx, id, model.FolderPatch{Title: model.StringPtr("Shopping")}))

	after, err := stores.Folders.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, after.ID, id)
	assert.Equal(t, after.Title, "Shopping")
	assert.Assert(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.Assert(t, after.UpdatedAt.After(before.UpdatedAt))
	// A title-only patch keeps the to-do list.
	assert.DeepEqual(t, after.ToDoIDs(), []int64{milk})
}

func TestFolderStore_UpdateReplacesToDoList(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, id, "Milk")
	assert.NilError(t, err)
	eggs, err := stores.Folders.AddToDo(ctx, id, "Eggs")
	assert.NilError(t, err)
	bread, err := stores.ToDos.Add(ctx, "Bread")
	assert.NilError(t, err)

	// Reorder, drop Milk, pick up Bread, and ignore an unknown ID.
	err = stores.Folders.Update(ctx, id, model.FolderPatch{ToDoIDs: []int64{bread, 12345, eggs}})
	assert.NilError(t, err)

	folder, err := stores.Folders.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, folder.Title, "Groceries")
	assert.DeepEqual(t, folder.ToDoIDs(), []int64{bread, eggs})

	// Milk is detached but still exists.
	todo, err := stores.ToDos.FindByID(ctx, milk)
	assert.NilError(t, err)
	assert.Assert(t, todo != nil)
}

func TestFolderStore_UpdateEmptyListDetachesAll(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	_, err = stores.Folders.AddToDo(ctx, id, "Milk")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.Update(ctx, id, model.FolderPatch{ToDoIDs: []int64{}}))

	todos, err := stores.Folders.FindAllToDo(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, len(todos), 0)
}

func TestFolderStore_UpdateMovesToDoBetweenFolders(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	home, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	work, err := stores.Folders.Add(ctx, "Work")
	assert.NilError(t, err)
	task, err := stores.Folders.AddToDo(ctx, home, "Call plumber")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.Update(ctx, work, model.FolderPatch{ToDoIDs: []int64{task}}))

	homeToDos, err := stores.Folders.FindAllToDo(ctx, home)
	assert.NilError(t, err)
	assert.Equal(t, len(homeToDos), 0)

	workToDos, err := stores.Folders.FindAllToDo(ctx, work)
	assert.NilError(t, err)
	assert.DeepEqual(t, titles(workToDos), []string{"Call plumber"})
}

func TestFolderStore_UpdateMissingIsNoop(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	before, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)

	err = stores.Folders.Update(ctx, 4242, model.FolderPatch{
		Title:   model.StringPtr("Ghost"),
		ToDoIDs: []int64{},
	})
	assert.NilError(t, err)

	after, err := stores.Folders.FindAll(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, after, before)
}

func TestFolderStore_DeleteAllToDo(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, id, "Milk")
	assert.NilError(t, err)
	eggs, err := stores.Folders.AddToDo(ctx, id, "Eggs")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.DeleteAllToDo(ctx, id))

	folder, err := stores.Folders.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Assert(t, folder != nil, "folder itself must survive")
	assert.Equal(t, len(folder.ToDos), 0)

	for _, todoID := range []int64{milk, eggs} {
		todo, err := stores.ToDos.FindByID(ctx, todoID)
		assert.NilError(t, err)
		assert.Assert(t, todo == nil)
	}

	// Missing folder is a no-op
	assert.NilError(t, stores.Folders.DeleteAllToDo(ctx, 999))
}

func TestFolderStore_FindAllToDoMissingFolder(t *testing.T) {
	stores := newTestStores(t)

	todos, err := stores.Folders.FindAllToDo(context.Background(), 31)
	assert.NilError(t, err)
	assert.Assert(t, todos != nil)
	assert.Equal(t, len(todos), 0)
}

func TestFolderStore_AddToDoMissingFolder(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Folders.AddToDo(ctx, 5, "Orphan")
	assert.Assert(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	// No orphan may be left behind.
	all, err := stores.ToDos.FindAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(all), 0)
}

func TestFolderStore_AttachToDoMissingSides(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	folderID, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	todoID, err := stores.ToDos.Add(ctx, "Loose")
	assert.NilError(t, err)

	assert.NilError(t, stores.Folders.AttachToDo(ctx, folderID, 777))
	assert.NilError(t, stores.Folders.AttachToDo(ctx, 888, todoID))

	folder, err := stores.Folders.FindByID(ctx, folderID)
	assert.NilError(t, err)
	assert.Equal(t, len(folder.ToDos), 0)
}

func TestFolderStore_ReportsChangesAfterCommit(t *testing.T) {
	ctx := context.Background()
	var changes []storage.Change
	stores := storage.NewStores(openTestDB(t), storage.StoreParams{
		Now:      newTestClock().Now,
		OnChange: func(c storage.Change) { changes = append(changes, c) },
	})

	folderID, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, folderID, "Milk")
	assert.NilError(t, err)

	changes = nil
	assert.NilError(t, stores.Folders.Delete(ctx, folderID))

	want := []storage.Change{
		{Entity: storage.EntityToDo, Op: storage.OpDelete, ID: milk},
		{Entity: storage.EntityFolder, Op: storage.OpDelete, ID: folderID},
	}
	assert.DeepEqual(t, changes, want)

	changes = nil
	assert.NilError(t, stores.Folders.Delete(ctx, folderID))
	assert.Equal(t, len(changes), 0)
}
