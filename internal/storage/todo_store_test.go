package storage_test

import (
	"context"
	"testing"

	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/storage"
	"gotest.tools/v3/assert"
)

func TestToDoStore_AddAndFind(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.ToDos.Add(ctx, "Milk")
	assert.NilError(t, err)

	todo, err := stores.ToDos.FindByID(ctx, id)
	assert.NilError(t, err)
	if todo == nil {
		t.Fatal("expected to find todo")
	}
	assert.Equal(t, todo.ID, id)
	assert.Equal(t, todo.Title, "Milk")
	assert.Assert(t, !todo.CreatedAt.IsZero(), "expected creation timestamp")
}

func TestToDoStore_AddEmptyTitle(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.ToDos.Add(ctx, "")
	assert.NilError(t, err)

	todo, err := stores.ToDos.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, todo.Title, "")
}

func TestToDoStore_DistinctIDs(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 25; i++ {
		id, err := stores.ToDos.Add(ctx, "item")
		assert.NilError(t, err)
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
}

func TestToDoStore_FindByIDMissing(t *testing.T) {
	stores := newTestStores(t)

	todo, err := stores.ToDos.FindByID(context.Background(), 42)
	assert.NilError(t, err)
	if todo != nil {
		t.Errorf("expected nil for missing todo, got %+v", todo)
	}
}

func TestToDoStore_Update(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.ToDos.Add(ctx, "Milk")
	assert.NilError(t, err)
	before, err := stores.ToDos.FindByID(ctx, id)
	assert.NilError(t, err)

	assert.NilError(t, stores.ToDos.Update(ctx, id, model.ToDoPatch{Title: model.StringPtr("Oat milk")}))

	after, err := stores.ToDos.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, after.ID, id)
	assert.Equal(t, after.Title, "Oat milk")
	assert.Assert(t, after.CreatedAt.Equal(before.CreatedAt), "creation time must not change on update")
	assert.Assert(t, after.UpdatedAt.After(before.UpdatedAt), "update time should be refreshed")
}

func TestToDoStore_UpdateNilTitleKeepsTitle(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	id, err := stores.ToDos.Add(ctx, "Milk")
	assert.NilError(t, err)

	assert.NilError(t, stores.ToDos.Update(ctx, id, model.ToDoPatch{}))

	todo, err := stores.ToDos.FindByID(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, todo.Title, "Milk")
}

func TestToDoStore_UpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	var changes []storage.Change
	todos := storage.NewToDoStore(openTestDB(t), storage.StoreParams{
		OnChange: func(c storage.Change) { changes = append(changes, c) },
	})

	assert.NilError(t, todos.Update(ctx, 99, model.ToDoPatch{Title: model.StringPtr("x")}))
	assert.Equal(t, len(changes), 0)

	all, err := todos.FindAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(all), 0)
}

func TestToDoStore_Delete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	keep, err := stores.ToDos.Add(ctx, "Keep")
	assert.NilError(t, err)
	drop, err := stores.ToDos.Add(ctx, "Drop")
	assert.NilError(t, err)

	assert.NilError(t, stores.ToDos.Delete(ctx, drop))

	gone, err := stores.ToDos.FindByID(ctx, drop)
	assert.NilError(t, err)
	assert.Assert(t, gone == nil)

	kept, err := stores.ToDos.FindByID(ctx, keep)
	assert.NilError(t, err)
	assert.Assert(t, kept != nil)

	// Deleting again is a silent no-op
	assert.NilError(t, stores.ToDos.Delete(ctx, drop))
}

func TestToDoStore_DeleteRemovesFolderReference(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	folderID, err := stores.Folders.Add(ctx, "Groceries")
	assert.NilError(t, err)
	milk, err := stores.Folders.AddToDo(ctx, folderID, "Milk")
	assert.NilError(t, err)
	eggs, err := stores.Folders.AddToDo(ctx, folderID, "Eggs")
	assert.NilError(t, err)

	assert.NilError(t, stores.ToDos.Delete(ctx, milk))

	folder, err := stores.Folders.FindByID(ctx, folderID)
	assert.NilError(t, err)
	assert.DeepEqual(t, folder.ToDoIDs(), []int64{eggs})
}

func TestToDoStore_DeleteAll(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	folderID, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	filed, err := stores.Folders.AddToDo(ctx, folderID, "Vacuum")
	assert.NilError(t, err)
	loose, err := stores.ToDos.Add(ctx, "Loose")
	assert.NilError(t, err)

	assert.NilError(t, stores.ToDos.DeleteAll(ctx))

	for _, id := range []int64{filed, loose} {
		todo, err := stores.ToDos.FindByID(ctx, id)
		assert.NilError(t, err)
		assert.Assert(t, todo == nil, "todo %d survived DeleteAll", id)
	}

	// The folder itself stays, now empty.
	folder, err := stores.Folders.FindByID(ctx, folderID)
	assert.NilError(t, err)
	assert.Equal(t, len(folder.ToDos), 0)
}

func TestToDoStore_FindAllNewestFirst(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := stores.ToDos.Add(ctx, title)
		assert.NilError(t, err)
	}

	todos, err := stores.ToDos.FindAll(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, titles(todos), []string{"third", "second", "first"})
}

func TestToDoStore_FindUnfiled(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	folderID, err := stores.Folders.Add(ctx, "Home")
	assert.NilError(t, err)
	_, err = stores.Folders.AddToDo(ctx, folderID, "Filed")
	assert.NilError(t, err)
	_, err = stores.ToDos.Add(ctx, "Loose")
	assert.NilError(t, err)

	unfiled, err := stores.ToDos.FindUnfiled(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, titles(unfiled), []string{"Loose"})
}

func TestToDoStore_ReportsChanges(t *testing.T) {
	ctx := context.Background()
	var changes []storage.Change
	todos := storage.NewToDoStore(openTestDB(t), storage.StoreParams{
		OnChange: func(c storage.Change) { changes = append(changes, c) },
	})

	id, err := todos.Add(ctx, "Milk")
	assert.NilError(t, err)
	assert.NilError(t, todos.Update(ctx, id, model.ToDoPatch{Title: model.StringPtr("Tea")}))
	assert.NilError(t, todos.Delete(ctx, id))
	assert.NilError(t, todos.Delete(ctx, id)) // no-op, not reported

	want := []storage.Change{
		{Entity: storage.EntityToDo, Op: storage.OpAdd, ID: id},
		{Entity: storage.EntityToDo, Op: storage.OpUpdate, ID: id},
		{Entity: storage.EntityToDo, Op: storage.OpDelete, ID: id},
	}
	assert.DeepEqual(t, changes, want)
}

func titles(todos []model.ToDo) []string {
	out := []string{}
	for _, t := range todos {
		out = append(out, t.Title)
	}
	return out
}
