package model

import "time"

// Folder is a named container that owns an ordered list of to-dos.
type Folder struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ToDos     []ToDo    `json:"todos"`
}

// FolderPatch holds the fields to change on a folder.
// Nil fields are left untouched.
type FolderPatch struct {
	Title *string
	// ToDoIDs replaces the folder's to-do list wholesale when non-nil.
	// An empty non-nil slice detaches every to-do.
	ToDoIDs []int64
}

// ToDoIDs returns the IDs of the folder's to-dos in collection order.
func (f Folder) ToDoIDs() []int64 {
	ids := make([]int64, len(f.ToDos))
	for i, t := range f.ToDos {
		ids[i] = t.ID
	}
	return ids
}

// HasToDo reports whether the to-do with the given ID belongs to the folder.
func (f Folder) HasToDo(id int64) bool {
	for _, t := range f.ToDos {
		if t.ID == id {
			return true
		}
	}
	return false
}
