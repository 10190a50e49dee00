package model

import (
	"sort"
	"time"
)

// ToDo is a titled task.
type ToDo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDoPatch holds the fields to change on a to-do.
type ToDoPatch struct {
	Title *string
}

// StringPtr returns a pointer to s. Handy for building patches.
func StringPtr(s string) *string { return &s }

// SortToDosNewestFirst orders to-dos by creation time, most recent first.
// Equal timestamps fall back to the higher (later allocated) ID.
func SortToDosNewestFirst(todos []ToDo) {
	sort.SliceStable(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}
