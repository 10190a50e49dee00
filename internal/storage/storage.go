package storage

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// StoreParams holds optional collaborators shared by the stores.
type StoreParams struct {
	Logger   *log.Logger      // optional, discards output if nil
	Now      func() time.Time // optional, uses time.Now if nil
	OnChange ChangeFunc       // optional, called after each committed mutation
}

func (p StoreParams) withDefaults() StoreParams {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

// Stores bundles the folder and to-do stores that share one database.
type Stores struct {
	Folders *FolderStore
	ToDos   *ToDoStore
}

// NewStores wires a ToDoStore and a FolderStore cascading into it.
func NewStores(db *DB, params StoreParams) Stores {
	todos := NewToDoStore(db, params)
	return Stores{
		Folders: NewFolderStore(db, todos, params),
		ToDos:   todos,
	}
}

// notify reports changes in order. Safe to call with a nil ChangeFunc.
func notify(fn ChangeFunc, changes ...Change) {
	if fn == nil {
		return
	}
	for _, c := range changes {
		fn(c)
	}
}

// scannable is satisfied by *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n)
}
