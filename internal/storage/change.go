package storage

// Entity identifies the kind of record a Change refers to.
type Entity int

const (
	EntityFolder Entity = iota
	EntityToDo
)

func (e Entity) String() string {
	if e == EntityFolder {
		return "folder"
	}
	return "todo"
}

// Op is the kind of mutation a Change describes.
type Op int

const (
	OpAdd Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	default:
		return "delete"
	}
}

// Change describes a committed mutation.
// ID is 0 for bulk operations such as DeleteAll.
type Change struct {
	Entity Entity
	Op     Op
	ID     int64
}

// ChangeFunc is called after every committed mutation.
type ChangeFunc func(Change)
