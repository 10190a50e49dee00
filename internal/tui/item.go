package tui

import "github.com/nikbrunner/td/internal/model"

// ItemKind distinguishes between folders and to-dos in a list.
type ItemKind int

const (
	ItemFolder ItemKind = iota
	ItemToDo
)

// Item represents either a folder or a to-do in the list.
type Item struct {
	Kind   ItemKind
	Folder *model.Folder
	ToDo   *model.ToDo
}

// ID returns the item's ID regardless of type.
func (i Item) ID() int64 {
	if i.Kind == ItemFolder {
		return i.Folder.ID
	}
	return i.ToDo.ID
}

// Title returns a display title for the item.
func (i Item) Title() string {
	if i.Kind == ItemFolder {
		return i.Folder.Title
	}
	return i.ToDo.Title
}

// IsFolder returns true if this item is a folder.
func (i Item) IsFolder() bool {
	return i.Kind == ItemFolder
}

func folderItems(folders []model.Folder) []Item {
	items := make([]Item, len(folders))
	for i := range folders {
		items[i] = Item{Kind: ItemFolder, Folder: &folders[i]}
	}
	return items
}

func todoItems(todos []model.ToDo) []Item {
	items := make([]Item, len(todos))
	for i := range todos {
		items[i] = Item{Kind: ItemToDo, ToDo: &todos[i]}
	}
	return items
}
