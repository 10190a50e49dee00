package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/tui/layout"
)

// Screen identifies which list the app is showing.
type Screen int

const (
	ScreenFolders Screen = iota
	ScreenToDos
)

// Mode is the interaction mode on top of the current screen.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeRename
	ModeConfirmDelete
	ModeConfirmDeleteAll
)

// MessageType controls how a status message is styled.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageError
	MessageWarning
	MessageSuccess
	MessageInfo
)

// ModalState holds state for the add/rename/confirm modals.
type ModalState struct {
	TitleInput textinput.Model // Title input for folders and to-dos
	EditItemID int64           // ID of the item being renamed or deleted
	EditTitle  string          // Title of that item, for the confirm text
	EditCount  int             // To-dos that go with a deleted folder
}

// NewModalState creates a new ModalState with an initialized input.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	return ModalState{TitleInput: titleInput}
}

// ResetInputs clears the modal for a new session.
func (m *ModalState) ResetInputs() {
	m.TitleInput.Reset()
	m.TitleInput.Blur()
	m.EditItemID = 0
	m.EditTitle = ""
	m.EditCount = 0
}

// Nav holds the navigation state between the two screens.
type Nav struct {
	Screen       Screen
	Folder       *model.Folder // open folder on ScreenToDos
	Cursor       int
	FolderCursor int // cursor on the folder screen, restored on back
	Items        []Item
}

// FolderID returns the ID of the open folder, or 0 on the folder screen.
func (n *Nav) FolderID() int64 {
	if n.Screen != ScreenToDos || n.Folder == nil {
		return 0
	}
	return n.Folder.ID
}

// Selected returns the item under the cursor.
func (n *Nav) Selected() (Item, bool) {
	if n.Cursor < 0 || n.Cursor >= len(n.Items) {
		return Item{}, false
	}
	return n.Items[n.Cursor], true
}

// ClampCursor keeps the cursor inside the item list.
func (n *Nav) ClampCursor() {
	if n.Cursor >= len(n.Items) {
		n.Cursor = len(n.Items) - 1
	}
	if n.Cursor < 0 {
		n.Cursor = 0
	}
}

// SelectID moves the cursor to the item with the given ID, if present.
func (n *Nav) SelectID(id int64) {
	for i, item := range n.Items {
		if item.ID() == id {
			n.Cursor = i
			return
		}
	}
}
