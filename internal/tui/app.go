package tui

import (
	"context"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/tui/layout"
)

// FolderService is the folder side of the data layer used by the app.
type FolderService interface {
	Add(ctx context.Context, title string) (int64, error)
	Update(ctx context.Context, id int64, patch model.FolderPatch) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	FindByID(ctx context.Context, id int64) (*model.Folder, error)
	FindAll(ctx context.Context) ([]model.Folder, error)
	DeleteAllToDo(ctx context.Context, folderID int64) error
	FindAllToDo(ctx context.Context, folderID int64) ([]model.ToDo, error)
	AddToDo(ctx context.Context, folderID int64, title string) (int64, error)
}

// ToDoService is the to-do side of the data layer used by the app.
type ToDoService interface {
	Update(ctx context.Context, id int64, patch model.ToDoPatch) error
	Delete(ctx context.Context, id int64) error
}

// App is the main bubbletea model for the to-do list.
type App struct {
	ctx       context.Context
	folders   FolderService
	todos     ToDoService
	changes   *ChangeTracker
	logger    *log.Logger
	clipboard func(string) error

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	confirmDelete bool
	editing       bool
	mode          Mode

	nav   Nav
	modal ModalState

	// Status message shown above the hints
	messageType MessageType
	messageText string

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Ctx           context.Context // optional, defaults to context.Background()
	Folders       FolderService
	ToDos         ToDoService
	Changes       *ChangeTracker     // optional, nil re-reads after every mutation
	Logger        *log.Logger        // optional, discards if nil
	Clipboard     func(string) error // optional, uses the system clipboard if nil
	ConfirmDelete bool
	Keys          *KeyMap              // optional, uses default if nil
	Styles        *Styles              // optional, uses default if nil
	LayoutConfig  *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	ctx := params.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	logger := params.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	app := App{
		ctx:           ctx,
		folders:       params.Folders,
		todos:         params.ToDos,
		changes:       params.Changes,
		logger:        logger,
		clipboard:     copyFn,
		keys:          keys,
		styles:        styles,
		layoutConfig:  layoutConfig,
		confirmDelete: params.ConfirmDelete,
		mode:          ModeNormal,
		nav:           Nav{Screen: ScreenFolders},
		modal:         NewModalState(layoutConfig),
		width:         80,
		height:        24,
	}

	app.refreshItems()
	return app
}

// refreshItems re-reads the list for the current screen.
func (a *App) refreshItems() {
	if a.nav.Screen == ScreenToDos {
		a.refreshToDos()
	} else {
		a.refreshFolders()
	}
	a.nav.ClampCursor()
}

func (a *App) refreshFolders() {
	folders, err := a.folders.FindAll(a.ctx)
	if err != nil {
		a.fail("Load failed", err)
		return
	}
	a.nav.Items = folderItems(folders)
}

func (a *App) refreshToDos() {
	folder, err := a.folders.FindByID(a.ctx, a.nav.Folder.ID)
	if err != nil {
		a.fail("Load failed", err)
		return
	}
	if folder == nil {
		// The open folder is gone, fall back to the folder list.
		a.nav.Screen = ScreenFolders
		a.nav.Folder = nil
		a.nav.Cursor = a.nav.FolderCursor
		a.refreshFolders()
		return
	}
	a.nav.Folder = folder

	todos, err := a.folders.FindAllToDo(a.ctx, folder.ID)
	if err != nil {
		a.fail("Load failed", err)
		return
	}
	a.nav.Items = todoItems(todos)
}

// syncAfterMutation re-reads the current list once the stores reported
// a change, or unconditionally when no tracker is wired.
func (a *App) syncAfterMutation() {
	if a.changes == nil || a.changes.TakeDirty() {
		a.refreshItems()
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageType = MessageNone
	a.messageText = ""
}

// fail logs err and shows it in the status line.
func (a *App) fail(action string, err error) {
	a.logger.Error(strings.ToLower(action), "err", err)
	a.setMessage(MessageError, action+": "+err.Error())
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.nav.Cursor
}

// Items returns the current list of items.
func (a App) Items() []Item {
	return a.nav.Items
}

// Screen returns the screen being shown.
func (a App) Screen() Screen {
	return a.nav.Screen
}

// CurrentFolderID returns the ID of the open folder (0 on the folder screen).
func (a App) CurrentFolderID() int64 {
	return a.nav.FolderID()
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Editing reports whether edit mode is on.
func (a App) Editing() bool {
	return a.editing
}

// Message returns the current status message.
func (a App) Message() (MessageType, string) {
	return a.messageType, a.messageText
}

// InputValue returns the text currently in the modal input.
func (a App) InputValue() string {
	return a.modal.TitleInput.Value()
}

// WithDimensions returns a copy of the app with a fixed window size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.mode != ModeNormal {
			return a.updateModal(msg)
		}
		return a.updateNormal(msg)
	}

	// Cursor blink and friends go to the input while it is shown
	if a.mode == ModeAdd || a.mode == ModeRename {
		var cmd tea.Cmd
		a.modal.TitleInput, cmd = a.modal.TitleInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.nav.Cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.nav.Items) > 0 && a.nav.Cursor < len(a.nav.Items)-1 {
			a.nav.Cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.nav.Cursor > 0 {
			a.nav.Cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.nav.Items) > 0 {
			a.nav.Cursor = len(a.nav.Items) - 1
		}

	case key.Matches(msg, a.keys.Edit):
		a.editing = !a.editing
		if a.editing {
			a.setMessage(MessageInfo, "Edit mode: enter renames")
		}

	case a.editing && key.Matches(msg, a.keys.Rename):
		return a.openRename()

	case key.Matches(msg, a.keys.Open):
		a.openFolder()

	case key.Matches(msg, a.keys.Back):
		a.backToFolders()

	case key.Matches(msg, a.keys.Add):
		return a.openAdd()

	case key.Matches(msg, a.keys.Delete):
		a.requestDelete()

	case key.Matches(msg, a.keys.DeleteAll):
		a.requestDeleteAll()

	case key.Matches(msg, a.keys.Yank):
		a.yankTitle()
	}

	return a, nil
}

func (a *App) openFolder() {
	item, ok := a.nav.Selected()
	if !ok || !item.IsFolder() {
		return
	}
	a.nav.FolderCursor = a.nav.Cursor
	a.nav.Screen = ScreenToDos
	a.nav.Folder = item.Folder
	a.nav.Cursor = 0
	a.refreshItems()
}

func (a *App) backToFolders() {
	if a.nav.Screen != ScreenToDos {
		return
	}
	a.nav.Screen = ScreenFolders
	a.nav.Folder = nil
	a.nav.Cursor = a.nav.FolderCursor
	a.refreshItems()
}

func (a App) openAdd() (tea.Model, tea.Cmd) {
	a.modal.ResetInputs()
	a.mode = ModeAdd
	return a, a.modal.TitleInput.Focus()
}

func (a App) openRename() (tea.Model, tea.Cmd) {
	item, ok := a.nav.Selected()
	if !ok {
		return a, nil
	}
	a.modal.ResetInputs()
	a.modal.EditItemID = item.ID()
	a.modal.EditTitle = item.Title()
	a.modal.TitleInput.SetValue(item.Title())
	a.mode = ModeRename
	return a, a.modal.TitleInput.Focus()
}

func (a *App) requestDelete() {
	item, ok := a.nav.Selected()
	if !ok {
		return
	}
	a.modal.ResetInputs()
	a.modal.EditItemID = item.ID()
	a.modal.EditTitle = item.Title()
	if item.IsFolder() {
		a.modal.EditCount = len(item.Folder.ToDos)
	}

	if a.confirmDelete {
		a.mode = ModeConfirmDelete
		return
	}
	a.deleteItem()
}

func (a *App) requestDeleteAll() {
	if len(a.nav.Items) == 0 {
		a.setMessage(MessageWarning, "Nothing to delete")
		return
	}
	a.modal.ResetInputs()
	a.modal.EditCount = len(a.nav.Items)
	a.mode = ModeConfirmDeleteAll
}

func (a *App) yankTitle() {
	item, ok := a.nav.Selected()
	if !ok {
		return
	}
	if err := a.clipboard(item.Title()); err != nil {
		a.fail("Copy failed", err)
		return
	}
	a.setMessage(MessageSuccess, "Copied: "+item.Title())
}

func (a App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeAdd, ModeRename:
		switch msg.Type {
		case tea.KeyEnter:
			a.submitTitle()
			return a, nil
		case tea.KeyEsc:
			a.closeModal()
			return a, nil
		}
		var cmd tea.Cmd
		a.modal.TitleInput, cmd = a.modal.TitleInput.Update(msg)
		return a, cmd

	case ModeConfirmDelete, ModeConfirmDeleteAll:
		switch {
		case key.Matches(msg, a.keys.Confirm):
			if a.mode == ModeConfirmDelete {
				a.deleteItem()
			} else {
				a.deleteAll()
			}
			a.closeModal()
		case key.Matches(msg, a.keys.Cancel):
			a.closeModal()
		}
	}
	return a, nil
}

func (a *App) closeModal() {
	a.mode = ModeNormal
	a.modal.ResetInputs()
}

// submitTitle validates the modal input and adds or renames the item.
// An empty title keeps the modal open.
func (a *App) submitTitle() {
	title := strings.TrimSpace(a.modal.TitleInput.Value())
	if title == "" {
		a.setMessage(MessageError, "Title cannot be empty")
		return
	}

	if a.mode == ModeAdd {
		a.addItem(title)
	} else {
		a.renameItem(title)
	}
	a.closeModal()
}

func (a *App) addItem(title string) {
	var (
		id  int64
		err error
	)
	if a.nav.Screen == ScreenToDos {
		id, err = a.folders.AddToDo(a.ctx, a.nav.Folder.ID, title)
	} else {
		id, err = a.folders.Add(a.ctx, title)
	}
	if err != nil {
		a.fail("Add failed", err)
		// The open folder may have vanished underneath us
		a.refreshItems()
		return
	}

	a.syncAfterMutation()
	a.nav.SelectID(id)
	a.setMessage(MessageSuccess, "Added: "+title)
}

func (a *App) renameItem(title string) {
	id := a.modal.EditItemID
	var err error
	if a.nav.Screen == ScreenToDos {
		err = a.todos.Update(a.ctx, id, model.ToDoPatch{Title: &title})
	} else {
		err = a.folders.Update(a.ctx, id, model.FolderPatch{Title: &title})
	}
	if err != nil {
		a.fail("Rename failed", err)
		return
	}

	a.syncAfterMutation()
	a.nav.SelectID(id)
	a.setMessage(MessageSuccess, "Renamed: "+title)
}

func (a *App) deleteItem() {
	id := a.modal.EditItemID
	var err error
	if a.nav.Screen == ScreenToDos {
		err = a.todos.Delete(a.ctx, id)
	} else {
		err = a.folders.Delete(a.ctx, id)
	}
	if err != nil {
		a.fail("Delete failed", err)
		return
	}

	a.syncAfterMutation()
	a.setMessage(MessageSuccess, "Deleted: "+a.modal.EditTitle)
}

func (a *App) deleteAll() {
	var err error
	if a.nav.Screen == ScreenToDos {
		err = a.folders.DeleteAllToDo(a.ctx, a.nav.Folder.ID)
	} else {
		err = a.folders.DeleteAll(a.ctx)
	}
	if err != nil {
		a.fail("Delete failed", err)
		return
	}

	a.syncAfterMutation()
	a.nav.Cursor = 0
	a.setMessage(MessageSuccess, "Deleted everything")
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
