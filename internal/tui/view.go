package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/tui/layout"
)

// renderView renders the list | detail layout, or the active modal.
func (a App) renderView() string {
	if a.mode != ModeNormal {
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderListPane(paneWidth, paneHeight),
		a.renderDetailPane(paneWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderBreadcrumb(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderBreadcrumb renders "td" or "td / <folder>" above the panes.
func (a App) renderBreadcrumb() string {
	path := "td"
	if a.nav.Screen == ScreenToDos && a.nav.Folder != nil {
		path = "td / " + a.nav.Folder.Title
	}

	badge := ""
	if a.editing {
		badge = " " + a.styles.EditBadge.Render("EDIT")
	}

	// Terminal width minus app padding (left=2, right=2) and the badge
	availableWidth := a.width - 4 - layout.VisibleLength(badge)
	path, _ = layout.TruncateText(path, availableWidth, a.layoutConfig.Text)

	return a.styles.Breadcrumb.Render(path) + badge
}

func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(a.nav.Items) == 0 {
		if a.nav.Screen == ScreenToDos {
			content.WriteString(a.styles.Empty.Render("(no to-dos, press a to add one)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no folders, press a to add one)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.nav.Cursor, len(a.nav.Items), visibleHeight)

		for i, item := range a.nav.Items {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			content.WriteString(a.renderItem(item, i == a.nav.Cursor, itemWidth) + "\n")
		}
	}

	return a.styles.PaneActive.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderDetailPane shows the selected folder's to-dos or the selected
// to-do's dates.
func (a App) renderDetailPane(width, height int) string {
	var content strings.Builder

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if item, ok := a.nav.Selected(); ok {
		if item.IsFolder() {
			todos := append([]model.ToDo(nil), item.Folder.ToDos...)
			model.SortToDosNewestFirst(todos)

			if len(todos) == 0 {
				content.WriteString(a.styles.Empty.Render("(empty folder)"))
			}
			for i, todo := range todos {
				if i >= visibleHeight {
					break
				}
				content.WriteString(a.renderItem(Item{Kind: ItemToDo, ToDo: &todo}, false, itemWidth) + "\n")
			}
		} else {
			title, _ := layout.TruncateText(item.ToDo.Title, itemWidth, a.layoutConfig.Text)
			content.WriteString(a.styles.Title.Render(title) + "\n\n")
			content.WriteString(a.styles.Date.Render(
				fmt.Sprintf("Created: %s", item.ToDo.CreatedAt.Format("2006-01-02 15:04")),
			) + "\n")
			if item.ToDo.UpdatedAt.After(item.ToDo.CreatedAt) {
				content.WriteString(a.styles.Date.Render(
					fmt.Sprintf("Updated: %s", item.ToDo.UpdatedAt.Format("2006-01-02 15:04")),
				))
			}
		}
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (a App) renderItem(item Item, isCursor bool, maxWidth int) string {
	var prefix, suffix string
	if a.editing && isCursor {
		prefix = "~ "
	}
	if item.IsFolder() {
		suffix = fmt.Sprintf(" (%d)", len(item.Folder.ToDos))
	}

	line, _ := layout.TruncateWithPrefixSuffix(item.Title(), maxWidth, prefix, suffix, a.layoutConfig.Text)

	if isCursor {
		// Pad to fill width for highlight
		if pad := maxWidth - layout.VisibleLength(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return a.styles.ItemSelected.Render(line)
	}
	return a.styles.Item.Render(line)
}

// renderModal renders the current modal dialog.
func (a App) renderModal() string {
	var content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	kind := "Folder"
	if a.nav.Screen == ScreenToDos {
		kind = "To-Do"
	}

	switch a.mode {
	case ModeAdd:
		content.WriteString(a.styles.Title.Render("Add "+kind) + "\n\n")
		content.WriteString("Title:\n")
		content.WriteString(a.modal.TitleInput.View())

	case ModeRename:
		content.WriteString(a.styles.Title.Render("Rename "+kind) + "\n\n")
		content.WriteString("Title:\n")
		content.WriteString(a.modal.TitleInput.View())

	case ModeConfirmDelete:
		content.WriteString(a.styles.Title.Render("Delete "+kind+"?") + "\n\n")
		content.WriteString("\"" + a.modal.EditTitle + "\"\n\n")
		if a.nav.Screen == ScreenFolders && a.modal.EditCount > 0 {
			content.WriteString(a.styles.Help.Render(fmt.Sprintf("Its %d to-dos are deleted too.", a.modal.EditCount)) + "\n")
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeConfirmDeleteAll:
		if a.nav.Screen == ScreenToDos {
			content.WriteString(a.styles.Title.Render("Delete all to-dos?") + "\n\n")
			content.WriteString(fmt.Sprintf("%d to-dos in \"%s\"\n\n", a.modal.EditCount, a.nav.Folder.Title))
		} else {
			content.WriteString(a.styles.Title.Render("Delete all folders?") + "\n\n")
			content.WriteString(fmt.Sprintf("%d folders and every to-do in them\n\n", a.modal.EditCount))
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		a.styles.Modal.Width(modalWidth).Render(content.String()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: keyboard hints for the current mode
	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

func (a App) renderMessageLine() string {
	switch a.messageType {
	case MessageError:
		return a.styles.MessageError.Render(a.messageText)
	case MessageWarning:
		return a.styles.MessageWarn.Render(a.messageText)
	case MessageSuccess:
		return a.styles.MessageOK.Render(a.messageText)
	default:
		return a.styles.MessageInfo.Render(a.messageText)
	}
}
