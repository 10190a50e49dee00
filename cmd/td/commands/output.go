package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nikbrunner/td/internal/model"
)

const timeFormat = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printFolders(w io.Writer, folders []model.Folder) {
	if len(folders) == 0 {
		fmt.Fprintln(w, "No folders")
		return
	}

	t := newTable("ID", "TITLE", "TODOS", "CREATED")
	for _, f := range folders {
		t.Row(
			strconv.FormatInt(f.ID, 10),
			f.Title,
			strconv.Itoa(len(f.ToDos)),
			f.CreatedAt.Local().Format(timeFormat),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printToDos(w io.Writer, todos []model.ToDo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No to-dos")
		return
	}

	t := newTable("ID", "TITLE", "CREATED", "UPDATED")
	for _, td := range todos {
		t.Row(
			strconv.FormatInt(td.ID, 10),
			td.Title,
			td.CreatedAt.Local().Format(timeFormat),
			td.UpdatedAt.Local().Format(timeFormat),
		)
	}
	fmt.Fprintln(w, t.Render())
}
