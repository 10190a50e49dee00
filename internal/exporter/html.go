package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/td/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/todos-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("todos-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders folders and unfiled to-dos as an HTML document.
// Unfiled to-dos come first in a list of their own, then one H2 and list
// per folder, in the order given. A folder's to-dos keep their list order.
func ExportHTML(folders []model.Folder, unfiled []model.ToDo) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>To-Dos</TITLE>\n")
	b.WriteString("<H1>To-Dos</H1>\n")

	if len(unfiled) > 0 {
		writeList(&b, unfiled)
	}

	for _, folder := range folders {
		fmt.Fprintf(&b, "<H2>%s</H2>\n", html.EscapeString(folder.Title))
		writeList(&b, folder.ToDos)
	}

	return b.String()
}

func writeList(b *strings.Builder, todos []model.ToDo) {
	b.WriteString("<UL>\n")
	for _, todo := range todos {
		fmt.Fprintf(b, "    <LI>%s</LI>\n", html.EscapeString(todo.Title))
	}
	b.WriteString("</UL>\n")
}
