package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed to-do export.
type Document struct {
	Folders []Folder
	Unfiled []string // to-dos listed before the first folder heading
}

// Folder is one heading of an export and the to-dos listed under it.
type Folder struct {
	Title string
	ToDos []string
}

// ParseHTML parses an HTML to-do export: every H2 starts a folder and
// every LI is a to-do of the folder above it.
func ParseHTML(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, err
	}

	var doc Document

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h2":
				if title := getTextContent(n); title != "" {
					doc.Folders = append(doc.Folders, Folder{Title: title, ToDos: []string{}})
				}
				return // Don't recurse into H2

			case "li":
				title := getTextContent(n)
				if title == "" {
					return
				}
				if len(doc.Folders) == 0 {
					doc.Unfiled = append(doc.Unfiled, title)
				} else {
					last := &doc.Folders[len(doc.Folders)-1]
					last.ToDos = append(last.ToDos, title)
				}
				return // Don't recurse into LI
			}
		}

		// Recurse into children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(root)
	return doc, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// FolderAdder creates folders and to-dos inside them.
type FolderAdder interface {
	Add(ctx context.Context, title string) (int64, error)
	AddToDo(ctx context.Context, folderID int64, title string) (int64, error)
}

// ToDoAdder creates unfiled to-dos.
type ToDoAdder interface {
	Add(ctx context.Context, title string) (int64, error)
}

// Result counts what Import created.
type Result struct {
	Folders int
	ToDos   int
}

// Import recreates doc through the stores. Folders and unfiled to-dos are
// added last-to-first so a newest-first listing matches the document;
// to-dos inside a folder keep their order. Records get fresh IDs.
func Import(ctx context.Context, doc Document, folders FolderAdder, todos ToDoAdder) (Result, error) {
	var res Result

	for i := len(doc.Unfiled) - 1; i >= 0; i-- {
		if _, err := todos.Add(ctx, doc.Unfiled[i]); err != nil {
			return res, fmt.Errorf("failed to import to-do %q: %w", doc.Unfiled[i], err)
		}
		res.ToDos++
	}

	for i := len(doc.Folders) - 1; i >= 0; i-- {
		f := doc.Folders[i]
		folderID, err := folders.Add(ctx, f.Title)
		if err != nil {
			return res, fmt.Errorf("failed to import folder %q: %w", f.Title, err)
		}
		res.Folders++

		for _, title := range f.ToDos {
			if _, err := folders.AddToDo(ctx, folderID, title); err != nil {
				return res, fmt.Errorf("failed to import to-do %q: %w", title, err)
			}
			res.ToDos++
		}
	}

	return res, nil
}
