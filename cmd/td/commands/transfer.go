package commands

import (
	"fmt"
	"os"

	"github.com/nikbrunner/td/internal/exporter"
	"github.com/nikbrunner/td/internal/importer"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export folders and to-dos to HTML",
		Long: `Export folders and to-dos to an HTML file.

Without a path the file goes to ~/Downloads/todos-export-YYYY-MM-DD.html.
Use "-" to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := ""
			if len(args) == 1 {
				outputPath = args[0]
			}
			if outputPath == "" {
				var err error
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("failed to resolve export path: %w", err)
				}
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			folders, err := s.stores.Folders.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			unfiled, err := s.stores.ToDos.FindUnfiled(cmd.Context())
			if err != nil {
				return err
			}

			html := exporter.ExportHTML(folders, unfiled)
			if outputPath == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}

			s.logger.Info("exported", "folders", len(folders), "unfiled", len(unfiled), "path", outputPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d folders to %s\n", len(folders), outputPath)
			return nil
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import folders and to-dos from an HTML export",
		Long: `Import folders and to-dos from a file written by "td export".

Imported records are added next to the existing ones with new IDs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			doc, err := importer.ParseHTML(file)
			if err != nil {
				return fmt.Errorf("failed to parse HTML: %w", err)
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := importer.Import(cmd.Context(), doc, s.stores.Folders, s.stores.ToDos)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d folders, %d to-dos\n", res.Folders, res.ToDos)
			return nil
		},
	}
}
