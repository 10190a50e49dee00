package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/storage"
	"github.com/spf13/cobra"
)

func newToDoCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"t"},
		Short:   "Manage to-dos",
	}

	cmd.AddCommand(newToDoAddCommand(opts))
	cmd.AddCommand(newToDoListCommand(opts))
	cmd.AddCommand(newToDoRenameCommand(opts))
	cmd.AddCommand(newToDoRemoveCommand(opts))
	cmd.AddCommand(newToDoMoveCommand(opts))

	return cmd
}

func newToDoAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <folder-id> <title>",
		Short:   "Add a to-do to a folder and print its ID",
		Example: `  td todo add 1 Buy milk`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.stores.Folders.AddToDo(cmd.Context(), folderID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newToDoListCommand(opts *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		unfiled    bool
	)

	cmd := &cobra.Command{
		Use:     "ls [folder-id]",
		Aliases: []string{"list"},
		Short:   "List to-dos, newest first",
		Long: `List to-dos, newest first.

With a folder ID, lists that folder's to-dos. With --unfiled, lists
to-dos that belong to no folder. Otherwise lists every to-do.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unfiled && len(args) > 0 {
				return errors.New("--unfiled takes no folder ID")
			}

			var folderID int64
			if len(args) == 1 {
				var err error
				if folderID, err = parseID(args[0]); err != nil {
					return err
				}
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var todos []model.ToDo
			switch {
			case unfiled:
				todos, err = s.stores.ToDos.FindUnfiled(cmd.Context())
			case folderID != 0:
				if err := s.requireFolder(cmd, folderID); err != nil {
					return err
				}
				todos, err = s.stores.Folders.FindAllToDo(cmd.Context(), folderID)
			default:
				todos, err = s.stores.ToDos.FindAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), todos)
			}
			printToDos(cmd.OutOrStdout(), todos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "list to-dos that belong to no folder")
	return cmd
}

func newToDoRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a to-do",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireToDo(cmd, id); err != nil {
				return err
			}
			return s.stores.ToDos.Update(cmd.Context(), id, model.ToDoPatch{Title: &title})
		},
	}
}

func newToDoRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a to-do",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireToDo(cmd, id); err != nil {
				return err
			}
			return s.stores.ToDos.Delete(cmd.Context(), id)
		},
	}
}

func newToDoMoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <folder-id>",
		Short: "Move a to-do to the end of another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			folderID, err := parseID(args[1])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireToDo(cmd, id); err != nil {
				return err
			}
			if err := s.requireFolder(cmd, folderID); err != nil {
				return err
			}
			return s.stores.Folders.AttachToDo(cmd.Context(), folderID, id)
		},
	}
}

func (s *session) requireToDo(cmd *cobra.Command, id int64) error {
	todo, err := s.stores.ToDos.FindByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if todo == nil {
		return fmt.Errorf("todo %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
