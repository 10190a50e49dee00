package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nikbrunner/td/internal/model"
	"github.com/nikbrunner/td/internal/storage"
	"github.com/spf13/cobra"
)

func newFolderCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"f"},
		Short:   "Manage folders",
	}

	cmd.AddCommand(newFolderAddCommand(opts))
	cmd.AddCommand(newFolderListCommand(opts))
	cmd.AddCommand(newFolderRenameCommand(opts))
	cmd.AddCommand(newFolderRemoveCommand(opts))
	cmd.AddCommand(newFolderClearCommand(opts))
	cmd.AddCommand(newFolderOrderCommand(opts))
	cmd.AddCommand(newFolderPurgeCommand(opts))

	return cmd
}

func newFolderAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a folder and print its ID",
		Example: `  td folder add Groceries`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.stores.Folders.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newFolderListCommand(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List folders, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			folders, err := s.stores.Folders.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), folders)
			}
			printFolders(cmd.OutOrStdout(), folders)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newFolderRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a folder",
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

			if err := s.requireFolder(cmd, id); err != nil {
				return err
			}
			return s.stores.Folders.Update(cmd.Context(), id, model.FolderPatch{Title: &title})
		},
	}
}

func newFolderRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a folder and all of its to-dos",
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

			if err := s.requireFolder(cmd, id); err != nil {
				return err
			}
			return s.stores.Folders.Delete(cmd.Context(), id)
		},
	}
}

func newFolderClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Delete every to-do in a folder, keeping the folder",
		Args:  cobra.ExactArgs(1),
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

			if err := s.requireFolder(cmd, id); err != nil {
				return err
			}
			return s.stores.Folders.DeleteAllToDo(cmd.Context(), id)
		},
	}
}

func newFolderOrderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id> [todo-id...]",
		Short: "Replace a folder's to-do list with the given to-dos, in order",
		Long: `Replace a folder's to-do list with the given to-dos, in order.

To-dos left out stay in the store, unfiled. To-dos filed elsewhere move
to this folder. Unknown IDs are skipped. With no to-do IDs the folder
is emptied without deleting anything.`,
		Example: `  td folder order 1 7 3 5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			todoIDs := make([]int64, 0, len(args)-1)
			for _, arg := range args[1:] {
				todoID, err := parseID(arg)
				if err != nil {
					return err
				}
				todoIDs = append(todoIDs, todoID)
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireFolder(cmd, id); err != nil {
				return err
			}
			return s.stores.Folders.Update(cmd.Context(), id, model.FolderPatch{ToDoIDs: todoIDs})
		},
	}
}

func newFolderPurgeCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every folder and every to-do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete everything without --yes")
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.stores.Folders.DeleteAll(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting everything")
	return cmd
}

// requireFolder turns the store's silent no-op on a missing folder into
// an error the user can see.
func (s *session) requireFolder(cmd *cobra.Command, id int64) error {
	folder, err := s.stores.Folders.FindByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if folder == nil {
		return fmt.Errorf("folder %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
