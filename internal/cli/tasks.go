package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"todotree/internal/printer"
	"todotree/internal/task"
)

func newListCmd(app *App) *cobra.Command {
	var hideIDs bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(true); err != nil {
				return err
			}
			v, err := app.coord.Load()
			if err != nil {
				return err
			}
			p := printer.New(cmd.OutOrStdout())
			p.ShowID = !hideIDs
			p.Print(v.Flat)
			return nil
		},
	}
	cmd.Flags().BoolVar(&hideIDs, "no-ids", false, "Hide task ids")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.open(true); err != nil {
				return err
			}
			t, err := app.coord.Get(id)
			if err != nil {
				return err
			}
			kids, err := app.coord.Children(id)
			if err != nil {
				return err
			}
			printer.New(cmd.OutOrStdout()).Detail(t, kids)
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var parent int64
	var description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(true); err != nil {
				return err
			}
			var parentID *int64
			if cmd.Flags().Changed("parent") {
				parentID = &parent
			}
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			id, err := app.coord.Create(args[0], parentID, desc)
			if errors.Is(err, task.ErrValidation) {
				fmt.Fprintln(cmd.ErrOrStderr(), "task name is empty, nothing added")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added task %d\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&parent, "parent", 0, "Parent task id")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.open(true); err != nil {
				return err
			}
			if err := app.coord.ToggleCompletion(id); err != nil {
				return err
			}
			t, err := app.coord.Get(id)
			if err != nil {
				return err
			}
			state := color.New(color.FgWhite).Sprint("open")
			if t.Completed {
				state = color.New(color.FgGreen).Sprint("completed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task %d is %s\n", id, state)
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task and all of its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.open(true); err != nil {
				return err
			}
			if _, err := app.coord.Get(id); err != nil {
				return err
			}
			if err := app.coord.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		},
	}
}

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo task hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(true); err != nil {
				return err
			}
			if err := app.store.Seed(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded demo tasks")
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
