package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/api/response"
)

func newChecklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Shared couple checklist commands",
	}

	cmd.AddCommand(newChecklistListCmd())
	cmd.AddCommand(newChecklistAddCmd())
	cmd.AddCommand(newChecklistDoneCmd())
	cmd.AddCommand(newChecklistRmCmd())

	return cmd
}

func newChecklistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your couple's checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.ChecklistItem
			if err := client.Get("/api/checklist", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newChecklistAddCmd() *cobra.Command {
	var category, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a checklist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateChecklistItemRequest{
				Title:    args[0],
				Category: category,
			}
			if due != "" {
				req.DueDate = &due
			}

			var result response.ChecklistItem
			if err := client.Post("/api/checklist", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category, e.g. venue")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func newChecklistDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a checklist item done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done := !undo
			req := request.UpdateChecklistItemRequest{Done: &done}

			var result response.ChecklistItem
			if err := client.Patch(itemPath(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the item not done")

	return cmd
}

func newChecklistRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a checklist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(itemPath(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Removed %s", args[0]))
			return nil
		},
	}
}

func itemPath(id string) string {
	return "/api/checklist/" + url.PathEscape(id)
}
