package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/api/response"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console commands",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminCouplesCmd())
	cmd.AddCommand(newAdminDeleteCoupleCmd())
	cmd.AddCommand(newAdminDeleteMemberCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var req request.AdminLoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Unlock the admin console for this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = getEnvOrDefault("WEDPLAN_ADMIN_PASSWORD", "")
			}
			if req.Password == "" {
				return fmt.Errorf("--password is required")
			}

			if err := client.Post("/api/admin/login", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Admin access granted")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password (env: WEDPLAN_ADMIN_PASSWORD)")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop admin access, keeping any member login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/admin/logout", nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Admin access revoked")
			return nil
		},
	}
}

func newAdminCouplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "couples",
		Short: "List all couples and their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.CoupleWithMembers
			if err := client.Get("/api/admin/couples", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAdminDeleteCoupleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-couple <id>",
		Short: "Delete a couple with its members and checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/admin/couples/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted couple %s", args[0]))
			return nil
		},
	}
}

func newAdminDeleteMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-member <id>",
		Short: "Delete a member, reopening their couple",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/admin/members/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted member %s", args[0]))
			return nil
		},
	}
}
