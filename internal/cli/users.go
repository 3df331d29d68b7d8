package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/journalapp/journal-server/internal/service"
)

func addCreateSuperuser(topLevel *cobra.Command, app *App) {
	req := service.CreateSuperuserRequest{}

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a superuser account",
		Long:  "Create a superuser. Superusers own the global tags every new account receives a copy of.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context, e *env) error {
				user, err := e.users.CreateSuperuser(ctx, req)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s superuser %s (id %d)\n",
					color.GreenString("created"), user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	topLevel.AddCommand(cmd)
}

func addUsers(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context, e *env) error {
				users, err := e.users.ListUsers(ctx)
				if err != nil {
					return err
				}

				tbl := newTable("ID", "EMAIL", "USERNAME", "NAME", "SUPERUSER", "CREATED")
				for _, u := range users {
					super := ""
					if u.IsSuperuser {
						super = "yes"
					}
					tbl.AddRow(u.ID, u.Email, u.Username, u.FullName(), super, u.CreatedAt.Format("2006-01-02"))
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}
