package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/journalapp/journal-server/internal/domain"
)

func addTags(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage global tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the default color tags for the first superuser",
		Long:  "Create one tag per palette color for the first superuser. Names that already exist are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context, e *env) error {
				created, err := e.tags.SeedDefaultTags(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d default tags\n",
					color.GreenString("seeded"), len(created), len(domain.TagPalettes))
				return nil
			})
		},
	})

	var userID int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List global tags, or the tags a user can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context, e *env) error {
				var (
					tags []*domain.Tag
					err  error
				)
				if userID > 0 {
					tags, err = e.tags.ListTags(ctx, userID)
				} else {
					tags, err = e.store.ListSuperuserTags(ctx)
				}
				if err != nil {
					return err
				}

				tbl := newTable("ID", "OWNER", "NAME", "COLOR", "CLASS")
				for _, t := range tags {
					tbl.AddRow(t.ID, t.UserID, t.Name, t.Color, t.Class)
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	}
	list.Flags().Int64Var(&userID, "user-id", 0, "List the tags visible to this user instead of the global set")
	cmd.AddCommand(list)

	topLevel.AddCommand(cmd)
}
