package cmd

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
)

// NewStaffCommand returns "staff", which manages the accounts allowed to sign
// in to the web interface and the API.
func NewStaffCommand(app *pocketbase.PocketBase) *cobra.Command {
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var name string
	createCmd := &cobra.Command{
		Use:   "create <email> <password>",
		Short: "Create a staff account",
		Long:  `Creates an account in the staff auth collection. Staff accounts sign in at the login page or through POST /api/auth/login.`,
		Args:  cobra.ExactArgs(2),
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return fmt.Errorf("email is required")
			}
			if len(args[1]) < 8 {
				return fmt.Errorf("password must have at least 8 characters")
			}
			if _, err := app.FindAuthRecordByEmail("staff", email); err == nil {
				return fmt.Errorf("staff account %s already exists", email)
			}

			col, err := app.FindCollectionByNameOrId("staff")
			if err != nil {
				return fmt.Errorf("staff collection: %w", err)
			}
			rec := core.NewRecord(col)
			rec.SetEmail(email)
			rec.SetPassword(args[1])
			rec.Set("name", strings.TrimSpace(name))
			if err := app.Save(rec); err != nil {
				return fmt.Errorf("saving staff account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created staff account %s (%s)\n", email, rec.Id)
			return nil
		}),
	}
	createCmd.Flags().StringVar(&name, "name", "", "display name")

	staffCmd.AddCommand(createCmd)
	return staffCmd
}
