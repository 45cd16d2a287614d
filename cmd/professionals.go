package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"staffpricing/services"
)

// NewProfessionalsCommand returns "professionals" with list, import and
// export subcommands working directly on the local database.
func NewProfessionalsCommand(app *pocketbase.PocketBase) *cobra.Command {
	profCmd := &cobra.Command{
		Use:     "professionals",
		Aliases: []string{"profs"},
		Short:   "Manage the professionals registry",
	}

	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List professionals",
		Args:  cobra.NoArgs,
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			page, err := services.ListProfessionals(app, services.ListQuery{Search: search})
			if err != nil {
				return err
			}
			if page.Total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No professionals found.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PID\tNAME\tROLE\tLEVEL\tHOURLY COST\tVACANCY")
			for _, p := range page.Items {
				vacancy := "-"
				if p.IsVacancy {
					vacancy = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.PID, p.Name, p.Role, p.Level, services.FormatBRL(p.HourlyCost), vacancy)
			}
			return w.Flush()
		}),
	}
	listCmd.Flags().StringVar(&search, "search", "", "filter by name")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import professionals from a CSV or XLSX file",
		Long:  `Reads a .csv or .xlsx file with the columns of the import template. Rows are imported one by one; failures are reported without stopping the import.`,
		Args:  cobra.ExactArgs(1),
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			res, err := services.ImportProfessionals(app, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created %d, updated %d, %d errors\n", res.Created, res.Updated, res.Errors)
			for _, d := range res.ErrorDetails {
				fmt.Fprintf(w, "  %s\n", d)
			}
			return nil
		}),
	}

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all professionals to XLSX",
		Args:  cobra.NoArgs,
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			data, err := services.ExportProfessionals(app)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("profissionais_%s.xlsx", time.Now().Format("20060102_150405"))
			_, err = writeOutput(cmd.OutOrStdout(), out, name, data)
			return err
		}),
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")

	var templateOut string
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Write the XLSX import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := services.GenerateImportTemplate()
			if err != nil {
				return err
			}
			_, err = writeOutput(cmd.OutOrStdout(), templateOut, "modelo_profissionais.xlsx", data)
			return err
		},
	}
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "output file or directory")

	profCmd.AddCommand(listCmd, importCmd, exportCmd, templateCmd)
	return profCmd
}
