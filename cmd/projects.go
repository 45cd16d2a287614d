package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"staffpricing/services"
)

// NewProjectsCommand returns "projects" with list, price and export
// subcommands working directly on the local database.
func NewProjectsCommand(app *pocketbase.PocketBase, cal *services.Calendar) *cobra.Command {
	projCmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect, price and export projects",
	}

	var search, sort string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			page, err := services.ListProjects(app, services.ListQuery{Search: search, Sort: sort})
			if err != nil {
				return err
			}
			if page.Total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTART\tMONTHS\tTAX\tMARGIN")
			for _, p := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.StartDate.BR(), p.DurationMonths,
					services.FormatPercent(p.TaxRate), services.FormatPercent(p.MarginRate))
			}
			return w.Flush()
		}),
	}
	listCmd.Flags().StringVar(&search, "search", "", "filter by name")
	listCmd.Flags().StringVar(&sort, "sort", "name", "name, start_date, created_at or count; prefix with - for descending")

	priceCmd := &cobra.Command{
		Use:   "price <project-id>",
		Short: "Print the pricing summary of a project",
		Args:  cobra.ExactArgs(1),
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			pr, err := services.PriceProject(app, args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Hours\t%s\n", services.FormatHours(pr.TotalHours))
			fmt.Fprintf(w, "Cost\t%s\n", services.FormatBRL(pr.TotalCost))
			fmt.Fprintf(w, "Selling\t%s\n", services.FormatBRL(pr.TotalSelling))
			fmt.Fprintf(w, "Margin\t%s\n", services.FormatBRL(pr.TotalMargin))
			fmt.Fprintf(w, "Tax\t%s\n", services.FormatBRL(pr.TotalTax))
			fmt.Fprintf(w, "Final price\t%s\n", services.FormatBRL(pr.FinalPrice))
			fmt.Fprintf(w, "Final margin\t%s\n", services.FormatPercent(pr.FinalMarginPercent))
			if len(pr.MonthlyBreakdown) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "MONTH\tHOURS\tCOST\tSELLING")
				for _, m := range pr.MonthlyBreakdown {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month, services.FormatHours(m.Hours),
						services.FormatBRL(m.Cost), services.FormatBRL(m.Selling))
				}
			}
			return w.Flush()
		}),
	}

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project to XLSX, PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: withCollections(app, func(cmd *cobra.Command, args []string) error {
			f, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			data, err := services.BuildProjectExport(app, cal, args[0])
			if err != nil {
				return err
			}
			body, err := data.Render(f)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", f, err)
			}
			name := services.ExportFilename(data.Project.Name, f, time.Now())
			_, err = writeOutput(cmd.OutOrStdout(), out, name, body)
			return err
		}),
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "xlsx", "xlsx, pdf or png")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")

	projCmd.AddCommand(listCmd, priceCmd, exportCmd)
	return projCmd
}
