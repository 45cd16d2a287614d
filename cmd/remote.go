package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"staffpricing/apiclient"
	"staffpricing/services"
)

type remoteOptions struct {
	url      string
	token    string
	email    string
	password string
}

// client builds an API client. Without a token it signs in with the email
// and password flags.
func (o *remoteOptions) client(ctx context.Context) (*apiclient.Client, error) {
	c := apiclient.New(o.url, apiclient.WithToken(o.token))
	if o.token != "" {
		return c, nil
	}
	if o.email == "" || o.password == "" {
		return nil, fmt.Errorf("set --token or both --email and --password")
	}
	if _, err := c.Login(ctx, o.email, o.password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

// NewRemoteCommand returns "remote", which talks to a running server over
// the JSON API instead of opening the local database.
func NewRemoteCommand() *cobra.Command {
	opts := &remoteOptions{}
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with a running staffpricing server",
		Long:  `Calls the JSON API of a running server. Authenticate with --token, or with --email and --password. STAFFPRICING_TOKEN is used when --token is not set.`,
	}
	pf := remoteCmd.PersistentFlags()
	pf.StringVar(&opts.url, "url", "http://127.0.0.1:8090", "server base URL")
	pf.StringVar(&opts.token, "token", os.Getenv("STAFFPRICING_TOKEN"), "session token")
	pf.StringVar(&opts.email, "email", "", "staff email")
	pf.StringVar(&opts.password, "password", "", "staff password")

	var search string
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.client(ctx)
			if err != nil {
				return err
			}
			page, err := c.ListProjects(ctx, apiclient.ListParams{Search: search})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTART\tMONTHS")
			for _, p := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.StartDate.BR(), p.DurationMonths)
			}
			fmt.Fprintf(w, "\n%d of %d projects\n", len(page.Items), page.Total)
			return w.Flush()
		},
	}
	projectsCmd.Flags().StringVar(&search, "search", "", "filter by name")

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Download a project export from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := opts.client(ctx)
			if err != nil {
				return err
			}
			name, data, err := c.ExportProject(ctx, args[0], f)
			if err != nil {
				return err
			}
			if name == "" {
				name = fmt.Sprintf("%s.%s", args[0], f)
			}
			_, err = writeOutput(cmd.OutOrStdout(), out, filepath.Base(name), data)
			return err
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "xlsx", "xlsx, pdf or png")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")

	importCmd := &cobra.Command{
		Use:   "import-professionals <file>",
		Short: "Upload a CSV or XLSX professionals file to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer file.Close()

			ctx := cmd.Context()
			c, err := opts.client(ctx)
			if err != nil {
				return err
			}
			res, err := c.ImportProfessionals(ctx, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d, updated %d, %d errors\n", res.Created, res.Updated, res.Errors)
			for _, d := range res.ErrorDetails {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
			}
			return nil
		},
	}

	remoteCmd.AddCommand(projectsCmd, exportCmd, importCmd)
	return remoteCmd
}
