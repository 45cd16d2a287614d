// Package cmd holds the staffpricing subcommands that are mounted on the
// PocketBase root command next to "serve" and "migrate".
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"staffpricing/collections"
	"staffpricing/services"
)

// Register adds every staffpricing subcommand to app.RootCmd.
func Register(app *pocketbase.PocketBase, cal *services.Calendar) {
	app.RootCmd.AddCommand(
		NewStaffCommand(app),
		NewProfessionalsCommand(app),
		NewProjectsCommand(app, cal),
		NewRemoteCommand(),
	)
}

// withCollections wraps a RunE so the collections exist before it runs.
// The serve command creates them in OnServe, which other commands never reach.
func withCollections(app *pocketbase.PocketBase, run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		collections.Setup(app)
		return run(cmd, args)
	}
}

// writeOutput stores data at path, or in dir/filename when path is empty or
// names a directory. It reports what was written on w.
func writeOutput(w io.Writer, path, filename string, data []byte) (string, error) {
	target := path
	if target == "" {
		target = filename
	} else if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		target = filepath.Join(target, filename)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	fmt.Fprintf(w, "Wrote %s (%s)\n", target, humanize.Bytes(uint64(len(data))))
	return target, nil
}
