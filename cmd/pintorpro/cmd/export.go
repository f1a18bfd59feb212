package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var outDir string

	export := &cobra.Command{
		Use:   "export",
		Short: "Export estimates as PDF or XLSX",
	}
	export.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "directory to write the file to")

	export.AddCommand(&cobra.Command{
		Use:   "pdf <id>...",
		Short: "Render the given estimates into one PDF, one estimate per page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			doc, err := a.Document(cmd.Context(), ids)
			if err != nil {
				return userError(err)
			}
			data, err := doc.PDF()
			if err != nil {
				return err
			}
			return writeOutput(cmd, outDir, doc.Name, data)
		},
	})

	export.AddCommand(&cobra.Command{
		Use:   "xlsx [id]...",
		Short: "Export the history, or the given estimates, as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			data, name, err := a.Workbook(cmd.Context(), ids)
			if err != nil {
				return userError(err)
			}
			return writeOutput(cmd, outDir, name, data)
		},
	})
	return export
}

func writeOutput(cmd *cobra.Command, dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
