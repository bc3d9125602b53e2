package history

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voxscribe/cmd/voxscribe/cmd/cliflags"
	"voxscribe/internal/app/export"
)

var (
	limit      int
	offset     int
	format     string
	outputPath string
)

func init() {
	listCmd.Flags().IntVar(&limit, "limit", 20, "records per page")
	listCmd.Flags().IntVar(&offset, "offset", 0, "records to skip")

	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json, txt or xlsx")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default history.<format>)")

	Cmd.AddCommand(listCmd, deleteCmd, exportCmd)
}

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the saved transcriptions of --user",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved transcriptions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cliflags.Client(cmd).ListHistory(cmd.Context(), limit, offset)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILE\tWORDS\tLANGUAGE\tCREATED")
		for _, rec := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				rec.ID, rec.FileName, rec.WordCount, rec.Language, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d-%d of %d\n", min(page.Offset+1, page.Total), page.Offset+len(page.Items), page.Total)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete saved transcriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cliflags.Client(cmd)
		for _, id := range args {
			if err := c.DeleteHistory(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the whole history as one file",
	Long: `Download the whole history as one file.

xlsx exports require a paid plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		path := outputPath
		if path == "" {
			path = export.FileName("history", f)
		}

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := cliflags.Client(cmd).ExportHistory(cmd.Context(), string(f), file); err != nil {
			file.Close()
			os.Remove(path)
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", path)
		return nil
	},
}
