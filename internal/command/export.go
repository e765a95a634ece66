// Package command implements the cavemap export command
package command

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/output"
)

// ExportCommand downloads the sensor-install spreadsheet for a station
type ExportCommand struct{}

// NewExportCommand creates the export command
func NewExportCommand(groupID string) *cobra.Command {
	ec := &ExportCommand{}

	cmd := &cobra.Command{
		Use:     "export <station-id>",
		Short:   "Download a station's sensor-install spreadsheet",
		GroupID: groupID,
		Long: `Download the sensor-install export for a station.

The file is saved under the name the server suggests via Content-Disposition.
With --preview the first sheet is printed instead of saved.`,
		Args: cobra.ExactArgs(1),
		RunE: ec.runExport,
	}

	cmd.Flags().String("status", "", "Filter by install status")
	cmd.Flags().StringP("out", "o", "", "Output path (default: server-suggested filename)")
	cmd.Flags().Bool("preview", false, "Print the spreadsheet contents instead of saving")
	return cmd
}

func (c *ExportCommand) runExport(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	statusFilter, _ := cmd.Flags().GetString("status")
	outPath, _ := cmd.Flags().GetString("out")
	preview, _ := cmd.Flags().GetBool("preview")

	var status *api.InstallStatus
	if statusFilter != "" {
		s := api.InstallStatus(statusFilter)
		status = &s
	}

	export, err := cmdCtx.Manager.SensorInstalls.Export(cmd.Context(), args[0], status)
	if err != nil {
		return cmdCtx.ReportError(err)
	}

	if preview {
		return c.printPreview(export.Content)
	}

	if outPath == "" {
		outPath = export.Filename
	}
	if err := os.WriteFile(outPath, export.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	output.NewPrinter(output.FormatTable, false).
		Success(fmt.Sprintf("Saved %s (%d bytes)", outPath, len(export.Content)))
	return nil
}

// printPreview renders the first sheet of the downloaded workbook.
func (c *ExportCommand) printPreview(content []byte) error {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open exported workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("exported workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
