// Package command implements the cavemap attach command
package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/output"
)

// AttachCommand handles station attachments: resources, logs, experiments
type AttachCommand struct{}

// NewAttachCommand creates the attach command tree
func NewAttachCommand(groupID string) *cobra.Command {
	ac := &AttachCommand{}

	cmd := &cobra.Command{
		Use:     "attach",
		Short:   "Attach resources, logs and experiment records to stations",
		GroupID: groupID,
	}

	cmd.AddCommand(
		ac.newResourceCommand(),
		ac.newLogCommand(),
		ac.newExperimentCommand(),
	)

	return cmd
}

func (c *AttachCommand) newResourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource <station-id> <file>",
		Short: "Upload a file resource to a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = filepath.Base(args[1])
			}

			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer file.Close()

			created, err := cmdCtx.Manager.Attachments.UploadResource(
				cmd.Context(), args[0], name, filepath.Base(args[1]), file)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Uploaded resource '%s' (%s)", created.Name, created.ID))
			return nil
		},
	}
	cmd.Flags().String("name", "", "Resource display name (default: file name)")
	return cmd
}

func (c *AttachCommand) newLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <station-id> <title>",
		Short: "Attach a survey log to a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			body, _ := cmd.Flags().GetString("body")
			filePath, _ := cmd.Flags().GetString("file")

			var formFile *api.FormFile
			if filePath != "" {
				file, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", filePath, err)
				}
				defer file.Close()
				formFile = &api.FormFile{
					Field:    "file",
					Filename: filepath.Base(filePath),
					Content:  file,
				}
			}

			created, err := cmdCtx.Manager.Attachments.UploadLog(
				cmd.Context(), args[0], args[1], body, formFile)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Attached log '%s' (%s)", created.Title, created.ID))
			return nil
		},
	}
	cmd.Flags().String("body", "", "Log body text")
	cmd.Flags().String("file", "", "Optional file to attach with the log")
	return cmd
}

func (c *AttachCommand) newExperimentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment <station-id> <kind>",
		Short: "Record a structured experiment on a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			params, _ := cmd.Flags().GetStringToString("param")

			parameters := make(map[string]any, len(params))
			for k, v := range params {
				parameters[k] = v
			}

			created, err := cmdCtx.Manager.Attachments.RecordExperiment(
				cmd.Context(), args[0], args[1], parameters)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Recorded %s experiment (%s)", created.Kind, created.ID))
			return nil
		},
	}
	cmd.Flags().StringToString("param", nil, "Experiment parameter key=value (repeatable)")
	return cmd
}
