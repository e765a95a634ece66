// Package command implements the cavemap tag command
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/maplayer"
	"github.com/karstlab/cavemap/internal/output"
)

// TagCommand handles the cavemap tag command
type TagCommand struct{}

// NewTagCommand creates the tag command tree
func NewTagCommand(groupID string) *cobra.Command {
	tc := &TagCommand{}

	cmd := &cobra.Command{
		Use:     "tag",
		Short:   "Manage station tags",
		GroupID: groupID,
		Long: `Manage the flat, user-owned tag list.

Tags exist outside any project scope; a station carries at most one tag and
its marker takes the tag's color.`,
	}

	cmd.AddCommand(
		tc.newListCommand(),
		tc.newCreateCommand(),
		tc.newUpdateCommand(),
		tc.newDeleteCommand(),
	)

	return cmd
}

func (c *TagCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")

			if err := cmdCtx.Manager.Tags.EnsureLoaded(cmd.Context()); err != nil {
				return cmdCtx.ReportError(err)
			}

			tags := make([]*api.Tag, 0, len(cmdCtx.Manager.Store.Tags))
			for _, tag := range cmdCtx.Manager.Store.Tags {
				tags = append(tags, tag)
			}
			return output.NewPrinter(output.Format(format), false).PrintTagList(tags)
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func (c *TagCommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			color, _ := cmd.Flags().GetString("color")

			validator := cmdCtx.Manager.GetValidator()
			if err := validator.ValidateTagName(args[0]); err != nil {
				return err
			}
			if err := validator.ValidateTagColor(color); err != nil {
				return err
			}

			created, err := cmdCtx.Manager.Tags.Create(cmd.Context(), args[0], color)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Created tag '%s' (%s)", created.Name, created.Color))
			return nil
		},
	}
	cmd.Flags().String("color", maplayer.DefaultMarkerColor, "Hex display color, e.g. #cc5500")
	return cmd
}

func (c *TagCommand) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}

			var payload api.TagPayload
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				payload.Name = &name
			}
			if cmd.Flags().Changed("color") {
				color, _ := cmd.Flags().GetString("color")
				if err := cmdCtx.Manager.GetValidator().ValidateTagColor(color); err != nil {
					return err
				}
				payload.Color = &color
			}

			updated, err := cmdCtx.Manager.Tags.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Updated tag '%s'", updated.Name))
			return nil
		},
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("color", "", "New hex color")
	return cmd
}

func (c *TagCommand) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdCtx.Manager.Tags.Delete(cmd.Context(), args[0]); err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).Success("Tag deleted")
			return nil
		},
	}
}
