// Package command implements the cavemap station command
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/output"
)

// StationCommand handles the cavemap station command
type StationCommand struct{}

// NewStationCommand creates the station command tree
func NewStationCommand(groupID string) *cobra.Command {
	sc := &StationCommand{}

	cmd := &cobra.Command{
		Use:     "station",
		Short:   "Manage survey stations",
		GroupID: groupID,
		Long: `Create and manage subsurface survey stations within a project.

Stations carry a position, an optional subsurface type and an optional tag.`,
	}

	cmd.AddCommand(
		sc.newListCommand(),
		sc.newCreateCommand(),
		sc.newUpdateCommand(),
		sc.newDeleteCommand(),
		sc.newSetTagCommand(),
		sc.newRemoveTagCommand(),
	)

	return cmd
}

func (c *StationCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's stations",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, csv)")
	return cmd
}

func (c *StationCommand) runList(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	format, _ := cmd.Flags().GetString("format")

	scope, err := cmdCtx.ResolveProjectScope(project)
	if err != nil {
		return err
	}

	if err := cmdCtx.Manager.Stations.EnsureLoaded(cmd.Context(), scope); err != nil {
		return cmdCtx.ReportError(err)
	}

	stations := make([]*api.Station, 0, len(cmdCtx.Manager.Store.Stations))
	for _, s := range cmdCtx.Manager.Store.Stations {
		stations = append(stations, s)
	}

	printer := output.NewPrinter(output.Format(format), false)
	return printer.PrintStationList(stations)
}

func (c *StationCommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a station",
		Long: `Create a station at a position within a project.

Examples:
  # Create a science station
  cavemap station create sump-3 --lat 46.2431 --lon 13.5826 --type science`,
		Args: cobra.ExactArgs(1),
		RunE: c.runCreate,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().Float64("lat", 0, "Latitude")
	cmd.Flags().Float64("lon", 0, "Longitude")
	cmd.Flags().String("description", "", "Station description")
	cmd.Flags().String("type", "", "Subsurface type (science, biology, bone, artifact)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func (c *StationCommand) runCreate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	description, _ := cmd.Flags().GetString("description")
	subsurface, _ := cmd.Flags().GetString("type")

	scope, err := cmdCtx.ResolveProjectScope(project)
	if err != nil {
		return err
	}

	name := args[0]
	payload := api.StationPayload{
		Name:      &name,
		Latitude:  &lat,
		Longitude: &lon,
	}
	if description != "" {
		payload.Description = &description
	}
	if subsurface != "" {
		st := api.SubsurfaceType(subsurface)
		payload.SubsurfaceType = &st
	}

	if err := cmdCtx.Manager.GetValidator().ValidateStationPayload(&payload, true); err != nil {
		return err
	}

	created, err := cmdCtx.Manager.Stations.Create(cmd.Context(), scope, payload)
	if err != nil {
		return cmdCtx.ReportError(err)
	}

	printer := output.NewPrinter(output.FormatTable, false)
	printer.Success(fmt.Sprintf("Created station '%s' (%s)", created.Name, created.ID))
	return nil
}

func (c *StationCommand) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update station fields",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runUpdate,
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().Float64("lat", 0, "New latitude")
	cmd.Flags().Float64("lon", 0, "New longitude")
	cmd.Flags().String("type", "", "New subsurface type")
	return cmd
}

func (c *StationCommand) runUpdate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}

	var payload api.StationPayload
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		payload.Name = &name
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		payload.Description = &description
	}
	if cmd.Flags().Changed("lat") {
		lat, _ := cmd.Flags().GetFloat64("lat")
		payload.Latitude = &lat
	}
	if cmd.Flags().Changed("lon") {
		lon, _ := cmd.Flags().GetFloat64("lon")
		payload.Longitude = &lon
	}
	if cmd.Flags().Changed("type") {
		subsurface, _ := cmd.Flags().GetString("type")
		st := api.SubsurfaceType(subsurface)
		payload.SubsurfaceType = &st
	}

	if err := cmdCtx.Manager.GetValidator().ValidateStationPayload(&payload, false); err != nil {
		return err
	}

	updated, err := cmdCtx.Manager.Stations.Update(cmd.Context(), args[0], payload)
	if err != nil {
		return cmdCtx.ReportError(err)
	}

	printer := output.NewPrinter(output.FormatTable, false)
	printer.Success(fmt.Sprintf("Updated station '%s'", updated.Name))
	return printer.PrintStation(updated)
}

func (c *StationCommand) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdCtx.Manager.Stations.Delete(cmd.Context(), args[0]); err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).Success("Station deleted")
			return nil
		},
	}
}

func (c *StationCommand) newSetTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-tag <station-id> <tag-id>",
		Short: "Assign a tag to a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			// Tag colors drive the marker recolor after assignment.
			if err := cmdCtx.Manager.Tags.EnsureLoaded(cmd.Context()); err != nil {
				return cmdCtx.ReportError(err)
			}
			if err := cmdCtx.Manager.Stations.SetTag(cmd.Context(), args[0], args[1]); err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).Success("Tag assigned")
			return nil
		},
	}
}

func (c *StationCommand) newRemoveTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-tag <station-id>",
		Short: "Remove a station's tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdCtx.Manager.Stations.RemoveTag(cmd.Context(), args[0]); err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).Success("Tag removed")
			return nil
		},
	}
}
