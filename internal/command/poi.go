// Package command implements the cavemap poi command
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/output"
)

// POICommand handles the cavemap poi command
type POICommand struct{}

// NewPOICommand creates the poi command tree
func NewPOICommand(groupID string) *cobra.Command {
	pc := &POICommand{}

	cmd := &cobra.Command{
		Use:     "poi",
		Short:   "Manage points of interest",
		GroupID: groupID,
	}

	cmd.AddCommand(
		pc.newListCommand(),
		pc.newCreateCommand(),
		pc.newUpdateCommand(),
		pc.newDeleteCommand(),
	)

	return cmd
}

func (c *POICommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's points of interest",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func (c *POICommand) runList(cmd *cobra.Command, args []string) error {
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

	if err := cmdCtx.Manager.POIs.EnsureLoaded(cmd.Context(), scope); err != nil {
		return cmdCtx.ReportError(err)
	}

	pois := make([]*api.POI, 0, len(cmdCtx.Manager.Store.POIs))
	for _, poi := range cmdCtx.Manager.Store.POIs {
		pois = append(pois, poi)
	}

	printer := output.NewPrinter(output.Format(format), false)
	return printer.PrintPOIList(pois)
}

func (c *POICommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runCreate,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().Float64("lat", 0, "Latitude")
	cmd.Flags().Float64("lon", 0, "Longitude")
	cmd.Flags().String("description", "", "Description")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func (c *POICommand) runCreate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	description, _ := cmd.Flags().GetString("description")

	scope, err := cmdCtx.ResolveProjectScope(project)
	if err != nil {
		return err
	}

	name := args[0]
	payload := api.POIPayload{
		Name:      &name,
		Latitude:  &lat,
		Longitude: &lon,
	}
	if description != "" {
		payload.Description = &description
	}

	created, err := cmdCtx.Manager.POIs.Create(cmd.Context(), scope, payload)
	if err != nil {
		return cmdCtx.ReportError(err)
	}

	output.NewPrinter(output.FormatTable, false).
		Success(fmt.Sprintf("Created POI '%s' (%s)", created.Name, created.ID))
	return nil
}

func (c *POICommand) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runUpdate,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().Float64("lat", 0, "New latitude")
	cmd.Flags().Float64("lon", 0, "New longitude")
	return cmd
}

func (c *POICommand) runUpdate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")

	scope, err := cmdCtx.ResolveProjectScope(project)
	if err != nil {
		return err
	}

	var payload api.POIPayload
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

	updated, err := cmdCtx.Manager.POIs.Update(cmd.Context(), scope, args[0], payload)
	if err != nil {
		return cmdCtx.ReportError(err)
	}

	output.NewPrinter(output.FormatTable, false).
		Success(fmt.Sprintf("Updated POI '%s'", updated.Name))
	return nil
}

func (c *POICommand) newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			project, _ := cmd.Flags().GetString("project")
			scope, err := cmdCtx.ResolveProjectScope(project)
			if err != nil {
				return err
			}
			if err := cmdCtx.Manager.POIs.Delete(cmd.Context(), scope, args[0]); err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).Success("POI deleted")
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	return cmd
}
