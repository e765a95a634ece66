// Package command implements the cavemap install command
package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/output"
)

// InstallCommand handles sensor and cylinder install management
type InstallCommand struct {
	reader *bufio.Reader
}

// NewInstallCommand creates the install command tree
func NewInstallCommand(groupID string) *cobra.Command {
	ic := &InstallCommand{
		reader: bufio.NewReader(os.Stdin),
	}

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Manage sensor and cylinder installs",
		GroupID: groupID,
		Long: `Manage equipment deployed at stations.

An install starts in the installed state; retrieving, losing or abandoning it
is permanent and requires confirmation.`,
	}

	cmd.AddCommand(
		ic.newListCommand(),
		ic.newDeployCommand(),
		ic.newStatusCommand(),
		ic.newPressureCheckCommand(),
	)

	return cmd
}

func (c *InstallCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <station-id>",
		Short: "List a station's sensor installs",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runList,
	}
	cmd.Flags().String("status", "", "Filter by status (installed, retrieved, lost, abandoned)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func (c *InstallCommand) runList(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	statusFilter, _ := cmd.Flags().GetString("status")

	if err := cmdCtx.Manager.SensorInstalls.EnsureLoaded(cmd.Context(), args[0]); err != nil {
		return cmdCtx.ReportError(err)
	}

	installs := make([]*api.SensorInstall, 0, len(cmdCtx.Manager.Store.SensorInstalls))
	for _, install := range cmdCtx.Manager.Store.SensorInstalls {
		if install.StationID != args[0] && install.StationID != "" {
			continue
		}
		if statusFilter != "" && string(install.Status) != statusFilter {
			continue
		}
		installs = append(installs, install)
	}
	return output.NewPrinter(output.Format(format), false).PrintSensorInstallList(installs)
}

func (c *InstallCommand) newDeployCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <station-id>",
		Short: "Deploy a sensor or cylinder at a station",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDeploy,
	}
	cmd.Flags().String("fleet", "", "Fleet scope id")
	cmd.Flags().String("sensor", "", "Sensor id (deploys a sensor)")
	cmd.Flags().String("cylinder", "", "Cylinder id (deploys a cylinder)")
	_ = cmd.MarkFlagRequired("fleet")
	return cmd
}

func (c *InstallCommand) runDeploy(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	fleet, _ := cmd.Flags().GetString("fleet")
	sensor, _ := cmd.Flags().GetString("sensor")
	cylinder, _ := cmd.Flags().GetString("cylinder")

	if (sensor == "") == (cylinder == "") {
		return fmt.Errorf("pass exactly one of --sensor or --cylinder")
	}

	payload := api.InstallPayload{FleetID: &fleet}
	printer := output.NewPrinter(output.FormatTable, false)

	if sensor != "" {
		payload.SensorID = &sensor
		created, err := cmdCtx.Manager.SensorInstalls.Create(cmd.Context(), args[0], payload)
		if err != nil {
			return cmdCtx.ReportError(err)
		}
		printer.Success(fmt.Sprintf("Deployed sensor %s (install %s)", sensor, created.ID))
		return nil
	}

	payload.CylinderID = &cylinder
	created, err := cmdCtx.Manager.CylinderInstalls.Create(cmd.Context(), args[0], payload)
	if err != nil {
		return cmdCtx.ReportError(err)
	}
	printer.Success(fmt.Sprintf("Deployed cylinder %s (install %s)", cylinder, created.ID))
	return nil
}

func (c *InstallCommand) newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <install-id> <retrieved|lost|abandoned>",
		Short: "Transition an install to a terminal state",
		Args:  cobra.ExactArgs(2),
		RunE:  c.runStatus,
	}
	cmd.Flags().Bool("cylinder", false, "The id names a cylinder install")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (c *InstallCommand) runStatus(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	isCylinder, _ := cmd.Flags().GetBool("cylinder")
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	target := api.InstallStatus(args[1])
	if err := cmdCtx.Manager.GetValidator().ValidateStatusTarget(target); err != nil {
		return err
	}

	if !skipConfirm {
		fmt.Printf("Marking install %s as %s is permanent and cannot be undone. Continue? [y/N] ", args[0], target)
		answer, _ := c.reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	printer := output.NewPrinter(output.FormatTable, false)
	if isCylinder {
		updated, err := cmdCtx.Manager.CylinderInstalls.ChangeStatus(cmd.Context(), args[0], target)
		if err != nil {
			return cmdCtx.ReportError(err)
		}
		printer.Success(fmt.Sprintf("Cylinder install %s is now %s", updated.ID, updated.Status))
		return nil
	}

	updated, err := cmdCtx.Manager.SensorInstalls.ChangeStatus(cmd.Context(), args[0], target)
	if err != nil {
		return cmdCtx.ReportError(err)
	}
	printer.Success(fmt.Sprintf("Sensor install %s is now %s", updated.ID, updated.Status))
	return nil
}

func (c *InstallCommand) newPressureCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pressure-check <install-id>",
		Short: "Record a pressure reading on a cylinder install",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			pressure, _ := cmd.Flags().GetFloat64("bar")

			check, err := cmdCtx.Manager.CylinderInstalls.RecordPressureCheck(cmd.Context(), args[0], pressure)
			if err != nil {
				return cmdCtx.ReportError(err)
			}
			output.NewPrinter(output.FormatTable, false).
				Success(fmt.Sprintf("Recorded %.1f bar on install %s", check.Pressure, args[0]))
			return nil
		},
	}
	cmd.Flags().Float64("bar", 0, "Pressure reading in bar")
	_ = cmd.MarkFlagRequired("bar")
	return cmd
}
