// Package command provides UI command functionality
package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/state"
	"github.com/karstlab/cavemap/internal/tui"
)

// NewUICommand creates the UI command
func NewUICommand(groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ui",
		Short:   "Launch interactive terminal interface",
		Long:    "Launch the cavemap terminal user interface for browsing stations and points of interest.",
		RunE:    runUI,
		GroupID: groupID,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().StringP("network", "n", "", "Network scope (default: configured network)")
	return cmd
}

func runUI(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}

	projectFlag, _ := cmd.Flags().GetString("project")
	project, err := cmdCtx.ResolveProjectScope(projectFlag)
	if err != nil {
		return err
	}

	// Network scope is optional in the UI: without it the reload action
	// simply skips surface stations.
	var network *state.Scope
	networkFlag, _ := cmd.Flags().GetString("network")
	if scope, err := cmdCtx.ResolveNetworkScope(networkFlag); err == nil {
		network = &scope
	}

	model := tui.NewModel(cmdCtx.Manager, cmdCtx.Notifier, project, network)

	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
