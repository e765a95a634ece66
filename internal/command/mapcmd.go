// Package command implements the cavemap map command
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/output"
	"github.com/karstlab/cavemap/internal/state"
	"github.com/karstlab/cavemap/internal/storage"
)

// MapCommand handles bulk map-data operations
type MapCommand struct{}

// NewMapCommand creates the map command tree
func NewMapCommand(groupID string) *cobra.Command {
	mc := &MapCommand{}

	cmd := &cobra.Command{
		Use:     "map",
		Short:   "Bulk map data operations",
		GroupID: groupID,
	}

	cmd.AddCommand(
		mc.newLoadCommand(),
		mc.newBoundsCommand(),
		mc.newResetCommand(),
		mc.newSaveCommand(),
		mc.newRestoreCommand(),
	)

	return cmd
}

func (c *MapCommand) newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load all map data for the current scopes",
		Long: `Fetch the bulk GeoJSON collections for the configured project and
network. Loads are memoized: repeating the command within one session does
not refetch unless data changed.`,
		Args: cobra.NoArgs,
		RunE: c.runLoad,
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	cmd.Flags().StringP("network", "n", "", "Network scope (default: configured network)")
	return cmd
}

func (c *MapCommand) runLoad(cmd *cobra.Command, args []string) error {
	cmdCtx, err := RequireCommandContext(cmd.Context())
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	network, _ := cmd.Flags().GetString("network")

	printer := output.NewPrinter(output.FormatTable, false)

	if err := cmdCtx.Manager.Tags.EnsureLoaded(cmd.Context()); err != nil {
		return cmdCtx.ReportError(err)
	}

	if scope, err := cmdCtx.ResolveProjectScope(project); err == nil {
		if err := cmdCtx.Manager.Stations.EnsureLoaded(cmd.Context(), scope); err != nil {
			return cmdCtx.ReportError(err)
		}
		if err := cmdCtx.Manager.POIs.EnsureLoaded(cmd.Context(), scope); err != nil {
			return cmdCtx.ReportError(err)
		}
		cmdCtx.Manager.Store.CurrentScope = &scope
		printer.Info(fmt.Sprintf("Loaded %d stations and %d POIs for %s",
			len(cmdCtx.Manager.Store.Stations), len(cmdCtx.Manager.Store.POIs), scope.Key()))
	}

	if scope, err := cmdCtx.ResolveNetworkScope(network); err == nil {
		if err := cmdCtx.Manager.SurfaceStations.EnsureLoaded(cmd.Context(), scope); err != nil {
			return cmdCtx.ReportError(err)
		}
		printer.Info(fmt.Sprintf("Loaded %d surface stations for %s",
			len(cmdCtx.Manager.Store.SurfaceStations), scope.Key()))
	}

	return nil
}

func (c *MapCommand) newBoundsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Show the bounding box of loaded features per scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			if len(cmdCtx.Manager.Store.Bounds) == 0 {
				fmt.Println("No map data loaded; run 'cavemap map load' first")
				return nil
			}
			for scopeKey, box := range cmdCtx.Manager.Store.Bounds {
				fmt.Printf("%s: [%.5f, %.5f] .. [%.5f, %.5f]\n",
					scopeKey, box.MinLatitude, box.MinLongitude, box.MaxLatitude, box.MaxLongitude)
			}
			return nil
		},
	}
	return cmd
}

func (c *MapCommand) newSaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the loaded map data as an offline snapshot",
		Args:  cobra.NoArgs,
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

			store := cmdCtx.Manager.Store
			if len(store.Stations) == 0 && len(store.POIs) == 0 {
				return fmt.Errorf("no map data loaded; run 'cavemap map load' first")
			}

			snap := &storage.Snapshot{}
			for _, st := range store.Stations {
				snap.Stations = append(snap.Stations, *st)
			}
			for _, st := range store.SurfaceStations {
				snap.SurfaceStations = append(snap.SurfaceStations, *st)
			}
			for _, poi := range store.POIs {
				snap.POIs = append(snap.POIs, *poi)
			}
			for _, tag := range store.Tags {
				snap.Tags = append(snap.Tags, *tag)
			}

			snaps, err := storage.NewStorage("")
			if err != nil {
				return err
			}
			if err := snaps.Save(scope.Key(), snap); err != nil {
				return err
			}
			output.NewPrinter(output.FormatTable, false).Success(
				fmt.Sprintf("Saved snapshot for %s (%d stations, %d surface stations, %d POIs)",
					scope.Key(), len(snap.Stations), len(snap.SurfaceStations), len(snap.POIs)))
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	return cmd
}

func (c *MapCommand) newRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a saved snapshot into the session cache",
		Long: `Replace the session's map data with a saved snapshot. Restored data is
not marked as fetched: the next bulk load for the scope still refetches
from the backend.`,
		Args: cobra.NoArgs,
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

			snaps, err := storage.NewStorage("")
			if err != nil {
				return err
			}
			snap, err := snaps.Load(scope.Key())
			if err != nil {
				return err
			}

			mgr := cmdCtx.Manager
			mgr.Reset()
			store := mgr.Store
			store.SetTags(snap.Tags)
			scopeKey := scope.Key()
			for i := range snap.Stations {
				st := snap.Stations[i]
				store.Stations[st.ID] = &st
				store.StationScopes[st.ID] = scopeKey
				store.ExpandBounds(scopeKey, st.Latitude, st.Longitude)
			}
			for i := range snap.SurfaceStations {
				st := snap.SurfaceStations[i]
				key := scopeKey
				if st.NetworkID != nil {
					key = state.Scope{Kind: state.ScopeNetwork, ID: *st.NetworkID}.Key()
				}
				store.SurfaceStations[st.ID] = &st
				store.StationScopes[st.ID] = key
				store.ExpandBounds(key, st.Latitude, st.Longitude)
			}
			for i := range snap.POIs {
				poi := snap.POIs[i]
				store.POIs[poi.ID] = &poi
				store.ExpandBounds(scopeKey, poi.Latitude, poi.Longitude)
			}
			for key := range store.Bounds {
				store.LayerVisibility[key] = true
				store.Layer.Refresh(key)
			}
			store.CurrentScope = &scope

			output.NewPrinter(output.FormatTable, false).Success(
				fmt.Sprintf("Restored snapshot for %s saved at %s",
					scopeKey, snap.SavedAt.Format("2006-01-02 15:04")))
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "Project scope (default: configured project)")
	return cmd
}

func (c *MapCommand) newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget all fetched map data, keeping session context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := RequireCommandContext(cmd.Context())
			if err != nil {
				return err
			}
			cmdCtx.Manager.Reset()
			output.NewPrinter(output.FormatTable, false).Success("Map caches cleared")
			return nil
		},
	}
}
