// cavemap is a CLI client for the cave survey backend: stations, points of
// interest, installs, tags and bulk map data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karstlab/cavemap/internal/command"
	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/logger"
	"github.com/karstlab/cavemap/internal/manager"
	"github.com/karstlab/cavemap/internal/util"
)

var (
	version     = "dev"
	serverURL   string
	globalFlags = struct {
		debug bool
	}{}
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "cavemap",
		Short: "cavemap - cave survey station and map data client",
		Long: `cavemap is a CLI client for a cave survey backend.
It manages stations, surface stations, points of interest, sensor and
cylinder installs, tags, station attachments and bulk map data.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if globalFlags.debug {
				logger.GetLogger().SetLevel(logger.DEBUG)
			}

			// Load configuration from file and environment
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Override server URL if specified via flag
			if serverURL != "" {
				cfg.ServerURL = serverURL
				// Re-validate after override
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}

			// Initialize the unified entity manager over the API client
			mgr, err := manager.NewManager(cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to initialize manager: %w", err)
			}

			// Store in command context
			cmdCtx := util.NewCommandContext(cfg, mgr)
			ctx := command.WithEntityManager(cmd.Context(), mgr)
			cmd.SetContext(command.WithCommandContext(ctx, cmdCtx))
			return nil
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Backend base URL (default: $CAVEMAP_SERVER_URL or config file)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug output")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "global",
		Title: "Global Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "entities",
		Title: "Entity Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "station",
		Title: "Station Operations:",
	})

	// Add commands organized by groups
	rootCmd.AddCommand(
		// Global Commands - session-wide operations
		command.NewMapCommand("global"),    // Bulk map data
		command.NewUICommand("global"),     // Terminal user interface
		command.NewExportCommand("global"), // Spreadsheet export

		// Entity Management
		command.NewStationCommand("entities"), // Stations and surface stations
		command.NewPOICommand("entities"),     // Points of interest
		command.NewTagCommand("entities"),     // Tags

		// Station Operations - act on a single station
		command.NewInstallCommand("station"), // Sensor and cylinder installs
		command.NewAttachCommand("station"),  // Resources, logs, experiments
	)

	// Enable version flag
	rootCmd.SetVersionTemplate("cavemap version {{.Version}}\n")

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
