// Package output provides formatted terminal output for survey entities.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/karstlab/cavemap/internal/api"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
}

// NewPrinter creates a new printer with the specified format
func NewPrinter(format Format, quiet bool) *Printer {
	return &Printer{
		writer: os.Stdout,
		format: format,
		quiet:  quiet,
	}
}

// NewPrinterWithWriter creates a new printer with a custom writer
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "ℹ %s\n", message)
	}
}

// PrintStation prints a single station in the specified format
func (p *Printer) PrintStation(s *api.Station) error {
	switch p.format {
	case FormatTable:
		return p.printStationTable(s)
	case FormatJSON:
		return p.printJSON(s)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintStationList prints a list of stations
func (p *Printer) PrintStationList(stations []*api.Station) error {
	switch p.format {
	case FormatTable:
		return p.printStationListTable(stations)
	case FormatJSON:
		return p.printJSON(stations)
	case FormatCSV:
		return p.printStationListCSV(stations)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintPOIList prints a list of points of interest
func (p *Printer) PrintPOIList(pois []*api.POI) error {
	switch p.format {
	case FormatTable:
		return p.printPOIListTable(pois)
	case FormatJSON:
		return p.printJSON(pois)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintTagList prints the user's tags
func (p *Printer) PrintTagList(tags []*api.Tag) error {
	switch p.format {
	case FormatTable:
		return p.printTagListTable(tags)
	case FormatJSON:
		return p.printJSON(tags)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintSensorInstallList prints a station's sensor installs
func (p *Printer) PrintSensorInstallList(installs []*api.SensorInstall) error {
	switch p.format {
	case FormatTable:
		return p.printSensorInstallListTable(installs)
	case FormatJSON:
		return p.printJSON(installs)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printStationTable(s *api.Station) error {
	fmt.Fprintf(p.writer, "Station: %s\n", s.Name)
	fmt.Fprintf(p.writer, "ID: %s\n", s.ID)
	if s.Description != "" {
		fmt.Fprintf(p.writer, "Description: %s\n", s.Description)
	}
	fmt.Fprintf(p.writer, "Position: %.6f, %.6f\n", s.Latitude, s.Longitude)
	if s.ProjectID != nil {
		fmt.Fprintf(p.writer, "Project: %s\n", *s.ProjectID)
	}
	if s.NetworkID != nil {
		fmt.Fprintf(p.writer, "Network: %s\n", *s.NetworkID)
	}
	if s.SubsurfaceType != "" {
		fmt.Fprintf(p.writer, "Type: %s\n", s.SubsurfaceType)
	}
	if s.TagID != nil {
		fmt.Fprintf(p.writer, "Tag: %s\n", *s.TagID)
	}
	fmt.Fprintf(p.writer, "Resources: %d  Logs: %d\n", s.ResourceCount, s.LogCount)
	if !s.UpdatedAt.Time().IsZero() {
		fmt.Fprintf(p.writer, "Updated: %s\n", s.UpdatedAt.Time().Format(time.RFC3339))
	}
	return nil
}

func (p *Printer) printStationListTable(stations []*api.Station) error {
	if len(stations) == 0 {
		fmt.Fprintf(p.writer, "No stations found\n")
		return nil
	}

	sort.Slice(stations, func(i, j int) bool {
		return stations[i].Name < stations[j].Name
	})

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tLAT\tLON\tTYPE\tRES\tLOGS\n")
	fmt.Fprintf(w, "----\t---\t---\t----\t---\t----\n")

	for _, s := range stations {
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%s\t%d\t%d\n",
			s.Name, s.Latitude, s.Longitude, s.SubsurfaceType, s.ResourceCount, s.LogCount)
	}
	return w.Flush()
}

func (p *Printer) printStationListCSV(stations []*api.Station) error {
	w := csv.NewWriter(p.writer)
	if err := w.Write([]string{"id", "name", "latitude", "longitude", "type"}); err != nil {
		return err
	}
	for _, s := range stations {
		record := []string{
			s.ID,
			s.Name,
			strconv.FormatFloat(s.Latitude, 'f', -1, 64),
			strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			string(s.SubsurfaceType),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (p *Printer) printPOIListTable(pois []*api.POI) error {
	if len(pois) == 0 {
		fmt.Fprintf(p.writer, "No points of interest found\n")
		return nil
	}

	sort.Slice(pois, func(i, j int) bool {
		return pois[i].Name < pois[j].Name
	})

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tLAT\tLON\tCREATED BY\n")
	fmt.Fprintf(w, "----\t---\t---\t----------\n")

	for _, poi := range pois {
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%s\n", poi.Name, poi.Latitude, poi.Longitude, poi.CreatedBy)
	}
	return w.Flush()
}

func (p *Printer) printTagListTable(tags []*api.Tag) error {
	if len(tags) == 0 {
		fmt.Fprintf(p.writer, "No tags found\n")
		return nil
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCOLOR\tID\n")
	fmt.Fprintf(w, "----\t-----\t--\n")

	for _, tag := range tags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", tag.Name, tag.Color, tag.ID)
	}
	return w.Flush()
}

func (p *Printer) printSensorInstallListTable(installs []*api.SensorInstall) error {
	if len(installs) == 0 {
		fmt.Fprintf(p.writer, "No sensor installs found\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSENSOR\tSTATUS\tINSTALLED\tBY\n")
	fmt.Fprintf(w, "--\t------\t------\t---------\t--\n")

	for _, install := range installs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			install.ID,
			install.SensorID,
			install.Status,
			install.InstalledAt.Time().Format("2006-01-02"),
			install.InstalledBy)
	}
	return w.Flush()
}

// printJSON prints any value as indented JSON
func (p *Printer) printJSON(v any) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
