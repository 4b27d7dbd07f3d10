package sweep

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/lidar-pointcount/internal/units"
)

// Units selects how distances and yaw angles are displayed. Empty fields
// mean meters and degrees. The angles in an estimate breakdown are always
// degrees.
type Units struct {
	Length string
	Angle  string
}

// LengthUnits returns the display length unit.
func (u Units) LengthUnits() string {
	if u.Length == "" {
		return units.Meters
	}
	return u.Length
}

// AngleUnits returns the display angle unit.
func (u Units) AngleUnits() string {
	if u.Angle == "" {
		return units.Degrees
	}
	return u.Angle
}

// Distance converts a distance in meters to the display unit.
func (u Units) Distance(meters float64) float64 {
	return units.ConvertLength(meters, u.LengthUnits())
}

// Angle converts a yaw angle in degrees to the display unit.
func (u Units) Angle(deg float64) float64 {
	return units.ConvertAngle(deg, u.AngleUnits())
}

// FormatDistance renders a distance in the display unit, to 4 decimals.
func (u Units) FormatDistance(meters float64) string {
	return formatFloat(round4(u.Distance(meters)))
}

// FormatAngle renders a yaw angle in the display unit, to 4 decimals.
func (u Units) FormatAngle(deg float64) string {
	return formatFloat(round4(u.Angle(deg)))
}

// AngleLabel renders a yaw angle with its unit, e.g. "45°" or "0.7854 rad".
func (u Units) AngleLabel(deg float64) string {
	if u.AngleUnits() == units.Radians {
		return u.FormatAngle(deg) + " rad"
	}
	return u.FormatAngle(deg) + "°"
}

// DistanceLabel is the axis title for distances, e.g. "Distance (m)".
func (u Units) DistanceLabel() string {
	return "Distance (" + u.LengthUnits() + ")"
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteTable renders results as a boxed text table of distance, angle and
// point count in the display units u.
func WriteTable(w io.Writer, results []Result, u Units) error {
	border := " " + strings.Repeat("-", 54) + " \n"
	sep := "|-----------------|----------------|-------------------|\n"

	var b strings.Builder
	b.WriteString(border)
	fmt.Fprintf(&b, "|    %-13s|   %-13s|    %-15s|\n",
		"Distance("+u.LengthUnits()+")", "Angle("+u.AngleUnits()+")", "Lidar points")
	for _, r := range results {
		b.WriteString(sep)
		fmt.Fprintf(&b, "|    %8s     |   %8s     |    %8d       |\n",
			u.FormatDistance(r.Distance), u.FormatAngle(r.Angle), r.Points)
	}
	b.WriteString(border)

	_, err := io.WriteString(w, b.String())
	return err
}

// CSVHeader returns the column layout written by a CSVWriter using u.
func CSVHeader(u Units) []string {
	return []string{
		"distance_" + u.LengthUnits(), "angle_" + u.AngleUnits(), "in_range",
		"vertical_angle_deg", "horizontal_angle_deg",
		"vertical_samples", "horizontal_samples", "points",
	}
}

// CSVWriter wraps csv.Writer with methods for sweep output.
type CSVWriter struct {
	w     *csv.Writer
	units Units
}

// NewCSVWriter creates a CSVWriter on w. Distance and yaw columns are
// written in u.
func NewCSVWriter(w io.Writer, u Units) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), units: u}
}

// WriteHeader writes the CSVHeader row.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(CSVHeader(c.units))
}

// WriteResult writes one row.
func (c *CSVWriter) WriteResult(r Result) error {
	e := r.Estimate
	return c.w.Write([]string{
		formatFloat(c.units.Distance(r.Distance)),
		formatFloat(c.units.Angle(r.Angle)),
		strconv.FormatBool(e.InRange),
		strconv.FormatFloat(e.VerticalAngle, 'f', 4, 64),
		strconv.FormatFloat(e.HorizontalAngle, 'f', 4, 64),
		strconv.Itoa(e.VerticalSamples),
		strconv.Itoa(e.HorizontalSamples),
		strconv.Itoa(r.Points),
	})
}

// WriteResults writes the header followed by every result, then flushes.
func (c *CSVWriter) WriteResults(results []Result) error {
	if err := c.WriteHeader(); err != nil {
		return err
	}
	for _, r := range results {
		if err := c.WriteResult(r); err != nil {
			return err
		}
	}
	return c.Flush()
}

// Flush writes any buffered data and reports a write error, if any.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
