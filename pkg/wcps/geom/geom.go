// Package geom produces WKT geometry text for Clip expressions from H3
// cells and bounding boxes. Coordinates are WGS84 degrees in lon lat
// order, matching the axis order rasdaman expects for EPSG:4326 WKT.
package geom

import (
	"fmt"
	"strings"

	h3 "github.com/uber/h3-go/v4"
)

// CRS84 is the CRS identifier for the geometries this package produces,
// suitable for Expr.ClipWithCRS.
const CRS84 = "EPSG:4326"

func parseCell(cell string) (h3.Cell, error) {
	var c h3.Cell
	if err := c.UnmarshalText([]byte(cell)); err != nil {
		return 0, fmt.Errorf("geom: parse cell: %w", err)
	}
	if !c.IsValid() {
		return 0, fmt.Errorf("geom: invalid h3 cell %q", cell)
	}
	return c, nil
}

// ring renders a closed lon lat ring from a cell boundary.
func ring(b h3.CellBoundary) string {
	coords := make([]string, 0, len(b)+1)
	for _, ll := range b {
		coords = append(coords, fmt.Sprintf("%.8f %.8f", ll.Lng, ll.Lat))
	}
	coords = append(coords, coords[0])
	return strings.Join(coords, ", ")
}

// CellPolygon returns the hexagon outline of an H3 cell as WKT, e.g.
// POLYGON((18.06 59.32, ...)).
func CellPolygon(cell string) (string, error) {
	c, err := parseCell(cell)
	if err != nil {
		return "", err
	}
	b, err := c.Boundary()
	if err != nil {
		return "", fmt.Errorf("geom: boundary: %w", err)
	}
	if len(b) < 3 {
		return "", fmt.Errorf("geom: degenerate boundary for %s", cell)
	}
	return "POLYGON((" + ring(b) + "))", nil
}

// CellsMultiPolygon returns the outlines of several H3 cells as one WKT
// MULTIPOLYGON, preserving input order.
func CellsMultiPolygon(cells []string) (string, error) {
	if len(cells) == 0 {
		return "", fmt.Errorf("geom: no cells given")
	}
	parts := make([]string, 0, len(cells))
	for _, cell := range cells {
		c, err := parseCell(cell)
		if err != nil {
			return "", err
		}
		b, err := c.Boundary()
		if err != nil {
			return "", fmt.Errorf("geom: boundary of %s: %w", cell, err)
		}
		if len(b) < 3 {
			return "", fmt.Errorf("geom: degenerate boundary for %s", cell)
		}
		parts = append(parts, "(("+ring(b)+"))")
	}
	return "MULTIPOLYGON(" + strings.Join(parts, ", ") + ")", nil
}

// BBoxPolygon returns the axis-aligned rectangle spanning two corners as a
// closed WKT polygon.
func BBoxPolygon(lonMin, latMin, lonMax, latMax float64) string {
	return fmt.Sprintf("POLYGON((%[1]v %[2]v, %[3]v %[2]v, %[3]v %[4]v, %[1]v %[4]v, %[1]v %[2]v))",
		trimFloat(lonMin), trimFloat(latMin), trimFloat(lonMax), trimFloat(latMax))
}

// trimFloat keeps bbox corners in plain decimal form.
func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", f), "0"), ".")
}

// CellForLatLng returns the H3 cell containing the point at the given
// resolution (0 coarsest, 15 finest).
func CellForLatLng(lat, lng float64, res int) (string, error) {
	if res < 0 || res > 15 {
		return "", fmt.Errorf("geom: invalid h3 resolution %d (must be 0..15)", res)
	}
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), res)
	if err != nil {
		return "", fmt.Errorf("geom: cell for %v %v: %w", lat, lng, err)
	}
	return cell.String(), nil
}

// CellDisk returns the cell and its neighbors within k grid steps, in grid
// disk order.
func CellDisk(cell string, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("geom: disk radius must not be negative, got %d", k)
	}
	c, err := parseCell(cell)
	if err != nil {
		return nil, err
	}
	disk, err := h3.GridDisk(c, k)
	if err != nil {
		return nil, fmt.Errorf("geom: grid disk of %s: %w", cell, err)
	}
	out := make([]string, 0, len(disk))
	for _, d := range disk {
		out = append(out, d.String())
	}
	return out, nil
}
