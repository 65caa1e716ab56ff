package wcps

import "fmt"

// AxisMin and AxisMax select the whole extent of an axis when used as a
// trim bound, rendering as the unquoted marker *.
const (
	AxisMin = "*"
	AxisMax = "*"
)

// Axis is one axis entry of a subset, extend, scale or reproject
// operation: a name with either a single slice point or a trim range,
// optionally qualified by a CRS when the bounds are not in the native CRS.
// Bounds may be numbers, date/time strings (rendered quoted), or iterator
// references obtained from AxisIter.Ref.
type Axis struct {
	name string
	lo   node
	hi   node // nil means slice
	crs  string
	err  error
}

// Slice subsets an axis to a single point, removing the axis from the
// result.
func Slice(name string, at any) Axis {
	if name == "" {
		return Axis{err: fmt.Errorf("wcps: axis name must not be empty")}
	}
	return Axis{name: name, lo: toBound(at)}
}

// Trim subsets an axis to the [lo, hi] range, keeping the axis in the
// result. Use AxisMin/AxisMax for the native extent.
func Trim(name string, lo, hi any) Axis {
	if name == "" {
		return Axis{err: fmt.Errorf("wcps: axis name must not be empty")}
	}
	return Axis{name: name, lo: toBound(lo), hi: toBound(hi)}
}

// WithCRS returns a copy of the axis with a CRS attached, e.g.
// "EPSG:4326".
func (a Axis) WithCRS(crs string) Axis {
	a.crs = crs
	return a
}

// toBound is toNode with one exception: the * extent marker renders
// unquoted even though it arrives as a string.
func toBound(v any) node {
	if s, ok := v.(string); ok && s == "*" {
		return scalar{text: "*"}
	}
	return toNode(v)
}

func (a Axis) render(ctx *renderContext) error {
	if a.err != nil {
		return a.err
	}
	ctx.b.WriteString(a.name)
	if a.crs != "" {
		ctx.b.WriteByte(':')
		ctx.b.WriteString(quote(a.crs))
	}
	ctx.b.WriteByte('(')
	if err := a.lo.render(ctx); err != nil {
		return err
	}
	if a.hi != nil {
		ctx.b.WriteByte(':')
		if err := a.hi.render(ctx); err != nil {
			return err
		}
	}
	ctx.b.WriteByte(')')
	return nil
}

func (a Axis) children() []node {
	if a.hi != nil {
		return []node{a.lo, a.hi}
	}
	return []node{a.lo}
}

func axisNodes(axes []Axis) []node {
	nodes := make([]node, len(axes))
	for i, a := range axes {
		nodes[i] = a
	}
	return nodes
}
