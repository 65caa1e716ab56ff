package wcps

import (
	"fmt"
	"strings"
)

// AxisIter is an iteration variable bound to an axis domain, declared in
// the over clause of a Condense or Coverage constructor. The domain is one
// of a numeric Interval, the grid-axis domain of a coverage (OfGridAxis),
// or the geo-axis domain of a coverage (OfGeoAxis).
//
// Ref returns an expression referencing the variable; it is only valid
// inside the where/using/values clauses of the constructor that declared
// this iterator, and rendering it anywhere else fails with ErrScope.
type AxisIter struct {
	varName  string
	axisName string
	lo, hi   node
	gridAxis node
	geoAxis  node
	err      error
}

// Iter declares an iteration variable over the named axis. The variable
// name is prefixed with $ if not already.
func Iter(varName, axisName string) *AxisIter {
	it := &AxisIter{}
	if varName == "" {
		it.err = fmt.Errorf("wcps: iterator variable name must not be empty")
		return it
	}
	if axisName == "" {
		it.err = fmt.Errorf("wcps: iterator axis name must not be empty")
		return it
	}
	if !strings.HasPrefix(varName, "$") {
		varName = "$" + varName
	}
	it.varName = varName
	it.axisName = axisName
	return it
}

// Interval iterates over [lo, hi] inclusive.
func (it *AxisIter) Interval(lo, hi any) *AxisIter {
	if it.err != nil {
		return it
	}
	if it.gridAxis != nil || it.geoAxis != nil {
		it.err = fmt.Errorf("wcps: iterator %s: cannot combine an interval with a grid/geo axis domain", it.varName)
		return it
	}
	it.lo = toBound(lo)
	it.hi = toBound(hi)
	return it
}

// OfGridAxis iterates over the grid (pixel) domain of the iterator's axis
// in the given coverage expression.
func (it *AxisIter) OfGridAxis(cov Expr) *AxisIter {
	if it.err != nil {
		return it
	}
	if err := it.checkDomainUnset("grid"); err != nil {
		it.err = err
		return it
	}
	it.gridAxis = toNode(cov)
	return it
}

// OfGeoAxis iterates over the geo (real-world coordinate) domain of the
// iterator's axis in the given coverage expression.
func (it *AxisIter) OfGeoAxis(cov Expr) *AxisIter {
	if it.err != nil {
		return it
	}
	if err := it.checkDomainUnset("geo"); err != nil {
		it.err = err
		return it
	}
	it.geoAxis = toNode(cov)
	return it
}

func (it *AxisIter) checkDomainUnset(kind string) error {
	if it.lo != nil || it.hi != nil {
		return fmt.Errorf("wcps: iterator %s: cannot combine a %s axis domain with an interval", it.varName, kind)
	}
	if it.gridAxis != nil || it.geoAxis != nil {
		return fmt.Errorf("wcps: iterator %s: axis domain already specified", it.varName)
	}
	return nil
}

// Ref returns an expression that references this iteration variable.
func (it *AxisIter) Ref() Expr {
	return Expr{iterRef{of: it}}
}

// renderDecl emits the over-clause binding, e.g. $pt time(0 : 100) or
// $px X(imageCrsDomain($c, X)).
func (it *AxisIter) renderDecl(ctx *renderContext) error {
	if it.err != nil {
		return it.err
	}
	ctx.b.WriteString(it.varName)
	ctx.b.WriteByte(' ')
	ctx.b.WriteString(it.axisName)
	ctx.b.WriteByte('(')
	switch {
	case it.lo != nil && it.hi != nil:
		if err := it.lo.render(ctx); err != nil {
			return err
		}
		ctx.b.WriteString(" : ")
		if err := it.hi.render(ctx); err != nil {
			return err
		}
	case it.gridAxis != nil:
		ctx.b.WriteString("imageCrsDomain(")
		if err := it.gridAxis.render(ctx); err != nil {
			return err
		}
		ctx.b.WriteString(", ")
		ctx.b.WriteString(it.axisName)
		ctx.b.WriteByte(')')
	case it.geoAxis != nil:
		ctx.b.WriteString("domain(")
		if err := it.geoAxis.render(ctx); err != nil {
			return err
		}
		ctx.b.WriteString(", ")
		ctx.b.WriteString(it.axisName)
		ctx.b.WriteByte(')')
	default:
		return fmt.Errorf("wcps: iterator %s has no domain; use Interval, OfGridAxis, or OfGeoAxis", it.varName)
	}
	ctx.b.WriteByte(')')
	return nil
}

func (it *AxisIter) domainChildren() []node {
	switch {
	case it.gridAxis != nil:
		return []node{it.gridAxis}
	case it.geoAxis != nil:
		return []node{it.geoAxis}
	case it.lo != nil:
		return []node{it.lo, it.hi}
	}
	return nil
}

// iterRef renders the bare variable name, but only while the declaring
// iterator is on the active scope stack.
type iterRef struct {
	of *AxisIter
}

func (r iterRef) render(ctx *renderContext) error {
	if r.of.err != nil {
		return r.of.err
	}
	if !ctx.inScope(r.of) {
		return fmt.Errorf("wcps: %s: %w", r.of.varName, ErrScope)
	}
	ctx.b.WriteString(r.of.varName)
	return nil
}

// children is empty: the declaring constructor walks the iterator's domain
// expression itself.
func (r iterRef) children() []node { return nil }
