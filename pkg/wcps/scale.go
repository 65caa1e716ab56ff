package wcps

import "fmt"

// ScaleToGrid resamples the coverage to fit the explicit grid domain given
// per axis, e.g. ScaleToGrid(Trim("X", 0, 99), Trim("Y", 0, 99)).
func (e Expr) ScaleToGrid(axes ...Axis) Expr {
	if len(axes) == 0 {
		return errExpr(fmt.Errorf("wcps: scale requires at least one target axis"))
	}
	return Expr{scaleGrid{src: toNode(e), axes: axes}}
}

// ScaleToDomainOf resamples the coverage to fit the grid domain of another
// coverage expression.
func (e Expr) ScaleToDomainOf(other Expr) Expr {
	return Expr{scaleDomainOf{src: toNode(e), of: toNode(other)}}
}

// ScaleByFactor resamples all axes by one factor: > 1 scales up,
// 0 < factor < 1 scales down.
func (e Expr) ScaleByFactor(factor float64) Expr {
	if factor <= 0 {
		return errExpr(fmt.Errorf("wcps: scale factor must be greater than zero, got %v", factor))
	}
	return Expr{scaleFactor{src: toNode(e), factor: factor}}
}

// ScaleByFactors resamples with one factor per axis, each given as a
// slice-form Axis holding the factor, e.g. Slice("X", 1.5). Trim bounds or
// a CRS on a factor axis are construction errors.
func (e Expr) ScaleByFactors(axes ...Axis) Expr {
	if len(axes) == 0 {
		return errExpr(fmt.Errorf("wcps: scale requires at least one axis factor"))
	}
	for _, a := range axes {
		if a.err != nil {
			return errExpr(a.err)
		}
		if a.hi != nil {
			return errExpr(fmt.Errorf("wcps: axis %s: a scale factor axis must hold a single factor, not a range", a.name))
		}
		if a.crs != "" {
			return errExpr(fmt.Errorf("wcps: axis %s: a scale factor axis must not carry a CRS", a.name))
		}
	}
	return Expr{scaleGrid{src: toNode(e), axes: axes}}
}

type scaleGrid struct {
	src  node
	axes []Axis
}

func (s scaleGrid) render(ctx *renderContext) error {
	ctx.b.WriteString("scale(")
	if err := s.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", { ")
	if err := renderList(ctx, axisNodes(s.axes), ", "); err != nil {
		return err
	}
	ctx.b.WriteString(" })")
	return nil
}

func (s scaleGrid) children() []node {
	return append([]node{s.src}, axisNodes(s.axes)...)
}

type scaleDomainOf struct {
	src node
	of  node
}

func (s scaleDomainOf) render(ctx *renderContext) error {
	ctx.b.WriteString("scale(")
	if err := s.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", { imageCrsDomain(")
	if err := s.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(") })")
	return nil
}

func (s scaleDomainOf) children() []node { return []node{s.src, s.of} }

type scaleFactor struct {
	src    node
	factor float64
}

func (s scaleFactor) render(ctx *renderContext) error {
	ctx.b.WriteString("scale(")
	if err := s.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", ")
	ctx.b.WriteString(formatFloat(s.factor))
	ctx.b.WriteByte(')')
	return nil
}

func (s scaleFactor) children() []node { return []node{s.src} }
