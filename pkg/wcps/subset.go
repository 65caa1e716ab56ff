package wcps

import "fmt"

// subsetNode renders as src[X(0:10), Y("2025-01-01")]. The bracketed form
// is already a leaf for parenthesization purposes.
type subsetNode struct {
	src  node
	axes []Axis
}

func (s subsetNode) render(ctx *renderContext) error {
	if err := s.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte('[')
	if err := renderList(ctx, axisNodes(s.axes), ", "); err != nil {
		return err
	}
	ctx.b.WriteByte(']')
	return nil
}

func (s subsetNode) children() []node {
	return append([]node{s.src}, axisNodes(s.axes)...)
}

// Subset selects a spatio-temporal area from the coverage. Axis entries
// render in the given order; slices and trims may be mixed.
func (e Expr) Subset(axes ...Axis) Expr {
	if len(axes) == 0 {
		return errExpr(fmt.Errorf("wcps: subset requires at least one axis"))
	}
	return Expr{subsetNode{src: toNode(e), axes: axes}}
}

type extendNode struct {
	src  node
	axes []Axis
}

func (x extendNode) render(ctx *renderContext) error {
	ctx.b.WriteString("extend(")
	if err := x.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", { ")
	if err := renderList(ctx, axisNodes(x.axes), ", "); err != nil {
		return err
	}
	ctx.b.WriteString(" })")
	return nil
}

func (x extendNode) children() []node {
	return append([]node{x.src}, axisNodes(x.axes)...)
}

// Extend enlarges the coverage to the given axis intervals, filling new
// areas with null values.
func (e Expr) Extend(axes ...Axis) Expr {
	if len(axes) == 0 {
		return errExpr(fmt.Errorf("wcps: extend requires at least one axis"))
	}
	return Expr{extendNode{src: toNode(e), axes: axes}}
}
