package wcps

import "fmt"

// Coverage stages a coverage constructor: a new coverage whose domain is
// the cross product of the Over iterators and whose cell value at each
// point is the Values expression, or an enumerated ValueList. Values and
// ValueList finalize the builder; the iterator variables are in scope only
// inside the Values clause.
type Coverage struct {
	name  string
	iters []*AxisIter
	err   error
}

// NewCoverage starts a coverage constructor producing a coverage with the
// given name.
func NewCoverage(name string) *Coverage {
	c := &Coverage{name: name}
	if name == "" {
		c.err = fmt.Errorf("wcps: coverage name must not be empty")
	}
	return c
}

// Over appends iteration variables. Declaration order is render order.
func (c *Coverage) Over(iters ...*AxisIter) *Coverage {
	if c.err != nil {
		return c
	}
	for _, it := range iters {
		if it.err != nil {
			c.err = it.err
			return c
		}
		for _, have := range c.iters {
			if have.varName == it.varName {
				c.err = fmt.Errorf("wcps: duplicate iterator variable %s in over clause", it.varName)
				return c
			}
		}
		c.iters = append(c.iters, it)
	}
	return c
}

// Values sets the per-point value expression and finalizes the
// constructor.
func (c *Coverage) Values(v any) Expr {
	if c.err != nil {
		return errExpr(c.err)
	}
	if len(c.iters) == 0 {
		return errExpr(fmt.Errorf("wcps: coverage constructor requires an over clause with at least one iterator"))
	}
	return Expr{coverageNode{name: c.name, iters: c.iters, values: toNode(v)}}
}

// ValueList enumerates every cell value of the domain in order and
// finalizes the constructor.
func (c *Coverage) ValueList(vals ...any) Expr {
	if c.err != nil {
		return errExpr(c.err)
	}
	if len(c.iters) == 0 {
		return errExpr(fmt.Errorf("wcps: coverage constructor requires an over clause with at least one iterator"))
	}
	if len(vals) == 0 {
		return errExpr(fmt.Errorf("wcps: coverage value list must not be empty"))
	}
	list := make([]node, len(vals))
	for i, v := range vals {
		list[i] = toNode(v)
	}
	return Expr{coverageNode{name: c.name, iters: c.iters, valueList: list}}
}

type coverageNode struct {
	name      string
	iters     []*AxisIter
	values    node
	valueList []node
}

func (c coverageNode) render(ctx *renderContext) error {
	ctx.b.WriteString("(coverage ")
	ctx.b.WriteString(c.name)
	ctx.b.WriteString(" over ")
	for i, it := range c.iters {
		if i > 0 {
			ctx.b.WriteString(", ")
		}
		if err := it.renderDecl(ctx); err != nil {
			return err
		}
	}
	if err := ctx.pushScope(c.iters); err != nil {
		return err
	}
	defer ctx.popScope(len(c.iters))
	if c.values != nil {
		ctx.b.WriteString(" values ")
		if err := c.values.render(ctx); err != nil {
			return err
		}
	} else {
		ctx.b.WriteString(" value list < ")
		if err := renderList(ctx, c.valueList, "; "); err != nil {
			return err
		}
		ctx.b.WriteString(" >")
	}
	ctx.b.WriteByte(')')
	return nil
}

func (c coverageNode) children() []node {
	var nodes []node
	for _, it := range c.iters {
		nodes = append(nodes, it.domainChildren()...)
	}
	if c.values != nil {
		nodes = append(nodes, c.values)
	}
	nodes = append(nodes, c.valueList...)
	return nodes
}
