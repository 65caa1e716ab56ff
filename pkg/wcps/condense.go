package wcps

import "fmt"

// CondenseOp is the accumulation operator of a general condenser.
type CondenseOp string

const (
	CondensePlus     CondenseOp = "+"
	CondenseMultiply CondenseOp = "*"
	CondenseMin      CondenseOp = "min"
	CondenseMax      CondenseOp = "max"
	CondenseAnd      CondenseOp = "and"
	CondenseOr       CondenseOp = "or"
	CondenseOverlay  CondenseOp = "overlay"
)

func (op CondenseOp) valid() bool {
	switch op {
	case CondensePlus, CondenseMultiply, CondenseMin, CondenseMax,
		CondenseAnd, CondenseOr, CondenseOverlay:
		return true
	}
	return false
}

// Condense stages a general condenser: iterate the cross product of the
// Over domains, optionally filter with Where, and accumulate the Using
// expression with the condense operator. Using finalizes the builder into
// an immutable expression; the iterator variables are in scope only inside
// the Where and Using clauses.
type Condense struct {
	op    CondenseOp
	iters []*AxisIter
	where node
	err   error
}

// NewCondense starts a condenser with the given accumulation operator.
func NewCondense(op CondenseOp) *Condense {
	c := &Condense{op: op}
	if !op.valid() {
		c.err = fmt.Errorf("wcps: invalid condense operator %q", string(op))
	}
	return c
}

// Over appends iteration variables. Declaration order is render order.
func (c *Condense) Over(iters ...*AxisIter) *Condense {
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

// Where filters the iteration: points where cond is false are skipped.
func (c *Condense) Where(cond any) *Condense {
	if c.err != nil {
		return c
	}
	c.where = toNode(cond)
	return c
}

// Using sets the accumulated expression and finalizes the condenser.
func (c *Condense) Using(body any) Expr {
	if c.err != nil {
		return errExpr(c.err)
	}
	if len(c.iters) == 0 {
		return errExpr(fmt.Errorf("wcps: condense requires an over clause with at least one iterator"))
	}
	return Expr{condenseNode{op: c.op, iters: c.iters, where: c.where, using: toNode(body)}}
}

type condenseNode struct {
	op    CondenseOp
	iters []*AxisIter
	where node
	using node
}

func (c condenseNode) render(ctx *renderContext) error {
	ctx.b.WriteString("(condense ")
	ctx.b.WriteString(string(c.op))
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
	if c.where != nil {
		ctx.b.WriteString(" where ")
		if err := c.where.render(ctx); err != nil {
			return err
		}
	}
	ctx.b.WriteString(" using ")
	if err := c.using.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (c condenseNode) children() []node {
	var nodes []node
	for _, it := range c.iters {
		nodes = append(nodes, it.domainChildren()...)
	}
	if c.where != nil {
		nodes = append(nodes, c.where)
	}
	nodes = append(nodes, c.using)
	return nodes
}
