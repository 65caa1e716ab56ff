package wcps

import "fmt"

// Switch stages a conditional dispatch: cases are evaluated top to bottom,
// the first true condition wins, and the mandatory Default finalizes the
// builder. At least one case is required.
type Switch struct {
	conds   []node
	results []node
	err     error
}

// NewSwitch starts an empty switch.
func NewSwitch() *Switch {
	return &Switch{}
}

// Case appends a condition/result branch.
func (s *Switch) Case(cond, result any) *Switch {
	if s.err != nil {
		return s
	}
	s.conds = append(s.conds, toNode(cond))
	s.results = append(s.results, toNode(result))
	return s
}

// Default sets the result used when no case matches and finalizes the
// switch. A switch with no cases is a structural error surfaced by Render.
func (s *Switch) Default(result any) Expr {
	if s.err != nil {
		return errExpr(s.err)
	}
	if len(s.conds) == 0 {
		return errExpr(fmt.Errorf("wcps: switch requires at least one case before the default"))
	}
	return Expr{switchNode{conds: s.conds, results: s.results, def: toNode(result)}}
}

type switchNode struct {
	conds   []node
	results []node
	def     node
}

func (s switchNode) render(ctx *renderContext) error {
	ctx.b.WriteString("(switch")
	for i := range s.conds {
		ctx.b.WriteString(" case ")
		if err := s.conds[i].render(ctx); err != nil {
			return err
		}
		ctx.b.WriteString(" return ")
		if err := s.results[i].render(ctx); err != nil {
			return err
		}
	}
	ctx.b.WriteString(" default return ")
	if err := s.def.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (s switchNode) children() []node {
	nodes := make([]node, 0, len(s.conds)*2+1)
	nodes = append(nodes, s.conds...)
	nodes = append(nodes, s.results...)
	nodes = append(nodes, s.def)
	return nodes
}
