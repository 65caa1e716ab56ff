package wcps

import "fmt"

// Udf calls a user-defined function (or any WCPS function without a
// dedicated node) with positional arguments. No arity or type checking is
// done locally; the server's function registry is the source of truth.
func Udf(functionName string, args ...any) Expr {
	if functionName == "" {
		return errExpr(fmt.Errorf("wcps: udf function name must not be empty"))
	}
	nodes := make([]node, len(args))
	for i, a := range args {
		nodes[i] = toNode(a)
	}
	return Expr{udfNode{fn: functionName, args: nodes}}
}

type udfNode struct {
	fn   string
	args []node
}

func (u udfNode) render(ctx *renderContext) error {
	ctx.b.WriteString(u.fn)
	ctx.b.WriteByte('(')
	if err := renderList(ctx, u.args, ", "); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (u udfNode) children() []node { return u.args }
