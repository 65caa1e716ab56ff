package wcps

import (
	"fmt"
	"strings"
)

// Encode wraps the expression with an output data format, producing the
// top-level query node, e.g. Encode("GTiff"). An Encode node is only valid
// as the query root; using one as an operand of another expression is a
// construction error.
func (e Expr) Encode(format string) Expr {
	if format == "" {
		return errExpr(fmt.Errorf("wcps: encode format must not be empty"))
	}
	return Expr{&encodeNode{of: toNode(e), format: format}}
}

// EncodeWithParams is Encode with format-specific parameters, forwarded as
// a quoted string with inner double quotes escaped.
func (e Expr) EncodeWithParams(format, params string) Expr {
	if format == "" {
		return errExpr(fmt.Errorf("wcps: encode format must not be empty"))
	}
	return Expr{&encodeNode{of: toNode(e), format: format, params: params}}
}

type encodeNode struct {
	of     node
	format string
	params string
}

func (n *encodeNode) render(ctx *renderContext) error {
	ctx.b.WriteString("encode(")
	if err := n.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", ")
	ctx.b.WriteString(quote(n.format))
	if n.params != "" {
		ctx.b.WriteString(", ")
		ctx.b.WriteString(quote(escapeQuotes(n.params)))
	}
	ctx.b.WriteByte(')')
	return nil
}

func (n *encodeNode) children() []node { return []node{n.of} }

// escapeQuotes backslash-escapes double quotes that are not already
// escaped.
func escapeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !escaped {
			b.WriteByte('\\')
		}
		escaped = c == '\\' && !escaped
		b.WriteByte(c)
	}
	return b.String()
}
