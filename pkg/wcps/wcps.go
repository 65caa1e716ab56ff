// Package wcps builds WCPS (Web Coverage Processing Service) queries as
// expression trees and renders them to query text accepted by a WCPS server.
//
// An expression is composed from Datacube references, scalars and the
// operator/constructor methods on Expr, and finally rendered:
//
//	cov := wcps.Datacube("S2_L2A")
//	ndvi := cov.Band("nir").Sub(cov.Band("red")).Div(cov.Band("nir").Add(cov.Band("red")))
//	query, err := ndvi.Encode("PNG").Render()
//
// Rendering is a pure tree traversal: nodes are never mutated, and the same
// tree always renders to the same text. The library performs no I/O; see
// pkg/client for query execution.
package wcps

import (
	"fmt"
	"strconv"
	"strings"
)

// node is the closed contract implemented by every expression variant.
type node interface {
	// render appends the WCPS text for this node to ctx.
	render(ctx *renderContext) error
	// children returns referenced sub-nodes, used to collect datacubes.
	children() []node
}

// Expr is a WCPS expression. The zero value is invalid; construct one with
// Datacube, Scalar, or any of the operator methods. Expr values are
// immutable: every method returns a new expression referencing its operands.
type Expr struct {
	n node
}

// Datacube references a named coverage on the server. Two Datacube nodes
// with the same name refer to the same coverage and render as one binding
// in the query's for clause.
func Datacube(name string) Expr {
	if name == "" {
		return errExpr(fmt.Errorf("wcps: datacube name must not be empty"))
	}
	return Expr{datacube{name: name}}
}

// Scalar lifts a Go value (int, float64, bool, or string) into an
// expression. Strings render double-quoted.
func Scalar(v any) Expr {
	return Expr{toNode(v)}
}

type datacube struct {
	name string
}

func (d datacube) render(ctx *renderContext) error {
	ctx.b.WriteByte('$')
	ctx.b.WriteString(d.name)
	return nil
}

func (d datacube) children() []node { return nil }

type scalar struct {
	text string
}

func (s scalar) render(ctx *renderContext) error {
	ctx.b.WriteString(s.text)
	return nil
}

func (s scalar) children() []node { return nil }

// errNode carries a construction error through the tree so that it surfaces
// from Render instead of being lost in a method chain.
type errNode struct {
	err error
}

func (e errNode) render(*renderContext) error { return e.err }
func (e errNode) children() []node            { return nil }

func errExpr(err error) Expr { return Expr{errNode{err: err}} }

// toNode converts an operand to a node. Expressions pass through, scalars
// are wrapped, anything else is an error. An Encode node is rejected here:
// encode is only valid at the query root.
func toNode(v any) node {
	switch x := v.(type) {
	case Expr:
		if x.n == nil {
			return errNode{err: fmt.Errorf("wcps: zero-value Expr used as operand")}
		}
		if _, ok := x.n.(*encodeNode); ok {
			return errNode{err: fmt.Errorf("wcps: encode is only valid as the query root, not as an operand")}
		}
		return x.n
	case int:
		return scalar{text: strconv.Itoa(x)}
	case int64:
		return scalar{text: strconv.FormatInt(x, 10)}
	case float64:
		return scalar{text: formatFloat(x)}
	case float32:
		return scalar{text: formatFloat(float64(x))}
	case bool:
		return scalar{text: strconv.FormatBool(x)}
	case string:
		return scalar{text: quote(x)}
	default:
		return errNode{err: fmt.Errorf("wcps: invalid operand type %T, expected an Expr or a scalar", v)}
	}
}

// formatFloat renders a float in plain decimal form, never exponent
// notation and never locale-dependent.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}
