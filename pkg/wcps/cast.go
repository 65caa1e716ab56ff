package wcps

import "fmt"

// CastType is a cell type accepted by Cast.
type CastType string

const (
	CastBoolean       CastType = "boolean"
	CastChar          CastType = "char"
	CastUnsignedChar  CastType = "unsigned char"
	CastShort         CastType = "short"
	CastUnsignedShort CastType = "unsigned short"
	CastInt           CastType = "int"
	CastUnsignedInt   CastType = "unsigned int"
	CastLong          CastType = "long"
	CastUnsignedLong  CastType = "unsigned long"
	CastFloat         CastType = "float"
	CastDouble        CastType = "double"
	CastCInt16        CastType = "cint16"
	CastCInt32        CastType = "cint32"
	CastComplex       CastType = "complex"
	CastComplex2      CastType = "complex2"
)

func (t CastType) valid() bool {
	switch t {
	case CastBoolean, CastChar, CastUnsignedChar, CastShort, CastUnsignedShort,
		CastInt, CastUnsignedInt, CastLong, CastUnsignedLong, CastFloat,
		CastDouble, CastCInt16, CastCInt32, CastComplex, CastComplex2:
		return true
	}
	return false
}

// Cast converts the cell values to a new type, rendering as
// ((type) expr).
func (e Expr) Cast(t CastType) Expr {
	if !t.valid() {
		return errExpr(fmt.Errorf("wcps: invalid cast target type %q", string(t)))
	}
	return Expr{castNode{of: toNode(e), to: t}}
}

type castNode struct {
	of node
	to CastType
}

func (c castNode) render(ctx *renderContext) error {
	ctx.b.WriteString("((")
	ctx.b.WriteString(string(c.to))
	ctx.b.WriteString(") ")
	if err := c.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (c castNode) children() []node { return []node{c.of} }
