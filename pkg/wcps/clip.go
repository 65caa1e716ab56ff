package wcps

import "fmt"

// Clip subsets the coverage by a WKT geometry. The geometry text is
// forwarded to the server unmodified and unvalidated; malformed WKT is a
// server-side error.
func (e Expr) Clip(wkt string) Expr {
	if wkt == "" {
		return errExpr(fmt.Errorf("wcps: clip geometry must not be empty"))
	}
	return Expr{clipNode{src: toNode(e), wkt: wkt}}
}

// ClipWithCRS is Clip with the CRS of the geometry coordinates attached.
func (e Expr) ClipWithCRS(wkt, crs string) Expr {
	if wkt == "" {
		return errExpr(fmt.Errorf("wcps: clip geometry must not be empty"))
	}
	if crs == "" {
		return errExpr(fmt.Errorf("wcps: clip CRS must not be empty"))
	}
	return Expr{clipNode{src: toNode(e), wkt: wkt, crs: crs}}
}

type clipNode struct {
	src node
	wkt string
	crs string
}

func (c clipNode) render(ctx *renderContext) error {
	ctx.b.WriteString("clip(")
	if err := c.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", ")
	ctx.b.WriteString(c.wkt)
	if c.crs != "" {
		ctx.b.WriteString(", ")
		ctx.b.WriteString(quote(c.crs))
	}
	ctx.b.WriteByte(')')
	return nil
}

func (c clipNode) children() []node { return []node{c.src} }
