package wcps

import (
	"fmt"
	"strconv"
)

// Band selects a field (band, channel) from a multiband value by name or
// zero-based index.
func (e Expr) Band(field any) Expr {
	var name string
	switch f := field.(type) {
	case string:
		if f == "" {
			return errExpr(fmt.Errorf("wcps: band name must not be empty"))
		}
		name = f
	case int:
		name = strconv.Itoa(f)
	default:
		return errExpr(fmt.Errorf("wcps: invalid band selector type %T, expected string or int", field))
	}
	return Expr{bandNode{of: toNode(e), field: name}}
}

type bandNode struct {
	of    node
	field string
}

func (b bandNode) render(ctx *renderContext) error {
	if err := b.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte('.')
	ctx.b.WriteString(b.field)
	return nil
}

func (b bandNode) children() []node { return []node{b.of} }

// BandDef names one band of a MultiBand composite.
type BandDef struct {
	Name  string
	Value any
}

// MultiBand composes a multiband value from named bands. Declaration order
// is render order.
func MultiBand(bands ...BandDef) Expr {
	if len(bands) == 0 {
		return errExpr(fmt.Errorf("wcps: multiband requires at least one band"))
	}
	m := multibandNode{names: make([]string, len(bands)), values: make([]node, len(bands))}
	for i, b := range bands {
		if b.Name == "" {
			return errExpr(fmt.Errorf("wcps: multiband band %d has no name", i))
		}
		m.names[i] = b.Name
		m.values[i] = toNode(b.Value)
	}
	return Expr{m}
}

// RGB composes a red/green/blue multiband value.
func RGB(r, g, b any) Expr {
	return MultiBand(BandDef{"red", r}, BandDef{"green", g}, BandDef{"blue", b})
}

// RGBA composes a red/green/blue/alpha multiband value.
func RGBA(r, g, b, a any) Expr {
	return MultiBand(BandDef{"red", r}, BandDef{"green", g}, BandDef{"blue", b}, BandDef{"alpha", a})
}

type multibandNode struct {
	names  []string
	values []node
}

func (m multibandNode) render(ctx *renderContext) error {
	ctx.b.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			ctx.b.WriteString("; ")
		}
		ctx.b.WriteString(name)
		ctx.b.WriteString(": ")
		if err := m.values[i].render(ctx); err != nil {
			return err
		}
	}
	ctx.b.WriteByte('}')
	return nil
}

func (m multibandNode) children() []node { return m.values }
