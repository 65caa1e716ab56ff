package wcps

// binaryOp renders as (left op right). Operator nodes always parenthesize
// themselves, so nested operators come out fully parenthesized regardless
// of the server grammar's precedence table.
type binaryOp struct {
	op          string
	left, right node
}

func (b binaryOp) render(ctx *renderContext) error {
	ctx.b.WriteByte('(')
	if err := b.left.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(' ')
	ctx.b.WriteString(b.op)
	ctx.b.WriteByte(' ')
	if err := b.right.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (b binaryOp) children() []node { return []node{b.left, b.right} }

type unaryOp struct {
	op string
	of node
}

func (u unaryOp) render(ctx *renderContext) error {
	ctx.b.WriteByte('(')
	ctx.b.WriteString(u.op)
	ctx.b.WriteByte(' ')
	if err := u.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (u unaryOp) children() []node { return []node{u.of} }

// unaryFunc renders as fn(arg). Function calls are leaves for
// parenthesization purposes: no extra wrapping is added around them.
type unaryFunc struct {
	fn string
	of node
}

func (u unaryFunc) render(ctx *renderContext) error {
	ctx.b.WriteString(u.fn)
	ctx.b.WriteByte('(')
	if err := u.of.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (u unaryFunc) children() []node { return []node{u.of} }

type binaryFunc struct {
	fn          string
	left, right node
}

func (b binaryFunc) render(ctx *renderContext) error {
	ctx.b.WriteString(b.fn)
	ctx.b.WriteByte('(')
	if err := b.left.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", ")
	if err := b.right.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteByte(')')
	return nil
}

func (b binaryFunc) children() []node { return []node{b.left, b.right} }

func binary(e Expr, other any, op string) Expr {
	return Expr{binaryOp{op: op, left: toNode(e), right: toNode(other)}}
}

func binaryFn(e Expr, other any, fn string) Expr {
	return Expr{binaryFunc{fn: fn, left: toNode(e), right: toNode(other)}}
}

func unaryFn(e Expr, fn string) Expr {
	return Expr{unaryFunc{fn: fn, of: toNode(e)}}
}

// arithmetic

// Add builds e + other.
func (e Expr) Add(other any) Expr { return binary(e, other, "+") }

// Sub builds e - other.
func (e Expr) Sub(other any) Expr { return binary(e, other, "-") }

// Mul builds e * other.
func (e Expr) Mul(other any) Expr { return binary(e, other, "*") }

// Div builds e / other.
func (e Expr) Div(other any) Expr { return binary(e, other, "/") }

// Mod builds mod(e, other).
func (e Expr) Mod(other any) Expr { return binaryFn(e, other, "mod") }

// Abs builds abs(e).
func (e Expr) Abs() Expr { return unaryFn(e, "abs") }

// Round rounds e to the nearest integer.
func (e Expr) Round() Expr { return unaryFn(e, "round") }

// Floor rounds e down to the nearest integer.
func (e Expr) Floor() Expr { return unaryFn(e, "floor") }

// Ceil rounds e up to the nearest integer.
func (e Expr) Ceil() Expr { return unaryFn(e, "ceil") }

// exponential

// Exp builds exp(e).
func (e Expr) Exp() Expr { return unaryFn(e, "exp") }

// Log builds the base-10 logarithm log(e).
func (e Expr) Log() Expr { return unaryFn(e, "log") }

// Ln builds the natural logarithm ln(e).
func (e Expr) Ln() Expr { return unaryFn(e, "ln") }

// Sqrt builds sqrt(e).
func (e Expr) Sqrt() Expr { return unaryFn(e, "sqrt") }

// Pow raises e to the power of other.
func (e Expr) Pow(other any) Expr { return binaryFn(e, other, "pow") }

// trigonometric

// Sin builds sin(e).
func (e Expr) Sin() Expr { return unaryFn(e, "sin") }

// Cos builds cos(e).
func (e Expr) Cos() Expr { return unaryFn(e, "cos") }

// Tan builds tan(e).
func (e Expr) Tan() Expr { return unaryFn(e, "tan") }

// Sinh builds sinh(e).
func (e Expr) Sinh() Expr { return unaryFn(e, "sinh") }

// Cosh builds cosh(e).
func (e Expr) Cosh() Expr { return unaryFn(e, "cosh") }

// Tanh builds tanh(e).
func (e Expr) Tanh() Expr { return unaryFn(e, "tanh") }

// ArcSin builds arcsin(e).
func (e Expr) ArcSin() Expr { return unaryFn(e, "arcsin") }

// ArcCos builds arccos(e).
func (e Expr) ArcCos() Expr { return unaryFn(e, "arccos") }

// ArcTan builds arctan(e).
func (e Expr) ArcTan() Expr { return unaryFn(e, "arctan") }

// ArcTan2 builds arctan2(e).
func (e Expr) ArcTan2() Expr { return unaryFn(e, "arctan2") }

// comparison

// Gt builds e > other.
func (e Expr) Gt(other any) Expr { return binary(e, other, ">") }

// Lt builds e < other.
func (e Expr) Lt(other any) Expr { return binary(e, other, "<") }

// Ge builds e >= other.
func (e Expr) Ge(other any) Expr { return binary(e, other, ">=") }

// Le builds e <= other.
func (e Expr) Le(other any) Expr { return binary(e, other, "<=") }

// Eq builds e = other.
func (e Expr) Eq(other any) Expr { return binary(e, other, "=") }

// Ne builds e != other.
func (e Expr) Ne(other any) Expr { return binary(e, other, "!=") }

// logical

// And builds e and other.
func (e Expr) And(other any) Expr { return binary(e, other, "and") }

// Or builds e or other.
func (e Expr) Or(other any) Expr { return binary(e, other, "or") }

// Xor builds e xor other.
func (e Expr) Xor(other any) Expr { return binary(e, other, "xor") }

// Not builds (not e).
func (e Expr) Not() Expr { return Expr{unaryOp{op: "not", of: toNode(e)}} }

// Overlay places other on top of e: where other's cell value is non-zero
// and non-null it wins, elsewhere e's value is taken.
func (e Expr) Overlay(other any) Expr { return binary(e, other, "overlay") }

// Bit extracts the bit at position pos from e's cell values as a boolean
// byte. Position 0 is the least significant bit.
func (e Expr) Bit(pos any) Expr { return binaryFn(e, pos, "bit") }
