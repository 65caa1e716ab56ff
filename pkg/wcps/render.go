package wcps

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrScope reports an iterator reference rendered while its declaring
// condense/coverage scope is not active.
var ErrScope = errors.New("iterator referenced outside its declaring scope")

// renderContext threads the output buffer and the stack of iterator
// bindings through a single render call. A fresh context is created per
// Render invocation, so unmutated trees can be rendered concurrently.
type renderContext struct {
	b     *strings.Builder
	scope []*AxisIter
}

// pushScope binds iterators for the duration of a condense/coverage body.
// Duplicate variable names within the active nesting are rejected. The
// caller must pop the same count on every exit path.
func (ctx *renderContext) pushScope(iters []*AxisIter) error {
	for _, it := range iters {
		for _, bound := range ctx.scope {
			if bound.varName == it.varName {
				return fmt.Errorf("wcps: duplicate iterator variable %s in nested scope", it.varName)
			}
		}
		ctx.scope = append(ctx.scope, it)
	}
	return nil
}

func (ctx *renderContext) popScope(n int) {
	ctx.scope = ctx.scope[:len(ctx.scope)-n]
}

func (ctx *renderContext) inScope(it *AxisIter) bool {
	for _, bound := range ctx.scope {
		if bound == it {
			return true
		}
	}
	return false
}

// Render serializes the expression to WCPS query text. All datacubes
// referenced anywhere in the tree are collected, deduplicated by name, and
// declared sorted in the for clause; the expression body follows. Rendering
// an unmutated tree is deterministic and yields byte-identical output.
func Render(e Expr) (string, error) {
	if e.n == nil {
		return "", errors.New("wcps: cannot render a zero-value expression")
	}
	if err := findErr(e.n); err != nil {
		return "", err
	}
	cubes := collectDatacubes(e.n)
	if len(cubes) == 0 {
		return "", errors.New("wcps: no datacubes referenced in the expression")
	}

	var b strings.Builder
	b.WriteString("for ")
	for i, name := range cubes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%s in (%s)", name, name)
	}
	b.WriteString("\nreturn\n  ")

	ctx := &renderContext{b: &b}
	if err := e.n.render(ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render is shorthand for wcps.Render(e).
func (e Expr) Render() (string, error) {
	return Render(e)
}

// findErr returns the first construction error recorded anywhere in the
// tree, so a bad operand surfaces instead of a misleading later failure.
func findErr(root node) error {
	queue := []node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil {
			continue
		}
		if e, ok := n.(errNode); ok {
			return e.err
		}
		queue = append(queue, n.children()...)
	}
	return nil
}

func collectDatacubes(root node) []string {
	seen := map[string]struct{}{}
	queue := []node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil {
			continue
		}
		if d, ok := n.(datacube); ok {
			seen[d.name] = struct{}{}
		}
		queue = append(queue, n.children()...)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderList(ctx *renderContext, nodes []node, sep string) error {
	for i, n := range nodes {
		if i > 0 {
			ctx.b.WriteString(sep)
		}
		if err := n.render(ctx); err != nil {
			return err
		}
	}
	return nil
}
