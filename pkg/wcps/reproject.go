package wcps

import "fmt"

// ResampleAlg is an interpolation method for Reproject.
type ResampleAlg string

const (
	ResampleNear        ResampleAlg = "near"
	ResampleBilinear    ResampleAlg = "bilinear"
	ResampleCubic       ResampleAlg = "cubic"
	ResampleCubicSpline ResampleAlg = "cubicspline"
	ResampleLanczos     ResampleAlg = "lanczos"
	ResampleAverage     ResampleAlg = "average"
	ResampleMode        ResampleAlg = "mode"
	ResampleMax         ResampleAlg = "max"
	ResampleMin         ResampleAlg = "min"
	ResampleMed         ResampleAlg = "med"
	ResampleQ1          ResampleAlg = "q1"
	ResampleQ3          ResampleAlg = "q3"
)

func (r ResampleAlg) valid() bool {
	switch r {
	case ResampleNear, ResampleBilinear, ResampleCubic, ResampleCubicSpline,
		ResampleLanczos, ResampleAverage, ResampleMode, ResampleMax,
		ResampleMin, ResampleMed, ResampleQ1, ResampleQ3:
		return true
	}
	return false
}

// ReprojectOption configures a Reproject node.
type ReprojectOption func(*reprojectNode)

// WithInterpolation selects the resampling method used during
// reprojection.
func WithInterpolation(m ResampleAlg) ReprojectOption {
	return func(r *reprojectNode) {
		if !m.valid() {
			r.err = fmt.Errorf("wcps: invalid interpolation method %q", string(m))
			return
		}
		r.method = m
	}
}

// WithAxisResolutions resamples the reprojected result to the given
// per-axis resolutions, each a slice-form Axis holding the resolution,
// e.g. Slice("X", 1.5).
func WithAxisResolutions(axes ...Axis) ReprojectOption {
	return func(r *reprojectNode) {
		if len(axes) == 0 {
			r.err = fmt.Errorf("wcps: reproject resolutions need at least one axis")
			return
		}
		for _, a := range axes {
			if a.err != nil {
				r.err = a.err
				return
			}
			if a.hi != nil {
				r.err = fmt.Errorf("wcps: axis %s: a resolution axis must hold a single value, not a range", a.name)
				return
			}
			if a.crs != "" {
				r.err = fmt.Errorf("wcps: axis %s: a resolution axis must not carry a CRS", a.name)
				return
			}
		}
		r.resolutions = axes
	}
}

// WithSubsetAxes crops the reprojected result to the given trims. Every
// axis must carry both bounds and no CRS.
func WithSubsetAxes(axes ...Axis) ReprojectOption {
	return func(r *reprojectNode) {
		if r.subsetDomain != nil {
			r.err = fmt.Errorf("wcps: reproject subset already specified")
			return
		}
		if len(axes) == 0 {
			r.err = fmt.Errorf("wcps: reproject subset needs at least one axis")
			return
		}
		for _, a := range axes {
			if a.err != nil {
				r.err = a.err
				return
			}
			if a.hi == nil {
				r.err = fmt.Errorf("wcps: axis %s: a reproject subset axis needs both lower and upper bounds", a.name)
				return
			}
			if a.crs != "" {
				r.err = fmt.Errorf("wcps: axis %s: a reproject subset axis must not carry a CRS", a.name)
				return
			}
		}
		r.subsetAxes = axes
	}
}

// WithSubsetDomainOf crops the reprojected result to the domain of another
// coverage expression.
func WithSubsetDomainOf(e Expr) ReprojectOption {
	return func(r *reprojectNode) {
		if r.subsetAxes != nil {
			r.err = fmt.Errorf("wcps: reproject subset already specified")
			return
		}
		r.subsetDomain = toNode(e)
	}
}

// Reproject transforms the coverage to the target CRS, rendering as a
// crsTransform call. The CRS may be a full URL, "EPSG/0/4326", or
// "EPSG:4326".
func (e Expr) Reproject(targetCRS string, opts ...ReprojectOption) Expr {
	if targetCRS == "" {
		return errExpr(fmt.Errorf("wcps: reproject target CRS must not be empty"))
	}
	r := &reprojectNode{src: toNode(e), crs: targetCRS}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return errExpr(r.err)
	}
	return Expr{r}
}

type reprojectNode struct {
	src          node
	crs          string
	method       ResampleAlg
	resolutions  []Axis
	subsetAxes   []Axis
	subsetDomain node
	err          error
}

func (r *reprojectNode) render(ctx *renderContext) error {
	ctx.b.WriteString("crsTransform(")
	if err := r.src.render(ctx); err != nil {
		return err
	}
	ctx.b.WriteString(", ")
	ctx.b.WriteString(quote(r.crs))
	if r.method != "" {
		ctx.b.WriteString(", { ")
		ctx.b.WriteString(string(r.method))
		ctx.b.WriteString(" }")
	}
	if r.resolutions != nil {
		ctx.b.WriteString(", { ")
		for i, a := range r.resolutions {
			if i > 0 {
				ctx.b.WriteString(", ")
			}
			ctx.b.WriteString(a.name)
			ctx.b.WriteByte(':')
			if err := a.lo.render(ctx); err != nil {
				return err
			}
		}
		ctx.b.WriteString(" }")
	}
	if r.subsetAxes != nil {
		ctx.b.WriteString(", { ")
		if err := renderList(ctx, axisNodes(r.subsetAxes), ", "); err != nil {
			return err
		}
		ctx.b.WriteString(" }")
	} else if r.subsetDomain != nil {
		ctx.b.WriteString(", { domain(")
		if err := r.subsetDomain.render(ctx); err != nil {
			return err
		}
		ctx.b.WriteString(") }")
	}
	ctx.b.WriteByte(')')
	return nil
}

func (r *reprojectNode) children() []node {
	nodes := []node{r.src}
	nodes = append(nodes, axisNodes(r.resolutions)...)
	nodes = append(nodes, axisNodes(r.subsetAxes)...)
	if r.subsetDomain != nil {
		nodes = append(nodes, r.subsetDomain)
	}
	return nodes
}
