package wcps

import (
	"errors"
	"strings"
	"testing"
)

func assertRenderErr(t *testing.T, e Expr, wantSubstr string) {
	t.Helper()
	s, err := Render(e)
	if err == nil {
		t.Fatalf("expected render error, got %q", s)
	}
	if !strings.Contains(err.Error(), wantSubstr) {
		t.Fatalf("error %q does not mention %q", err, wantSubstr)
	}
}

func TestRender_ZeroValueExpr(t *testing.T) {
	assertRenderErr(t, Expr{}, "zero-value expression")
}

func TestRender_NoDatacubes(t *testing.T) {
	assertRenderErr(t, Scalar(5).Add(2), "no datacubes")
}

func TestIterRef_OutsideAnyScope(t *testing.T) {
	cov := Datacube("cov1")
	it := Iter("pt", "time").OfGridAxis(cov)

	_, err := Render(cov.Add(it.Ref()))
	if !errors.Is(err, ErrScope) {
		t.Fatalf("want ErrScope, got %v", err)
	}
}

func TestIterRef_EscapesDeclaringScope(t *testing.T) {
	cov := Datacube("cov1")
	it := Iter("pt", "time").OfGridAxis(cov)

	// legal inside the condenser
	inside := NewCondense(CondensePlus).Over(it).Using(it.Ref())
	mustRender(t, inside)

	// the same reference node outside its condenser must fail
	_, err := Render(cov.Subset(Slice("time", it.Ref())))
	if !errors.Is(err, ErrScope) {
		t.Fatalf("want ErrScope, got %v", err)
	}
}

func TestScope_DuplicateNestedIterators(t *testing.T) {
	cov := Datacube("cov1")
	outer := Iter("i", "X").Interval(0, 10)
	inner := Iter("i", "Y").Interval(0, 10)
	expr := NewCondense(CondensePlus).Over(outer).Using(
		NewCondense(CondensePlus).Over(inner).Using(cov))

	assertRenderErr(t, expr, "duplicate iterator variable $i")
}

func TestCondense_DuplicateIteratorsInOver(t *testing.T) {
	cov := Datacube("cov1")
	a := Iter("i", "X").Interval(0, 10)
	b := Iter("i", "Y").Interval(0, 10)
	assertRenderErr(t, NewCondense(CondensePlus).Over(a, b).Using(cov),
		"duplicate iterator variable $i")
}

func TestCondense_MissingOver(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, NewCondense(CondensePlus).Using(cov), "over clause")
}

func TestCondense_InvalidOperator(t *testing.T) {
	cov := Datacube("cov1")
	it := Iter("x", "X").Interval(0, 10)
	assertRenderErr(t, NewCondense("bogus").Over(it).Using(cov),
		"invalid condense operator")
}

func TestIter_MissingDomain(t *testing.T) {
	cov := Datacube("cov1")
	it := Iter("x", "X")
	assertRenderErr(t, NewCondense(CondensePlus).Over(it).Using(cov),
		"has no domain")
}

func TestIter_ConflictingDomains(t *testing.T) {
	cov := Datacube("cov1")
	it := Iter("x", "X").Interval(0, 10).OfGridAxis(cov)
	assertRenderErr(t, NewCondense(CondensePlus).Over(it).Using(cov),
		"cannot combine")
}

func TestCoverage_MissingOver(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, NewCoverage("c").Values(cov), "over clause")
}

func TestCoverage_EmptyValueList(t *testing.T) {
	it := Iter("x", "X").Interval(0, 10)
	assertRenderErr(t, NewCoverage("c").Over(it).ValueList(),
		"value list must not be empty")
}

func TestSwitch_NoCases(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, NewSwitch().Default(cov), "at least one case")
}

func TestEncode_NotRoot(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, cov.Encode("PNG").Add(5), "only valid as the query root")
	assertRenderErr(t, cov.Encode("PNG").Encode("PNG"), "only valid as the query root")
}

func TestEncode_EmptyFormat(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, cov.Encode(""), "format must not be empty")
}

func TestScale_InvalidFactor(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, cov.ScaleByFactor(0), "factor")
	assertRenderErr(t, cov.ScaleByFactor(-1.5), "factor")
}

func TestReproject_EmptyAxisLists(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, cov.Reproject("EPSG:4326", WithAxisResolutions()),
		"resolutions need at least one axis")
	assertRenderErr(t, cov.Reproject("EPSG:4326", WithSubsetAxes()),
		"subset needs at least one axis")
}

func TestDatacube_EmptyName(t *testing.T) {
	assertRenderErr(t, Datacube(""), "name must not be empty")
}

func TestAxis_Invalid(t *testing.T) {
	cov := Datacube("cov1")
	assertRenderErr(t, cov.Subset(Trim("", 0, 10)), "axis name")
	assertRenderErr(t, cov.Subset(), "at least one axis")
}

func TestErrorPropagatesThroughChain(t *testing.T) {
	// an early construction error survives any amount of later chaining
	bad := Datacube("").Add(1).Abs().Subset(Trim("X", 0, 10)).Encode("PNG")
	assertRenderErr(t, bad, "name must not be empty")
}
