package wcps

import "testing"

func TestCondense_GridAxisDomain(t *testing.T) {
	cov1 := Datacube("cov1")
	it := Iter("pt", "time").OfGridAxis(cov1)
	expr := NewCondense(CondensePlus).Over(it).Using(cov1.Add(it.Ref()))

	assertBody(t, expr,
		"(condense + over $pt time(imageCrsDomain($cov1, time)) using ($cov1 + $pt))")
}

func TestCondense_IntervalDomain(t *testing.T) {
	cov1 := Datacube("cov1")
	it := Iter("x", "X").Interval(0, 100)
	expr := NewCondense(CondenseMax).Over(it).Using(cov1.Subset(Slice("X", it.Ref())))

	assertBody(t, expr,
		"(condense max over $x X(0 : 100) using $cov1[X($x)])")
}

func TestCondense_MultipleIterators(t *testing.T) {
	cov1 := Datacube("cov1")
	ix := Iter("x", "X").Interval(0, 10)
	iy := Iter("y", "Y").Interval(0, 20)
	expr := NewCondense(CondensePlus).Over(ix, iy).
		Using(cov1.Subset(Slice("X", ix.Ref()), Slice("Y", iy.Ref())))

	assertBody(t, expr,
		"(condense + over $x X(0 : 10), $y Y(0 : 20) using $cov1[X($x), Y($y)])")
}

func TestCondense_WhereClause(t *testing.T) {
	cov := Datacube("S2_L2A")
	it := Iter("pt", "time").OfGridAxis(cov)
	slice := cov.Subset(Slice("time", it.Ref()))
	expr := NewCondense(CondenseMax).
		Over(it).
		Where(slice.Avg().Gt(20)).
		Using(slice)

	assertBody(t, expr,
		"(condense max over $pt time(imageCrsDomain($S2_L2A, time))"+
			" where (avg($S2_L2A[time($pt)]) > 20)"+
			" using $S2_L2A[time($pt)])")
}

func TestCoverage_Values(t *testing.T) {
	cov1 := Datacube("cov1")
	pLat := Iter("pLat", "Lat").OfGeoAxis(cov1.Subset(Trim("Lat", -30, -28.5)))
	pLon := Iter("pLon", "Lon").OfGeoAxis(cov1.Subset(Trim("Lon", 111.975, 113.475)))
	expr := NewCoverage("targetCoverage").
		Over(pLat, pLon).
		Values(cov1.Subset(Slice("Lat", pLat.Ref()), Slice("Lon", pLon.Ref())))

	assertBody(t, expr,
		"(coverage targetCoverage over"+
			" $pLat Lat(domain($cov1[Lat(-30:-28.5)], Lat)),"+
			" $pLon Lon(domain($cov1[Lon(111.975:113.475)], Lon))"+
			" values $cov1[Lat($pLat), Lon($pLon)])")
}

func TestCoverage_ValueList(t *testing.T) {
	cov1 := Datacube("cov1")
	it := Iter("n", "i").Interval(0, 1)
	expr := NewCoverage("histogram").Over(it).ValueList(cov1.Count(), 0)

	assertBody(t, expr,
		"(coverage histogram over $n i(0 : 1) value list < count($cov1); 0 >)")
}

func TestCoverage_NestedCondense(t *testing.T) {
	cov := Datacube("S2_L2A")
	bucket := Iter("b", "i").Interval(0, 255)
	px := Iter("pt", "time").OfGridAxis(cov)
	inner := NewCondense(CondensePlus).
		Over(px).
		Where(cov.Subset(Slice("time", px.Ref())).Eq(bucket.Ref())).
		Using(Scalar(1))
	expr := NewCoverage("histogram").Over(bucket).Values(inner)

	assertBody(t, expr,
		"(coverage histogram over $b i(0 : 255) values"+
			" (condense + over $pt time(imageCrsDomain($S2_L2A, time))"+
			" where ($S2_L2A[time($pt)] = $b)"+
			" using 1))")
}

func TestSwitch_SingleCase(t *testing.T) {
	cov1 := Datacube("cov1")
	cov2 := Datacube("cov2")
	expr := NewSwitch().Case(cov1.Gt(5), cov2).Default(cov1)

	assertBody(t, expr,
		"(switch case ($cov1 > 5) return $cov2 default return $cov1)")
}

func TestSwitch_CaseOrderPreserved(t *testing.T) {
	cov := Datacube("dem")
	expr := NewSwitch().
		Case(cov.Lt(0), Scalar(0)).
		Case(cov.Lt(100), Scalar(1)).
		Default(Scalar(2))

	assertBody(t, expr,
		"(switch case ($dem < 0) return 0 case ($dem < 100) return 1 default return 2)")
}
