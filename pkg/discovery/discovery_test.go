package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rasdaman/wcps-go-client/internal/metrics"
)

const capabilitiesXML = `<?xml version="1.0" encoding="UTF-8"?>
<wcs:Capabilities xmlns:wcs="http://www.opengis.net/wcs/2.0" version="2.0.1">
  <wcs:Contents>
    <wcs:CoverageSummary>
      <wcs:CoverageId>mean_summer_airtemp</wcs:CoverageId>
      <wcs:CoverageSubtype>RectifiedGridCoverage</wcs:CoverageSubtype>
    </wcs:CoverageSummary>
    <wcs:CoverageSummary>
      <wcs:CoverageId>AvgLandTemp</wcs:CoverageId>
    </wcs:CoverageSummary>
  </wcs:Contents>
</wcs:Capabilities>`

const describeXML = `<?xml version="1.0" encoding="UTF-8"?>
<wcs:CoverageDescriptions xmlns:wcs="http://www.opengis.net/wcs/2.0"
    xmlns:gml="http://www.opengis.net/gml/3.2">
  <wcs:CoverageDescription gml:id="AvgLandTemp">
    <gml:boundedBy>
      <gml:Envelope srsName="OGC:AnsiDate EPSG:4326" axisLabels="ansi Lat Long"
          uomLabels="d deg deg" srsDimension="3">
        <gml:lowerCorner>"2000-02-01" -90 -180</gml:lowerCorner>
        <gml:upperCorner>"2015-07-01" 90 180</gml:upperCorner>
      </gml:Envelope>
    </gml:boundedBy>
    <wcs:CoverageId>AvgLandTemp</wcs:CoverageId>
  </wcs:CoverageDescription>
</wcs:CoverageDescriptions>`

type fakeFetcher struct {
	capabilities []byte
	describe     []byte
	describes    int
}

func (f *fakeFetcher) Capabilities(context.Context) ([]byte, error) {
	return f.capabilities, nil
}

func (f *fakeFetcher) DescribeCoverage(_ context.Context, id string) ([]byte, error) {
	f.describes++
	if f.describe == nil {
		return nil, fmt.Errorf("no such coverage %s", id)
	}
	return f.describe, nil
}

func TestListCoverages(t *testing.T) {
	svc := NewService(&fakeFetcher{capabilities: []byte(capabilitiesXML)}, nil, 0)
	ids, err := svc.ListCoverages(context.Background())
	if err != nil {
		t.Fatalf("ListCoverages: %v", err)
	}
	if len(ids) != 2 || ids[0] != "AvgLandTemp" || ids[1] != "mean_summer_airtemp" {
		t.Fatalf("ids: %v", ids)
	}
}

func TestDescribe_ParsesEnvelope(t *testing.T) {
	svc := NewService(&fakeFetcher{describe: []byte(describeXML)}, nil, 0)
	desc, err := svc.Describe(context.Background(), "AvgLandTemp")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.ID != "AvgLandTemp" {
		t.Fatalf("id: %s", desc.ID)
	}
	if len(desc.Axes) != 3 {
		t.Fatalf("axes: %+v", desc.Axes)
	}

	ansi, ok := desc.Axis("ansi")
	if !ok {
		t.Fatal("ansi axis missing")
	}
	if ansi.Lower != "2000-02-01" || ansi.Upper != "2015-07-01" {
		t.Fatalf("ansi bounds: %+v", ansi)
	}
	if ansi.UoM != "d" {
		t.Fatalf("ansi uom: %s", ansi.UoM)
	}

	lat, ok := desc.Axis("lat") // case-insensitive lookup
	if !ok {
		t.Fatal("Lat axis missing")
	}
	if lat.Lower != "-90" || lat.Upper != "90" {
		t.Fatalf("lat bounds: %+v", lat)
	}

	if _, ok := desc.Axis("elevation"); ok {
		t.Fatal("unexpected axis found")
	}
}

func TestDescribe_UsesCache(t *testing.T) {
	f := &fakeFetcher{describe: []byte(describeXML)}
	svc := NewService(f, NewLRUStore(8), time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := svc.Describe(context.Background(), "AvgLandTemp"); err != nil {
			t.Fatalf("Describe %d: %v", i, err)
		}
	}
	if f.describes != 1 {
		t.Fatalf("expected 1 upstream describe, got %d", f.describes)
	}
}

func TestDescribe_CacheEventCounts(t *testing.T) {
	m := metrics.NewClientMetrics(prometheus.NewRegistry())
	f := &fakeFetcher{describe: []byte(describeXML)}
	svc := NewService(f, NewLRUStore(8), time.Minute, WithMetrics(m))

	for i := 0; i < 3; i++ {
		if _, err := svc.Describe(context.Background(), "AvgLandTemp"); err != nil {
			t.Fatalf("Describe %d: %v", i, err)
		}
	}
	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("miss")); got != 1 {
		t.Fatalf("misses: %v", got)
	}
	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("hit")); got != 2 {
		t.Fatalf("hits: %v", got)
	}
}

func TestDescribe_NoStoreNoCacheEvents(t *testing.T) {
	m := metrics.NewClientMetrics(prometheus.NewRegistry())
	svc := NewService(&fakeFetcher{describe: []byte(describeXML)}, nil, 0, WithMetrics(m))

	if _, err := svc.Describe(context.Background(), "AvgLandTemp"); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("miss")); got != 0 {
		t.Fatalf("miss recorded without a cache: %v", got)
	}
}

func TestDescribe_EmptyID(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, 0)
	if _, err := svc.Describe(context.Background(), ""); err == nil {
		t.Fatal("expected an error for an empty id")
	}
}

func TestDescribe_FetchErrorNotCached(t *testing.T) {
	f := &fakeFetcher{}
	svc := NewService(f, NewLRUStore(8), time.Minute)

	if _, err := svc.Describe(context.Background(), "nope"); err == nil {
		t.Fatal("expected fetch error")
	}
	if _, err := svc.Describe(context.Background(), "nope"); err == nil {
		t.Fatal("expected fetch error on retry")
	}
	if f.describes != 2 {
		t.Fatalf("failures must not be cached, got %d fetches", f.describes)
	}
}

func TestLRUStore_Expiry(t *testing.T) {
	s := NewLRUStore(8)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expired entry served")
	}

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(val) != "v" {
		t.Fatalf("ttl=0 entry should not expire: %q %v %v", val, ok, err)
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(val) != "v" {
		t.Fatalf("get: %q %v %v", val, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("entry survived its TTL")
	}
}

func TestRedisStore_BadAddr(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), ""); err == nil {
		t.Fatal("expected an error for an empty address")
	}
	if _, err := NewRedisStore(context.Background(), "127.0.0.1:1"); err == nil {
		t.Fatal("expected a ping failure")
	}
}

type endpointFetcher struct {
	fakeFetcher
	endpoint string
}

func (f *endpointFetcher) Endpoint() string { return f.endpoint }

func TestDescribe_EndpointScopedKeys(t *testing.T) {
	ctx := context.Background()
	store := NewLRUStore(8)

	a := &endpointFetcher{fakeFetcher{describe: []byte(describeXML)}, "http://a.example/ows"}
	b := &endpointFetcher{fakeFetcher{describe: []byte(describeXML)}, "http://b.example/ows"}

	if _, err := NewService(a, store, time.Minute).Describe(ctx, "AvgLandTemp"); err != nil {
		t.Fatalf("describe a: %v", err)
	}
	// different endpoint, same coverage id: must not reuse a's entry
	if _, err := NewService(b, store, time.Minute).Describe(ctx, "AvgLandTemp"); err != nil {
		t.Fatalf("describe b: %v", err)
	}
	if a.describes != 1 || b.describes != 1 {
		t.Fatalf("fetch counts: a=%d b=%d", a.describes, b.describes)
	}

	// same endpoint shares the entry
	a2 := &endpointFetcher{fakeFetcher{describe: []byte(describeXML)}, "http://a.example/ows"}
	if _, err := NewService(a2, store, time.Minute).Describe(ctx, "AvgLandTemp"); err != nil {
		t.Fatalf("describe a2: %v", err)
	}
	if a2.describes != 0 {
		t.Fatalf("expected cache hit for same endpoint, got %d fetches", a2.describes)
	}
}

func TestDescribe_SharedRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	first := &fakeFetcher{describe: []byte(describeXML)}
	if _, err := NewService(first, store, time.Minute).Describe(ctx, "AvgLandTemp"); err != nil {
		t.Fatalf("first describe: %v", err)
	}

	// a second service sharing the store never hits upstream
	second := &fakeFetcher{describe: []byte(describeXML)}
	desc, err := NewService(second, store, time.Minute).Describe(ctx, "AvgLandTemp")
	if err != nil {
		t.Fatalf("second describe: %v", err)
	}
	if second.describes != 0 {
		t.Fatalf("expected cache hit, upstream called %d times", second.describes)
	}
	if len(desc.Axes) != 3 {
		t.Fatalf("cached description lost axes: %+v", desc)
	}
}
