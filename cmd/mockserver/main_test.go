package main

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rasdaman/wcps-go-client/pkg/client"
	"github.com/rasdaman/wcps-go-client/pkg/discovery"
	"github.com/rasdaman/wcps-go-client/pkg/wcps"
)

func newMock(t *testing.T) *client.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/rasdaman/ows", handleOWS(zerolog.New(io.Discard)))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/rasdaman/ows")
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return c
}

func TestMock_DiscoveryRoundTrip(t *testing.T) {
	c := newMock(t)
	svc := discovery.NewService(c, discovery.NewLRUStore(8), 0)
	ctx := context.Background()

	ids, err := svc.ListCoverages(ctx)
	if err != nil {
		t.Fatalf("ListCoverages: %v", err)
	}
	if len(ids) != len(registry) {
		t.Fatalf("ids: %v", ids)
	}

	desc, err := svc.Describe(ctx, "AvgLandTemp")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(desc.Axes) != 3 {
		t.Fatalf("axes: %+v", desc.Axes)
	}
	ansi, ok := desc.Axis("ansi")
	if !ok || ansi.Lower != "2000-02-01" {
		t.Fatalf("ansi axis: %+v ok=%v", ansi, ok)
	}
}

func TestMock_ProcessCoverages(t *testing.T) {
	c := newMock(t)
	ctx := context.Background()

	res, err := c.ExecuteExpr(ctx, wcps.Datacube("AvgLandTemp").Avg())
	if err != nil {
		t.Fatalf("scalar query: %v", err)
	}
	if res.Kind != client.KindFloat || res.Float != 25.1 {
		t.Fatalf("scalar result: %+v", res)
	}

	res, err = c.ExecuteExpr(ctx, wcps.Datacube("mean_summer_airtemp").Encode("PNG"))
	if err != nil {
		t.Fatalf("encode query: %v", err)
	}
	if res.Kind != client.KindBytes || len(res.Raw) == 0 {
		t.Fatalf("encode result: %+v", res)
	}
}

func TestMock_Exceptions(t *testing.T) {
	c := newMock(t)
	ctx := context.Background()

	_, err := c.Execute(ctx, "for $c in (nope)\nreturn\n  avg($c)")
	var serr *client.ServerError
	if !errors.As(err, &serr) || serr.Code != "NoSuchCoverage" {
		t.Fatalf("want NoSuchCoverage, got %v", err)
	}

	_, err = c.Execute(ctx, "")
	if !errors.As(err, &serr) || serr.Code != "MissingParameterValue" {
		t.Fatalf("want MissingParameterValue, got %v", err)
	}

	_, err = c.DescribeCoverage(ctx, "nope")
	if !errors.As(err, &serr) || serr.Status != 404 {
		t.Fatalf("want 404, got %v", err)
	}
}
