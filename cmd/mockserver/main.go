// Command mockserver is a small in-memory WCPS endpoint for local
// development and demos: it answers GetCapabilities and DescribeCoverage
// from a built-in coverage registry and gives canned ProcessCoverages
// responses, so client-side code can be exercised without a rasdaman
// deployment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rasdaman/wcps-go-client/internal/config"
	"github.com/rasdaman/wcps-go-client/internal/logger"
	"github.com/rasdaman/wcps-go-client/internal/metrics"
)

var Version = "dev"

type coverage struct {
	ID     string
	SRS    string
	Axes   string // axisLabels
	UoMs   string
	Lower  string
	Upper  string
	Scalar string // canned ProcessCoverages answer
}

var registry = []coverage{
	{
		ID:   "AvgLandTemp",
		SRS:  "OGC:AnsiDate EPSG:4326",
		Axes: "ansi Lat Long", UoMs: "d deg deg",
		Lower: `"2000-02-01" -90 -180`, Upper: `"2015-07-01" 90 180`,
		Scalar: "25.1",
	},
	{
		ID:   "mean_summer_airtemp",
		SRS:  "EPSG:4326",
		Axes: "Lat Long", UoMs: "deg deg",
		Lower: "-44.525 111.975", Upper: "-8.975 156.275",
		Scalar: "17",
	},
}

// minimal valid PNG, served for encode() queries
var pngStub = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":8081", "listen address")
	flag.Parse()

	cfg := config.FromEnv()
	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "mockserver",
	}, os.Stdout)

	provider := metrics.Init(metrics.Config{Build: metrics.BuildInfo{Version: Version}})

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", provider.Handler().ServeHTTP)
	r.Get("/rasdaman/ows", handleOWS(zl))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info().Str("addr", *addr).Str("version", Version).Msg("mock wcps listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return 0
	case err := <-errCh:
		zl.Error().Err(err).Msg("server failed")
		return 1
	}
}

func handleOWS(zl zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		request := q.Get("request")
		zl.Debug().Str("request", request).Msg("ows request")

		switch request {
		case "GetCapabilities":
			writeCapabilities(w)
		case "DescribeCoverage":
			writeDescription(w, q.Get("coverageId"))
		case "ProcessCoverages":
			processCoverages(w, q.Get("query"))
		default:
			writeException(w, http.StatusBadRequest, "OperationNotSupported",
				fmt.Sprintf("request %q is not supported", request))
		}
	}
}

func writeCapabilities(w http.ResponseWriter) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<wcs:Capabilities xmlns:wcs="http://www.opengis.net/wcs/2.0" version="2.0.1">` + "\n")
	b.WriteString("  <wcs:Contents>\n")
	for _, c := range registry {
		fmt.Fprintf(&b, "    <wcs:CoverageSummary><wcs:CoverageId>%s</wcs:CoverageId></wcs:CoverageSummary>\n", c.ID)
	}
	b.WriteString("  </wcs:Contents>\n</wcs:Capabilities>\n")
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(b.String()))
}

func writeDescription(w http.ResponseWriter, id string) {
	for _, c := range registry {
		if c.ID != id {
			continue
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<wcs:CoverageDescriptions xmlns:wcs="http://www.opengis.net/wcs/2.0" xmlns:gml="http://www.opengis.net/gml/3.2">
  <wcs:CoverageDescription gml:id="%s">
    <gml:boundedBy>
      <gml:Envelope srsName="%s" axisLabels="%s" uomLabels="%s" srsDimension="%d">
        <gml:lowerCorner>%s</gml:lowerCorner>
        <gml:upperCorner>%s</gml:upperCorner>
      </gml:Envelope>
    </gml:boundedBy>
    <wcs:CoverageId>%s</wcs:CoverageId>
  </wcs:CoverageDescription>
</wcs:CoverageDescriptions>
`, c.ID, c.SRS, c.Axes, c.UoMs, len(strings.Fields(c.Axes)), c.Lower, c.Upper, c.ID)
		return
	}
	writeException(w, http.StatusNotFound, "NoSuchCoverage",
		fmt.Sprintf("Coverage '%s' does not exist", id))
}

func processCoverages(w http.ResponseWriter, query string) {
	if strings.TrimSpace(query) == "" {
		writeException(w, http.StatusBadRequest, "MissingParameterValue",
			"the query parameter is required")
		return
	}

	var matched *coverage
	for i := range registry {
		if strings.Contains(query, "("+registry[i].ID+")") {
			matched = &registry[i]
			break
		}
	}
	if matched == nil {
		writeException(w, http.StatusNotFound, "NoSuchCoverage",
			"the query references no known coverage")
		return
	}

	if strings.Contains(query, "encode(") {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngStub)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(matched.Scalar))
}

func writeException(w http.ResponseWriter, status int, code, text string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<ows:ExceptionReport xmlns:ows="http://www.opengis.net/ows/2.0" version="2.0.1">
  <ows:Exception exceptionCode="%s">
    <ows:ExceptionText>%s</ows:ExceptionText>
  </ows:Exception>
</ows:ExceptionReport>
`, code, text)
}
