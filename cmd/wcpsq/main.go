// Command wcpsq runs WCPS queries against a server from the shell: list
// and describe coverages, execute ad hoc queries, or build spectral index
// queries from flags. Connection settings come from the environment, see
// internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rasdaman/wcps-go-client/internal/config"
	"github.com/rasdaman/wcps-go-client/internal/httpclient"
	"github.com/rasdaman/wcps-go-client/internal/logger"
	"github.com/rasdaman/wcps-go-client/internal/metrics"
	"github.com/rasdaman/wcps-go-client/pkg/client"
	"github.com/rasdaman/wcps-go-client/pkg/discovery"
	"github.com/rasdaman/wcps-go-client/pkg/wcps"
	"github.com/rasdaman/wcps-go-client/pkg/wcps/spectral"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		list     = flag.Bool("list", false, "list coverage ids and exit")
		describe = flag.String("describe", "", "describe one coverage and exit")
		query    = flag.String("query", "", "WCPS query text to execute")
		file     = flag.String("file", "", "read the query from this file ('-' for stdin)")
		index    = flag.String("index", "", "build a spectral index query (see -index-list)")
		idxList  = flag.Bool("index-list", false, "list supported spectral indexes and exit")
		coverage = flag.String("coverage", "", "coverage id for -index")
		preset   = flag.String("bands", "sentinel2", "band preset for -index: sentinel2 or landsat8")
		format   = flag.String("format", "", "wrap the query in encode(..., format), e.g. PNG")
		out      = flag.String("out", "", "write the raw response to this file")
		dryRun   = flag.Bool("dry-run", false, "print the query instead of executing it")
	)
	flag.Parse()

	cfg := config.FromEnv()
	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "wcpsq",
	}, os.Stderr)

	if *idxList {
		fmt.Println(strings.Join(spectral.Names(), "\n"))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cm *metrics.ClientMetrics
	if cfg.MetricsAddr != "" {
		provider := metrics.Init(metrics.Config{Build: metrics.BuildInfo{Version: Version}})
		cm = metrics.NewClientMetrics(provider.Registerer())
		go serveMetrics(cfg.MetricsAddr, provider)
	}

	opts := []client.Option{
		client.WithHTTPClient(httpclient.NewOutbound(cfg.ConnTimeout, cfg.ReadTimeout)),
		client.WithLogger(zl),
	}
	if cfg.Username != "" {
		opts = append(opts, client.WithBasicAuth(cfg.Username, cfg.Password))
	}
	if cm != nil {
		opts = append(opts, client.WithMetrics(cm))
	}
	c, err := client.New(cfg.Endpoint, opts...)
	if err != nil {
		zl.Error().Err(err).Msg("client setup failed")
		return 1
	}

	if *list || *describe != "" {
		return runDiscovery(ctx, c, cfg, cm, *describe)
	}

	text, err := resolveQuery(*query, *file, *index, *coverage, *preset, *format)
	if err != nil {
		zl.Error().Err(err).Msg("no runnable query")
		flag.Usage()
		return 2
	}
	if *dryRun {
		fmt.Println(text)
		return 0
	}

	if *out != "" {
		if err := c.Download(ctx, text, *out); err != nil {
			zl.Error().Err(err).Str("path", *out).Msg("download failed")
			return 1
		}
		zl.Info().Str("path", *out).Msg("saved")
		return 0
	}

	res, err := c.Execute(ctx, text)
	if err != nil {
		zl.Error().Err(err).Msg("query failed")
		return 1
	}
	printResult(res)
	return 0
}

// resolveQuery picks the query source: explicit text, a file, or a
// spectral index built from flags.
func resolveQuery(query, file, index, coverage, preset, format string) (string, error) {
	set := 0
	for _, s := range []string{query, file, index} {
		if s != "" {
			set++
		}
	}
	if set == 0 {
		return "", errors.New("one of -query, -file or -index is required")
	}
	if set > 1 {
		return "", errors.New("-query, -file and -index are mutually exclusive")
	}

	switch {
	case query != "":
		return query, nil
	case file != "":
		var (
			raw []byte
			err error
		)
		if file == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return "", errors.New("query source is empty")
		}
		return text, nil
	default:
		return buildIndexQuery(index, coverage, preset, format)
	}
}

func buildIndexQuery(index, coverage, preset, format string) (string, error) {
	if coverage == "" {
		return "", errors.New("-index requires -coverage")
	}
	var bands spectral.Bands
	switch strings.ToLower(preset) {
	case "sentinel2":
		bands = spectral.Sentinel2
	case "landsat8":
		bands = spectral.Landsat8
	default:
		return "", fmt.Errorf("unknown band preset %q", preset)
	}
	expr, err := spectral.Build(strings.ToUpper(index), wcps.Datacube(coverage), bands)
	if err != nil {
		return "", err
	}
	if format != "" {
		expr = expr.Encode(format)
	}
	return expr.Render()
}

func runDiscovery(ctx context.Context, c *client.Client, cfg config.Config, cm *metrics.ClientMetrics, describeID string) int {
	var store discovery.Store
	if cfg.RedisAddr != "" {
		rs, err := discovery.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer rs.Close()
		store = rs
	} else {
		store = discovery.NewLRUStore(cfg.DescribeCacheSize)
	}

	var svcOpts []discovery.ServiceOption
	if cm != nil {
		svcOpts = append(svcOpts, discovery.WithMetrics(cm))
	}
	svc := discovery.NewService(c, store, cfg.DescribeCacheTTL, svcOpts...)

	if describeID != "" {
		desc, err := svc.Describe(ctx, describeID)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s", desc.ID)
		if desc.SRS != "" {
			fmt.Printf(" (%s)", desc.SRS)
		}
		fmt.Println()
		for _, a := range desc.Axes {
			fmt.Printf("  %-12s %s : %s", a.Name, a.Lower, a.Upper)
			if a.UoM != "" {
				fmt.Printf(" [%s]", a.UoM)
			}
			fmt.Println()
		}
		return 0
	}

	ids, err := svc.ListCoverages(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return 0
}

func printResult(res client.Result) {
	switch res.Kind {
	case client.KindBool:
		fmt.Println(res.Bool)
	case client.KindInt:
		fmt.Println(res.Int)
	case client.KindFloat:
		fmt.Println(res.Float)
	case client.KindString:
		fmt.Println(res.Str)
	case client.KindFloats:
		parts := make([]string, len(res.Floats))
		for i, f := range res.Floats {
			parts[i] = fmt.Sprint(f)
		}
		fmt.Println("{" + strings.Join(parts, ", ") + "}")
	case client.KindJSON:
		os.Stdout.Write(res.Raw)
		fmt.Println()
	default:
		fmt.Fprintf(os.Stderr, "binary response (%s, %d bytes); use -out to save it\n",
			res.ContentType, len(res.Raw))
	}
}

func serveMetrics(addr string, p *metrics.Provider) {
	r := chi.NewRouter()
	r.Get("/metrics", p.Handler().ServeHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	_ = srv.ListenAndServe()
}
