// Package discovery lists and describes the coverages a WCPS server
// offers, backed by the WCS GetCapabilities and DescribeCoverage
// operations. Descriptions are cached in a Store since coverage metadata
// changes rarely but is consulted before most query runs.
package discovery

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rasdaman/wcps-go-client/internal/metrics"
	"github.com/rasdaman/wcps-go-client/internal/ows"
)

// Fetcher is the subset of pkg/client.Client discovery needs.
type Fetcher interface {
	Capabilities(ctx context.Context) ([]byte, error)
	DescribeCoverage(ctx context.Context, coverageID string) ([]byte, error)
}

// AxisInfo is one axis of a coverage's bounded-by envelope.
type AxisInfo struct {
	Name  string `json:"name"`
	UoM   string `json:"uom,omitempty"`
	Lower string `json:"lower"`
	Upper string `json:"upper"`
}

// CoverageDescription is the parsed metadata of one coverage.
type CoverageDescription struct {
	ID   string     `json:"id"`
	SRS  string     `json:"srs,omitempty"`
	Axes []AxisInfo `json:"axes"`
}

// Axis looks up an axis by name, case-insensitively.
func (d CoverageDescription) Axis(name string) (AxisInfo, bool) {
	for _, a := range d.Axes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return AxisInfo{}, false
}

// Service resolves coverage metadata through a Fetcher with a cache in
// front.
type Service struct {
	fetch  Fetcher
	store  Store
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
	m      *metrics.ClientMetrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.ClientMetrics) ServiceOption {
	return func(s *Service) { s.m = m }
}

// NewService builds a discovery service. A nil store disables caching;
// ttl <= 0 caches without expiry.
func NewService(fetch Fetcher, store Store, ttl time.Duration, opts ...ServiceOption) *Service {
	s := &Service{
		fetch: fetch,
		store: store,
		ttl:   ttl,
		log:   zerolog.New(io.Discard),
	}
	// scope shared-store keys to the endpoint when the fetcher exposes one
	if ep, ok := fetch.(interface{ Endpoint() string }); ok {
		s.prefix = ows.Fingerprint(ep.Endpoint()) + ":"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type capabilitiesDoc struct {
	Contents struct {
		Summaries []struct {
			CoverageID string `xml:"CoverageId"`
		} `xml:"CoverageSummary"`
	} `xml:"Contents"`
}

// ListCoverages returns the ids of all coverages the server offers,
// sorted. The capabilities document is fetched fresh on every call.
func (s *Service) ListCoverages(ctx context.Context) ([]string, error) {
	body, err := s.fetch.Capabilities(ctx)
	if err != nil {
		return nil, err
	}
	var doc capabilitiesDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("discovery: parse capabilities: %w", err)
	}
	ids := make([]string, 0, len(doc.Contents.Summaries))
	for _, sum := range doc.Contents.Summaries {
		if id := strings.TrimSpace(sum.CoverageID); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type describeDoc struct {
	Descriptions []struct {
		CoverageID string `xml:"CoverageId"`
		BoundedBy  struct {
			Envelope struct {
				SRSName     string `xml:"srsName,attr"`
				AxisLabels  string `xml:"axisLabels,attr"`
				UomLabels   string `xml:"uomLabels,attr"`
				LowerCorner string `xml:"lowerCorner"`
				UpperCorner string `xml:"upperCorner"`
			} `xml:"Envelope"`
		} `xml:"boundedBy"`
	} `xml:"CoverageDescription"`
}

// Describe returns the parsed description of one coverage, from cache
// when possible.
func (s *Service) Describe(ctx context.Context, coverageID string) (CoverageDescription, error) {
	if coverageID == "" {
		return CoverageDescription{}, fmt.Errorf("discovery: coverage id must not be empty")
	}
	key := "wcps:describe:" + s.prefix + coverageID

	if s.store != nil {
		if cached, ok, err := s.store.Get(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("coverage", coverageID).Msg("describe cache read failed")
		} else if ok {
			var desc CoverageDescription
			if err := json.Unmarshal(cached, &desc); err == nil {
				s.cacheEvent("hit")
				return desc, nil
			}
			s.log.Warn().Str("coverage", coverageID).Msg("describe cache entry corrupt, refetching")
		}
		s.cacheEvent("miss")
	}

	body, err := s.fetch.DescribeCoverage(ctx, coverageID)
	if err != nil {
		return CoverageDescription{}, err
	}
	desc, err := parseDescription(body, coverageID)
	if err != nil {
		return CoverageDescription{}, err
	}

	if s.store != nil {
		if enc, err := json.Marshal(desc); err == nil {
			if err := s.store.Set(ctx, key, enc, s.ttl); err != nil {
				s.log.Warn().Err(err).Str("coverage", coverageID).Msg("describe cache write failed")
			}
		}
	}
	return desc, nil
}

func (s *Service) cacheEvent(event string) {
	if s.m != nil {
		s.m.CacheHits.WithLabelValues(event).Inc()
	}
}

func parseDescription(body []byte, coverageID string) (CoverageDescription, error) {
	var doc describeDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return CoverageDescription{}, fmt.Errorf("discovery: parse description of %s: %w", coverageID, err)
	}
	if len(doc.Descriptions) == 0 {
		return CoverageDescription{}, fmt.Errorf("discovery: no description for %s in response", coverageID)
	}

	d := doc.Descriptions[0]
	env := d.BoundedBy.Envelope
	desc := CoverageDescription{ID: strings.TrimSpace(d.CoverageID), SRS: env.SRSName}
	if desc.ID == "" {
		desc.ID = coverageID
	}

	labels := strings.Fields(env.AxisLabels)
	uoms := strings.Fields(env.UomLabels)
	lowers := strings.Fields(env.LowerCorner)
	uppers := strings.Fields(env.UpperCorner)
	for i, label := range labels {
		axis := AxisInfo{Name: label}
		if i < len(uoms) {
			axis.UoM = uoms[i]
		}
		if i < len(lowers) {
			axis.Lower = strings.Trim(lowers[i], `"`)
		}
		if i < len(uppers) {
			axis.Upper = strings.Trim(uppers[i], `"`)
		}
		desc.Axes = append(desc.Axes, axis)
	}
	return desc, nil
}
