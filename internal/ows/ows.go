// Package ows holds the OGC Web Services protocol plumbing shared by the
// WCPS client and the discovery helpers: request parameter builders, the
// ows:ExceptionReport error format, and query fingerprinting.
package ows

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	Service = "WCS"
	Version = "2.0.1"
)

// Endpoint normalizes a configured service URL.
func Endpoint(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// BuildProcessCoverages builds the GET parameters of a ProcessCoverages
// request carrying one WCPS query.
func BuildProcessCoverages(query string) url.Values {
	params := url.Values{}
	params.Set("service", Service)
	params.Set("version", Version)
	params.Set("request", "ProcessCoverages")
	params.Set("query", query)
	return params
}

// BuildGetCapabilities builds the GET parameters of a GetCapabilities
// request.
func BuildGetCapabilities() url.Values {
	params := url.Values{}
	params.Set("service", Service)
	params.Set("version", Version)
	params.Set("request", "GetCapabilities")
	return params
}

// BuildDescribeCoverage builds the GET parameters of a DescribeCoverage
// request for one coverage id.
func BuildDescribeCoverage(coverageID string) url.Values {
	params := url.Values{}
	params.Set("service", Service)
	params.Set("version", Version)
	params.Set("request", "DescribeCoverage")
	params.Set("coverageId", coverageID)
	return params
}

// Fingerprint hashes a query to a short stable id used in logs, metrics
// exemplars and cache keys.
func Fingerprint(query string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(query))
}

// exceptionReport mirrors the ows:ExceptionReport document (namespace
// http://www.opengis.net/ows/2.0) servers return on failed requests.
type exceptionReport struct {
	XMLName    xml.Name `xml:"ExceptionReport"`
	Exceptions []struct {
		Code  string   `xml:"exceptionCode,attr"`
		Texts []string `xml:"ExceptionText"`
	} `xml:"Exception"`
}

// Exception is one parsed server-side failure.
type Exception struct {
	Code string
	Text string
}

// ParseExceptionReport extracts the first exception from an
// ows:ExceptionReport body. ok is false when the body is not an exception
// report at all.
func ParseExceptionReport(body []byte) (Exception, bool) {
	var report exceptionReport
	if err := xml.Unmarshal(body, &report); err != nil {
		return Exception{}, false
	}
	if len(report.Exceptions) == 0 {
		return Exception{}, false
	}
	first := report.Exceptions[0]
	return Exception{
		Code: first.Code,
		Text: strings.TrimSpace(strings.Join(first.Texts, "\n")),
	}, true
}
