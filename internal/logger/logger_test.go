package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestBuild_EmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug", Component: "test"}, &buf)

	zl.Info().Str("k", "v").Msg("hello")

	line := buf.String()
	for _, want := range []string{`"component":"test"`, `"k":"v"`, `"msg":"hello"`, `"timestamp"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %s: %s", want, line)
		}
	}
}

func TestFromContext_AppliesFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug"}, &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithCoverage(ctx, "AvgLandTemp")
	ctx = WithQueryFingerprint(ctx, "deadbeefdeadbeef")

	FromContext(ctx, &zl).Info().Msg("tagged")

	line := buf.String()
	for _, want := range []string{
		`"request_id":"req-1"`,
		`"coverage":"AvgLandTemp"`,
		`"query_fp":"deadbeefdeadbeef"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %s: %s", want, line)
		}
	}
}

func TestFromContext_NilParentDiscards(t *testing.T) {
	log := FromContext(context.Background(), nil)
	log.Info().Msg("dropped") // must not panic
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != 16 || a == b {
		t.Fatalf("ids: %s %s", a, b)
	}
}
