package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveQuery_Sources(t *testing.T) {
	if _, err := resolveQuery("", "", "", "", "", ""); err == nil {
		t.Fatal("expected an error with no source")
	}
	if _, err := resolveQuery("q", "f", "", "", "", ""); err == nil {
		t.Fatal("expected an error for conflicting sources")
	}

	got, err := resolveQuery("for ...", "", "", "", "", "")
	if err != nil || got != "for ..." {
		t.Fatalf("explicit query: %q %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "q.wcps")
	if err := os.WriteFile(path, []byte("  for $c in (x)\nreturn\n  avg($c)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = resolveQuery("", path, "", "", "", "")
	if err != nil {
		t.Fatalf("file query: %v", err)
	}
	if !strings.HasPrefix(got, "for $c") {
		t.Fatalf("file query not trimmed: %q", got)
	}

	empty := filepath.Join(t.TempDir(), "empty.wcps")
	if err := os.WriteFile(empty, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveQuery("", empty, "", "", "", ""); err == nil {
		t.Fatal("expected an error for an empty query file")
	}
}

func TestBuildIndexQuery(t *testing.T) {
	q, err := buildIndexQuery("NDVI", "S2_L2A", "sentinel2", "")
	if err != nil {
		t.Fatalf("buildIndexQuery: %v", err)
	}
	want := "for $S2_L2A in (S2_L2A)\nreturn\n  " +
		"(($S2_L2A.B08 - $S2_L2A.B04) / ($S2_L2A.B08 + $S2_L2A.B04))"
	if q != want {
		t.Fatalf("got:\n%s\nwant:\n%s", q, want)
	}

	q, err = buildIndexQuery("ndvi", "S2_L2A", "landsat8", "PNG")
	if err != nil {
		t.Fatalf("lowercase index: %v", err)
	}
	if !strings.Contains(q, `encode(`) || !strings.Contains(q, `"PNG"`) {
		t.Fatalf("format not applied: %s", q)
	}

	if _, err := buildIndexQuery("NDVI", "", "sentinel2", ""); err == nil {
		t.Fatal("expected an error without a coverage")
	}
	if _, err := buildIndexQuery("NDVI", "c", "modis", ""); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
	if _, err := buildIndexQuery("NOPE", "c", "sentinel2", ""); err == nil {
		t.Fatal("expected an error for an unknown index")
	}
}
