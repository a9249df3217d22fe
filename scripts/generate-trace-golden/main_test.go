package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-oasgen/pkg/testsupport"
)

func TestRunWritesTrace(t *testing.T) {
	out := filepath.Join(t.TempDir(), "store.trace.golden")
	source := filepath.Join("..", "..", "pkg", "orchestrator", "testdata", "store.yaml")

	var warnings bytes.Buffer
	if err := run(context.Background(), source, out, &warnings); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := testsupport.MustReadGoldenString(t, filepath.Join("..", "..", "pkg", "orchestrator", "testdata", "store.trace.golden"))
	got := testsupport.MustReadGoldenString(t, out)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
	assertOnlyFile(t, filepath.Dir(out), "store.trace.golden")
}

func TestRunLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "store.trace.golden")

	if err := run(context.Background(), filepath.Join(dir, "missing.yaml"), out, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
	assertOnlyFile(t, dir)
}

func assertOnlyFile(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	got := make([]string, 0, len(entries))
	for _, entry := range entries {
		got = append(got, entry.Name())
	}
	if names == nil {
		names = []string{}
	}
	if diff := testsupport.CompareGolden(names, got); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
}
