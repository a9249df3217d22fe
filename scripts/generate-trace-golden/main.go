package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	oasgen "github.com/goliatone/go-oasgen"
	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
	"github.com/goliatone/go-oasgen/pkg/schema"
)

func main() {
	var (
		sourcePath = flag.String("source", "pkg/orchestrator/testdata/store.yaml", "OpenAPI document path")
		outputPath = flag.String("output", "pkg/orchestrator/testdata/store.trace.golden", "output path for the trace snapshot")
	)
	flag.Parse()

	if err := run(context.Background(), *sourcePath, *outputPath, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Trace snapshot written to %s\n", *outputPath)
}

// run writes the trace next to output and renames it into place, so a failed
// run never leaves a partial snapshot behind.
func run(ctx context.Context, sourcePath, outputPath string, warnings io.Writer) error {
	doc, diagnostics, err := oasgen.Parse(ctx, pkgopenapi.SourceFromFile(sourcePath))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	for _, diag := range diagnostics {
		fmt.Fprintf(warnings, "warning: %s\n", diag.Message)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	file, err := os.CreateTemp(dir, filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := file.Name()

	if err := schema.Trace(file, doc); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write trace: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
