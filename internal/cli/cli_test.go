package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-oasgen/pkg/testsupport"
)

type fakeConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	f.asked = append(f.asked, message)
	return f.answer, f.err
}

func run(t *testing.T, args []string, options ...Option) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr, options...)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func storePath() string {
	return filepath.Join("testdata", "store.yaml")
}

func TestTraceCommand(t *testing.T) {
	stdout, _, err := run(t, []string{"trace", storePath()})
	if err != nil {
		t.Fatalf("trace: %v", err)
	}

	goldenPath := filepath.Join("testdata", "store.trace.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(stdout)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, stdout); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	stdout, _, err := run(t, []string{"render", storePath()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "Title: Store API. Version: 1.0.0\n" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRenderInlineSchemaTemplate(t *testing.T) {
	stdout, _, err := run(t, []string{"render", storePath(), "--schema", "Pet", "--text", "{{ Name|snake }}:{{ Kind }}"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "pet:object\n" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRenderTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.tmpl")
	if err := os.WriteFile(path, []byte("{{ Info.Title|kebab }}\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	stdout, _, err := run(t, []string{"render", storePath(), "--template", path})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "store-api\n" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRenderRejectsHiddenField(t *testing.T) {
	_, _, err := run(t, []string{"render", storePath(), "--text", "{{ Info.Location }}"})
	if err == nil {
		t.Fatalf("expected template error")
	}
	if !strings.Contains(err.Error(), `field "Location" of Info is not exposed`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRootPrintsTraceThenOutput(t *testing.T) {
	stdout, _, err := run(t, []string{storePath()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	trace := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "store.trace.golden"))
	want := trace + "Title: Store API. Version: 1.0.0\n"
	if diff := testsupport.CompareGolden(want, stdout); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRootKeepsTraceOnTemplateError(t *testing.T) {
	stdout, _, err := run(t, []string{storePath(), "--text", "{{ Info.Nope }}"})
	if err == nil {
		t.Fatalf("expected template error")
	}
	trace := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "store.trace.golden"))
	if stdout != trace {
		t.Fatalf("expected trace to be printed before the error, got %q", stdout)
	}
}

func TestRenderOutputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	if _, _, err := run(t, []string{"render", storePath(), "-o", out}); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "Title: Store API. Version: 1.0.0" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestRenderOverwrite(t *testing.T) {
	notInteractive := WithInteractive(func() bool { return false })
	interactive := WithInteractive(func() bool { return true })

	existing := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "out.txt")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatalf("write existing: %v", err)
		}
		return path
	}
	content := func(t *testing.T, path string) string {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		return string(data)
	}

	t.Run("non interactive without yes", func(t *testing.T) {
		path := existing(t)
		_, _, err := run(t, []string{"render", storePath(), "-o", path}, notInteractive)
		if err == nil || !strings.Contains(err.Error(), "--yes") {
			t.Fatalf("expected overwrite error, got %v", err)
		}
		if got := content(t, path); got != "old" {
			t.Fatalf("file should be untouched, got %q", got)
		}
	})

	t.Run("yes flag", func(t *testing.T) {
		path := existing(t)
		confirmer := &fakeConfirmer{}
		if _, _, err := run(t, []string{"render", storePath(), "-o", path, "--yes"}, interactive, WithConfirmer(confirmer)); err != nil {
			t.Fatalf("render: %v", err)
		}
		if len(confirmer.asked) != 0 {
			t.Fatalf("did not expect a prompt, got %v", confirmer.asked)
		}
		if got := content(t, path); got != "Title: Store API. Version: 1.0.0" {
			t.Fatalf("unexpected content %q", got)
		}
	})

	t.Run("prompt accepted", func(t *testing.T) {
		path := existing(t)
		confirmer := &fakeConfirmer{answer: true}
		if _, _, err := run(t, []string{"render", storePath(), "-o", path}, interactive, WithConfirmer(confirmer)); err != nil {
			t.Fatalf("render: %v", err)
		}
		if len(confirmer.asked) != 1 || !strings.Contains(confirmer.asked[0], path) {
			t.Fatalf("unexpected prompts %v", confirmer.asked)
		}
		if got := content(t, path); got != "Title: Store API. Version: 1.0.0" {
			t.Fatalf("unexpected content %q", got)
		}
	})

	t.Run("prompt declined", func(t *testing.T) {
		path := existing(t)
		confirmer := &fakeConfirmer{answer: false}
		_, _, err := run(t, []string{"render", storePath(), "-o", path}, interactive, WithConfirmer(confirmer))
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
		if got := content(t, path); got != "old" {
			t.Fatalf("file should be untouched, got %q", got)
		}
	})
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oasgen.yaml")
	if err := os.WriteFile(path, []byte("text: \"{{ OpenAPI }}\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _, err := run(t, []string{"render", storePath(), "--config", path})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "3.0.3\n" {
		t.Fatalf("unexpected output %q", stdout)
	}

	stdout, _, err = run(t, []string{"render", storePath(), "--config", path, "--text", "{{ Info.Version }}"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "1.0.0\n" {
		t.Fatalf("flag should win over config file, got %q", stdout)
	}
}

func TestLogging(t *testing.T) {
	_, stderr, err := run(t, []string{"trace", storePath()})
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !strings.Contains(stderr, `"message":"pipeline complete"`) || !strings.Contains(stderr, `"elapsed"`) {
		t.Fatalf("expected timed pipeline log by default, got %q", stderr)
	}
	if strings.Contains(stderr, `"message":"document loaded"`) {
		t.Fatalf("debug logs should need --verbose, got %q", stderr)
	}

	_, stderr, err = run(t, []string{"trace", storePath(), "--verbose"})
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !strings.Contains(stderr, `"message":"document loaded"`) {
		t.Fatalf("expected debug log with --verbose, got %q", stderr)
	}
}

func TestMissingSource(t *testing.T) {
	_, _, err := run(t, []string{"trace", filepath.Join("testdata", "missing.yaml")})
	if err == nil {
		t.Fatalf("expected load error")
	}
	if !strings.Contains(err.Error(), "orchestrator: load document") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, []string{"version"})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "oasgen dev\n") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}
