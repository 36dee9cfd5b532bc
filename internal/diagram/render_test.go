package diagram

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/wfgraph/internal/status"
)

// fakeEngine records layout requests and writes a fixed payload.
type fakeEngine struct {
	calls   int
	formats []string
	source  []byte
	output  []byte
	err     error
	partial bool // write output before failing
}

func (f *fakeEngine) Layout(ctx context.Context, source []byte, format string, w io.Writer) error {
	f.calls++
	f.formats = append(f.formats, format)
	f.source = source
	if f.err != nil {
		if f.partial {
			w.Write(f.output)
		}
		return f.err
	}
	_, err := w.Write(f.output)
	return err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRender_WritesEngineOutput(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{output: []byte("PNGDATA")}
	r := NewRenderer(Options{Engine: engine, Logger: quietLogger()})

	dest := filepath.Join(dir, "workflow.png")
	result, err := r.Render(context.Background(), sharedDependency(t), nil, dest)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if result.Path != dest || result.Format != "png" {
		t.Errorf("result = %+v, want path %s format png", result, dest)
	}
	if result.SourcePath != "" {
		t.Errorf("SourcePath = %q, want empty without KeepSource", result.SourcePath)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("output = %q, want engine output", data)
	}

	if engine.calls != 1 || engine.formats[0] != "png" {
		t.Errorf("engine calls = %d formats = %v, want one png layout", engine.calls, engine.formats)
	}
	if !bytes.HasPrefix(engine.source, []byte("// Workflow\ndigraph")) {
		t.Errorf("engine got source with unexpected header:\n%s", engine.source)
	}

	if names := listDir(t, dir); len(names) != 1 {
		t.Errorf("directory contains %v, want only workflow.png", names)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{output: []byte("data")}
	r := NewRenderer(Options{Engine: engine, Logger: quietLogger()})

	dest := filepath.Join(dir, "workflow.txt")
	_, err := r.Render(context.Background(), sharedDependency(t), nil, dest)

	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Render() error = %v, want ErrUnsupportedFormat", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times for unsupported format", engine.calls)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("expected no file at %s, stat error = %v", dest, err)
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("directory contains %v, want nothing", names)
	}
}

func TestRender_EngineFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "workflow.svg")

	engine := &fakeEngine{
		output:  []byte("<svg half"),
		err:     &LayoutError{Format: "svg", Err: errors.New("syntax error")},
		partial: true,
	}
	r := NewRenderer(Options{Engine: engine, Logger: quietLogger()})

	_, err := r.Render(context.Background(), sharedDependency(t), nil, dest)

	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("Render() error = %v, want *LayoutError", err)
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("directory contains %v after failed render, want nothing", names)
	}
}

func TestRender_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "workflow.png")
	if err := os.WriteFile(dest, []byte("previous"), 0644); err != nil {
		t.Fatalf("seeding output: %v", err)
	}

	r := NewRenderer(Options{Engine: &fakeEngine{err: errors.New("boom")}, Logger: quietLogger()})
	if _, err := r.Render(context.Background(), sharedDependency(t), nil, dest); err == nil {
		t.Fatal("Render() expected error, got nil")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "previous" {
		t.Errorf("output = %q, want previous contents untouched", data)
	}
}

func TestRender_ReplacesReadOnlyOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "workflow.png")
	if err := os.WriteFile(dest, []byte("previous"), 0444); err != nil {
		t.Fatalf("seeding output: %v", err)
	}

	r := NewRenderer(Options{Engine: &fakeEngine{output: []byte("PNGDATA")}, Logger: quietLogger()})
	if _, err := r.Render(context.Background(), sharedDependency(t), nil, dest); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("output mode = %v, want 0644", perm)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("output = %q, want engine output", data)
	}
	if names := listDir(t, dir); len(names) != 1 {
		t.Errorf("directory contains %v, want only workflow.png", names)
	}
}

func TestRender_SourceFormatSkipsEngine(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{}
	r := NewRenderer(Options{Engine: engine, Logger: quietLogger()})

	dest := filepath.Join(dir, "workflow.gv")
	overlay := status.Overlay{"A": status.Completed, "B": status.Running, "C": status.Failed}
	result, err := r.Render(context.Background(), sharedDependency(t), overlay, dest)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if engine.calls != 0 {
		t.Errorf("engine called %d times for gv output", engine.calls)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(data, result.Spec.Source()) {
		t.Errorf("gv output differs from spec source:\n%s", data)
	}
	if color := parseSource(t, string(data)).attrs["A"]["color"]; color != "green" {
		t.Errorf("gv output node A color = %q, want green:\n%s", color, data)
	}
}

func TestRender_KeepSource(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{
		Engine:     &fakeEngine{output: []byte("PDF")},
		KeepSource: true,
		Logger:     quietLogger(),
	})

	dest := filepath.Join(dir, "nested", "pipeline.pdf")
	result, err := r.Render(context.Background(), sharedDependency(t), nil, dest)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	wantSource := filepath.Join(dir, "nested", "pipeline")
	if result.SourcePath != wantSource {
		t.Errorf("SourcePath = %q, want %q", result.SourcePath, wantSource)
	}

	data, err := os.ReadFile(wantSource)
	if err != nil {
		t.Fatalf("reading kept source: %v", err)
	}
	if !strings.HasPrefix(string(data), "// Workflow\ndigraph") {
		t.Errorf("kept source is not DOT:\n%s", data)
	}
}

func TestRender_Idempotent(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{Engine: &fakeEngine{output: []byte("x")}, Logger: quietLogger()})
	g := sharedDependency(t)
	overlay := status.Overlay{"B": status.Submitted}
	dest := filepath.Join(dir, "workflow.svg")

	first, err := r.Render(context.Background(), g, overlay, dest)
	if err != nil {
		t.Fatalf("first Render() unexpected error: %v", err)
	}
	second, err := r.Render(context.Background(), g, overlay, dest)
	if err != nil {
		t.Fatalf("second Render() unexpected error: %v", err)
	}

	if !bytes.Equal(first.Spec.Source(), second.Spec.Source()) {
		t.Error("repeated renders produced different specs")
	}
}

func TestRender_ViewerFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	r := NewRenderer(Options{
		Engine: &fakeEngine{output: []byte("x")},
		Viewer: &Viewer{Command: filepath.Join(dir, "no-such-viewer")},
		Logger: log.New(&logs, "", 0),
	})

	dest := filepath.Join(dir, "workflow.png")
	if _, err := r.Render(context.Background(), sharedDependency(t), nil, dest); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "WARNING: failed to open") {
		t.Errorf("expected viewer warning, got logs %q", logs.String())
	}
}

func TestDotEngine_MissingBinary(t *testing.T) {
	engine := &DotEngine{Command: "wfgraph-no-such-layout-binary"}

	var out bytes.Buffer
	err := engine.Layout(context.Background(), []byte("digraph {}"), "png", &out)

	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("Layout() error = %v, want *LayoutError", err)
	}
	if !strings.Contains(err.Error(), "Graphviz") {
		t.Errorf("Layout() error = %q, want install hint", err.Error())
	}
}

func TestDotEngine_Graphviz(t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("dot not installed")
	}

	dir := t.TempDir()
	r := NewRenderer(Options{Logger: quietLogger()})

	dest := filepath.Join(dir, "workflow.svg")
	overlay := status.Overlay{"A": status.Completed}
	if _, err := r.Render(context.Background(), sharedDependency(t), overlay, dest); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output is not SVG:\n%s", data)
	}
}
