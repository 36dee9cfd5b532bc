package diagram

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/aristath/wfgraph/internal/graph"
	"github.com/aristath/wfgraph/internal/status"
)

// Options configures a Renderer.
type Options struct {
	Engine     Engine      // Layout engine; a DotEngine running "dot" if nil
	Viewer     *Viewer     // Opens the written file when non-nil
	KeepSource bool        // Also write the DOT source next to the output
	RankDir    string      // Layout direction; "TB" if empty
	Logger     *log.Logger // log.Default() if nil
}

// RenderResult describes a written diagram.
type RenderResult struct {
	Path       string
	Format     string
	SourcePath string // Empty unless the DOT source was kept
	Spec       *Spec
}

// Renderer turns dependency graphs into diagram files.
type Renderer struct {
	engine     Engine
	viewer     *Viewer
	keepSource bool
	rankDir    string
	logger     *log.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Engine == nil {
		opts.Engine = &DotEngine{}
	}
	if opts.RankDir == "" {
		opts.RankDir = "TB"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Renderer{
		engine:     opts.Engine,
		viewer:     opts.Viewer,
		keepSource: opts.KeepSource,
		rankDir:    opts.RankDir,
		logger:     opts.Logger,
	}
}

// Render writes a diagram of g to destination, in the format selected by its
// extension. The format is checked before any other work. Output goes to a
// temporary file that replaces destination only once it is complete.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, overlay status.Overlay, destination string) (*RenderResult, error) {
	format, err := FormatOf(destination)
	if err != nil {
		return nil, err
	}

	base := stripFormat(destination, format)
	spec := NewSpec(g, overlay, filepath.Base(base))
	spec.RankDir = r.rankDir
	source := spec.Source()

	err = writeAtomic(destination, func(w io.Writer) error {
		if format == SourceFormat {
			_, err := w.Write(source)
			return err
		}
		return r.engine.Layout(ctx, source, format, w)
	})
	if err != nil {
		return nil, err
	}

	result := &RenderResult{
		Path:   destination,
		Format: format,
		Spec:   spec,
	}

	if r.keepSource && format != SourceFormat {
		err := writeAtomic(base, func(w io.Writer) error {
			_, err := w.Write(source)
			return err
		})
		if err != nil {
			r.logger.Printf("WARNING: failed to keep diagram source at %s: %v", base, err)
		} else {
			result.SourcePath = base
		}
	}

	if r.viewer != nil {
		if err := r.viewer.Open(destination); err != nil {
			r.logger.Printf("WARNING: failed to open %s: %v", destination, err)
		}
	}

	return result, nil
}

// writeAtomic writes a file through a pending sibling and renames it into
// place, so a failed write never leaves a partial file at path.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithPermissions(0644),
	)
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	defer pending.Cleanup()

	if err := write(pending); err != nil {
		return err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("moving %s into place: %w", path, err)
	}
	return nil
}
