package diagram

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SourceFormat is written straight from the DOT encoding without running the
// layout engine.
const SourceFormat = "gv"

// Formats lists the output formats Graphviz can render, keyed by file
// extension. It mirrors graphviz.FORMATS of the Python graphviz package, which
// the workflow tooling validated against first.
var Formats = []string{
	"bmp", "canon", "cgimage", "cmap", "cmapx", "cmapx_np", "dot", "dot_json",
	"eps", "exr", "fig", "gd", "gd2", "gif", "gtk", "gv", "ico", "imap",
	"imap_np", "ismap", "jp2", "jpe", "jpeg", "jpg", "json", "json0", "pct",
	"pdf", "pic", "pict", "plain", "plain-ext", "png", "pov", "ps", "ps2",
	"psd", "sgi", "svg", "svgz", "tga", "tif", "tiff", "tk", "vml", "vmlz",
	"vrml", "wbmp", "webp", "x11", "xdot", "xdot1.2", "xdot1.4", "xdot_json",
	"xlib",
}

// ErrUnsupportedFormat matches any *UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// UnsupportedFormatError reports a destination whose extension Graphviz cannot render.
type UnsupportedFormatError struct {
	Path   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("output %q has no file extension; must be one of: %s", e.Path, strings.Join(Formats, ", "))
	}
	return fmt.Sprintf("output format %q of %q is not supported; must be one of: %s", e.Format, e.Path, strings.Join(Formats, ", "))
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// FormatOf returns the output format selected by the trailing extension of path.
// Extensions are matched case-sensitively, as Graphviz does. Formats that
// contain a dot, such as xdot1.4, match as a whole.
func FormatOf(path string) (string, error) {
	var match string
	for _, format := range Formats {
		if len(format) > len(match) && strings.HasSuffix(path, "."+format) {
			match = format
		}
	}
	if match == "" {
		format := strings.TrimPrefix(filepath.Ext(path), ".")
		return "", &UnsupportedFormatError{Path: path, Format: format}
	}
	return match, nil
}

// stripFormat returns path without its trailing format extension.
func stripFormat(path, format string) string {
	return strings.TrimSuffix(path, "."+format)
}
