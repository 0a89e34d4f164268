package output

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/pokedex"
	"github.com/hupe1980/pokedash/internal/render"
)

// Encoder writes a view in one output format.
type Encoder func(w io.Writer, v *dashboard.View) error

// Format describes one output format.
type Format struct {
	Name      string
	MediaType string
	Extension string
	Encode    Encoder
}

// Registry maps format names to formats, enabling pluggable output for the
// render command and the HTTP API.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format. Existing entries for the same name are
// overwritten.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[f.Name] = f
}

// Format returns the format with the given name.
func (r *Registry) Format(name string) (Format, error) {
	r.mu.RLock()
	f, ok := r.formats[strings.ToLower(name)]
	r.mu.RUnlock()

	if !ok {
		return Format{}, fmt.Errorf("unknown output format %q (available: %s): %w",
			name, r.AvailableFormats(), pokedex.ErrInvalidArgument)
	}

	return f, nil
}

// ForPath picks the format whose extension matches path, or fallback when
// none does.
func (r *Registry) ForPath(path, fallback string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if alias, ok := extensionAliases[ext]; ok {
		ext = alias
	}

	r.mu.RLock()
	for _, f := range r.formats {
		if ext != "" && f.Extension == ext {
			r.mu.RUnlock()
			return f, nil
		}
	}
	r.mu.RUnlock()

	return r.Format(fallback)
}

var extensionAliases = map[string]string{
	".htm":      ".html",
	".yml":      ".yaml",
	".markdown": ".md",
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// Options configures the built-in formats.
type Options struct {
	// NoColor disables colors in the text format.
	NoColor bool
	// Interactive includes the filter form in the html format.
	Interactive bool
}

// DefaultRegistry returns a registry pre-populated with the built-in
// output formats: html, json, yaml, markdown, text.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()

	r.Register(Format{
		Name:      "html",
		MediaType: "text/html; charset=utf-8",
		Extension: ".html",
		Encode: func(w io.Writer, v *dashboard.View) error {
			return render.HTML(w, v, render.HTMLOptions{Interactive: opts.Interactive})
		},
	})

	r.Register(Format{
		Name:      "json",
		MediaType: "application/json",
		Extension: ".json",
		Encode:    serialized(func(v any) ([]byte, error) { return SerializeJSON(v, DefaultIndent) }),
	})

	r.Register(Format{
		Name:      "yaml",
		MediaType: "application/yaml",
		Extension: ".yaml",
		Encode:    serialized(SerializeYAML),
	})

	r.Register(Format{
		Name:      "markdown",
		MediaType: "text/markdown; charset=utf-8",
		Extension: ".md",
		Encode:    render.Markdown,
	})

	r.Register(Format{
		Name:      "text",
		MediaType: "text/plain; charset=utf-8",
		Extension: ".txt",
		Encode: func(w io.Writer, v *dashboard.View) error {
			return render.Text(w, v, render.TextOptions{NoColor: opts.NoColor})
		},
	})

	return r
}

func serialized(fn func(any) ([]byte, error)) Encoder {
	return func(w io.Writer, v *dashboard.View) error {
		b, err := fn(v)
		if err != nil {
			return err
		}

		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		return nil
	}
}
