package output

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is a destination for an encoded dashboard.
type Writer interface {
	Write(data []byte) error
}

// StreamWriter writes dashboards to a stream such as stdout.
type StreamWriter struct {
	out io.Writer
}

// NewStreamWriter returns a StreamWriter for w, or for os.Stdout when w is
// nil.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{out: w}
}

// Write sends data to the stream.
func (sw *StreamWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing dashboard: %w", err)
	}

	return nil
}

// FileWriter replaces a dashboard file atomically. The data goes to a
// temporary file in the same directory which is then renamed over the
// target, so a browser reloading the page during watch mode never sees a
// half-written file. Writes that would not change the file are skipped.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer for the dashboard file at path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write creates parent directories and replaces the file with data.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if old, err := os.ReadFile(fw.path); err == nil && bytes.Equal(old, data) {
		fw.logger.Debug("dashboard unchanged", slog.String("path", fw.path))
		return nil
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".*")
	if err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	// Removing after a successful rename fails harmlessly.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := tmp.Chmod(fw.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", fw.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := os.Rename(tmp.Name(), fw.path); err != nil {
		return fmt.Errorf("replacing %s: %w", fw.path, err)
	}

	fw.logger.Debug("dashboard file replaced", slog.String("path", fw.path), slog.Int("bytes", len(data)))

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}

// Destination returns the writer for path: stdout for "" or "-", a
// FileWriter otherwise.
func Destination(path string, stdout io.Writer, opts ...FileWriterOption) Writer {
	if path == "" || path == "-" {
		return NewStreamWriter(stdout)
	}

	return NewFileWriter(path, opts...)
}
