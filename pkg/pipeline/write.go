package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/matrix"
	"github.com/matzehuels/connmat/pkg/render"
)

// Encode writes res to w in the given format.
func Encode(ctx context.Context, w io.Writer, res *connectivity.Result, format string) error {
	switch format {
	case FormatCSV, "":
		return matrix.WriteCSV(w, res.Matrix)
	case FormatJSON:
		return matrix.WriteJSON(w, res.Matrix, res.Labels())
	case FormatDOT, FormatSVG:
		dot, err := render.ToDOT(res.Matrix, res.Labels(), render.Options{})
		if err != nil {
			return err
		}
		if format == FormatDOT {
			_, err = io.WriteString(w, dot)
			return err
		}
		svg, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return ValidateFormat(format)
	}
}

// write stages every output into a temporary file and renames them into
// place only once all of them were written successfully. If a rename
// fails, outputs already renamed by this call are removed.
func (r *Runner) write(ctx context.Context, res *connectivity.Result, opts Options) (int64, error) {
	out, err := stage(opts.OutputPath, func(w io.Writer) error {
		return Encode(ctx, w, res, opts.Format)
	})
	if err != nil {
		return 0, err
	}
	defer out.discard()

	// The matrix is renamed last so a failed sidecar never leaves an output.
	var staged []*stagedFile
	if opts.LabelsPath != "" {
		lbl, err := stage(opts.LabelsPath, func(w io.Writer) error {
			return WriteLabels(w, res)
		})
		if err != nil {
			return 0, err
		}
		defer lbl.discard()
		staged = append(staged, lbl)
	}
	staged = append(staged, out)

	for i, s := range staged {
		if err := s.commit(); err != nil {
			for _, done := range staged[:i] {
				_ = os.Remove(done.dest)
			}
			return 0, err
		}
	}
	return out.size, nil
}

// stagedFile is a fully written temporary file awaiting rename.
type stagedFile struct {
	tmp       string
	dest      string
	size      int64
	committed bool
}

// stage writes fn's output to a temporary file in dest's directory.
func stage(dest string, fn func(io.Writer) error) (*stagedFile, error) {
	dir := filepath.Dir(dest)
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", dest)
	}
	s := &stagedFile{tmp: f.Name(), dest: dest}

	cw := &countingWriter{w: f}
	werr := fn(cw)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(s.tmp)
		return nil, errors.Wrap(errors.ErrCodeOutputWrite, werr, "write %s", dest)
	}
	s.size = cw.n
	return s, nil
}

func (s *stagedFile) commit() error {
	if err := os.Chmod(s.tmp, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", s.dest)
	}
	if err := os.Rename(s.tmp, s.dest); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", s.dest)
	}
	s.committed = true
	return nil
}

func (s *stagedFile) discard() {
	if !s.committed {
		_ = os.Remove(s.tmp)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	return n, nil
}
