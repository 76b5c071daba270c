// Package pipeline runs the read -> build -> write flow behind every
// connmat entry point.
//
// # Stages
//
//  1. Read: load the edge list from Options.InputPath. A missing or
//     unreadable file fails with INPUT_ACCESS before anything is written.
//  2. Build: parse the pairs and tally the connectivity matrix, or reuse a
//     cached build of identical input bytes and options.
//  3. Write: encode the matrix (csv, json, dot or svg) into a temporary
//     file beside the destination and rename it into place. A failed write
//     removes the temporary file, so no partial output is ever left behind
//     (OUTPUT_WRITE).
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    InputPath:  "sub-0001/assignments.csv",
//	    OutputPath: "sub-0001/connectivity_matrix_from_assignments.csv",
//	})
//	fmt.Printf("Matrix (%dx%d)\n", res.Size(), res.Size())
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/connmat/pkg/cache"
	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
)

// Format constants for output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormat is the output format when none is given.
const DefaultFormat = FormatCSV

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatCSV, FormatJSON, FormatDOT, FormatSVG}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// InputPath is the edge list to read.
	InputPath string `json:"input_path" toml:"input_path"`

	// OutputPath receives the encoded matrix.
	OutputPath string `json:"output_path" toml:"output_path"`

	// ZeroDiagonal clears self-pair tallies. nil means true.
	ZeroDiagonal *bool `json:"zero_diagonal,omitempty" toml:"zero_diagonal"`

	// Format selects the output encoding. Empty means csv.
	Format string `json:"format,omitempty" toml:"format"`

	// LabelsPath, when set, receives an "index,label" CSV sidecar.
	LabelsPath string `json:"labels_path,omitempty" toml:"labels_path"`

	// Refresh bypasses the cache lookup (the result is still stored).
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-" toml:"-"`

	validated bool
}

// Bool returns a pointer to v, for use with Options.ZeroDiagonal.
func Bool(v bool) *bool {
	return &v
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidatePath(o.InputPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "input_path")
	}
	if err := errors.ValidateOutputPath(o.OutputPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output_path")
	}
	if o.LabelsPath != "" {
		if err := errors.ValidateOutputPath(o.LabelsPath); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "labels_path")
		}
		if o.LabelsPath == o.OutputPath {
			return errors.New(errors.ErrCodeInvalidConfig, "labels_path must differ from output_path")
		}
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Format = strings.ToLower(o.Format)
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.ZeroDiagonal == nil {
		o.ZeroDiagonal = Bool(connectivity.DefaultOptions().ZeroDiagonal)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// BuildOptions returns the connectivity options for this run.
func (o *Options) BuildOptions() connectivity.Options {
	if o.ZeroDiagonal == nil {
		return connectivity.DefaultOptions()
	}
	return connectivity.Options{ZeroDiagonal: *o.ZeroDiagonal}
}

// MatrixKeyOpts returns the cache key options for this run.
func (o *Options) MatrixKeyOpts() cache.MatrixKeyOpts {
	return cache.MatrixKeyOpts{ZeroDiagonal: o.BuildOptions().ZeroDiagonal}
}

// Result is the outcome of a pipeline run.
type Result struct {
	*connectivity.Result

	// InputHash is the SHA-256 of the input bytes.
	InputHash string

	// OutputPath is where the matrix was written.
	OutputPath string

	// BytesWritten is the size of the encoded matrix.
	BytesWritten int64

	// CacheHit reports whether the build was served from cache.
	CacheHit bool

	// Stats holds stage timings.
	Stats Stats
}

// Stats contains pipeline timing information.
type Stats struct {
	ReadTime  time.Duration
	BuildTime time.Duration
	WriteTime time.Duration
}
