package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/connmat/pkg/archive"
	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/pipeline"
)

// defaultOutputPrefix names outputs written next to their input when -o is
// omitted: sub-0001/assignments.csv -> sub-0001/connectivity_matrix_from_assignments.csv.
const defaultOutputPrefix = "connectivity_matrix_from_"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output       string
	format       string
	labels       string
	zeroDiagonal bool
	refresh      bool
	noCache      bool
	cacheBackend string
	redisURL     string
	archiveURI   string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{zeroDiagonal: true}

	cmd := &cobra.Command{
		Use:   "build [assignments-file]",
		Short: "Build a connectivity matrix from a pairs file",
		Long: `Build reads "source target" label pairs, one per line, and writes the
N x N matrix of pair counts. Lines that are not exactly two non-negative
integers are skipped. Labels are mapped to rows in ascending order; use
--labels to record that mapping.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts, err := opts.resolve(cmd, args, cfg)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), popts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: connectivity_matrix_from_<input> next to the input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv (default), json, dot, svg")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "also write the index,label mapping to this file")
	cmd.Flags().BoolVar(&opts.zeroDiagonal, "zero-diagonal", opts.zeroDiagonal, "clear self-pair counts on the diagonal")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the build cache")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache-backend", "", "cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis URL for --cache-backend=redis")
	cmd.Flags().StringVar(&opts.archiveURI, "archive-uri", "", "MongoDB URI to archive the result to")

	return cmd
}

// resolve merges flags over the config file into pipeline options.
// Flags win only when set explicitly.
func (o *buildOpts) resolve(cmd *cobra.Command, args []string, cfg *Config) (pipeline.Options, error) {
	flags := cmd.Flags()
	popts := pipeline.Options{
		InputPath:    cfg.InputPath,
		OutputPath:   cfg.OutputPath,
		ZeroDiagonal: cfg.ZeroDiagonal,
		Format:       cfg.Format,
		LabelsPath:   cfg.LabelsPath,
		Refresh:      o.refresh,
	}
	if len(args) == 1 {
		popts.InputPath = args[0]
	}
	if popts.InputPath == "" {
		return popts, errors.New(errors.ErrCodeInvalidConfig, "no input file (pass it as an argument or set input_path)")
	}
	if flags.Changed("output") {
		popts.OutputPath = o.output
	}
	if flags.Changed("format") {
		popts.Format = o.format
	}
	if flags.Changed("labels") {
		popts.LabelsPath = o.labels
	}
	if flags.Changed("zero-diagonal") {
		popts.ZeroDiagonal = pipeline.Bool(o.zeroDiagonal)
	}
	if popts.OutputPath == "" {
		popts.OutputPath = defaultOutputPath(popts.InputPath, popts.Format)
	}

	switch {
	case o.noCache:
		cfg.Cache.Backend = backendNone
	case flags.Changed("cache-backend"):
		cfg.Cache.Backend = o.cacheBackend
	}
	if flags.Changed("redis-url") {
		cfg.Cache.RedisURL = o.redisURL
		if cfg.Cache.Backend == "" {
			cfg.Cache.Backend = backendRedis
		}
	}
	if flags.Changed("archive-uri") {
		cfg.Archive.URI = o.archiveURI
	}
	return popts, nil
}

// defaultOutputPath derives the output path from the input path.
func defaultOutputPath(input, format string) string {
	if format == "" {
		format = pipeline.DefaultFormat
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), defaultOutputPrefix+stem+"."+strings.ToLower(format))
}

// runBuild executes the pipeline and reports the result.
func (c *CLI) runBuild(ctx context.Context, popts pipeline.Options, cfg *Config) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	var res *pipeline.Result
	execute := func() error {
		var err error
		res, err = runner.Execute(ctx, popts)
		return err
	}
	if strings.EqualFold(popts.Format, pipeline.FormatSVG) {
		err = newSpinner(ctx, "Rendering SVG...").run(execute)
	} else {
		err = execute()
	}
	if err != nil {
		return err
	}
	prog.done("Build complete")

	n := res.Size()
	printSuccess("Matrix (%dx%d) generated from %s", n, n, filepath.Base(popts.InputPath))
	printBuildStats(n, res.PairCount, res.SelfPairs, res.CacheHit)
	printFile(res.OutputPath)
	if popts.LabelsPath != "" {
		printFile(popts.LabelsPath)
	}

	if cfg.Archive.URI != "" {
		return archiveResult(ctx, cfg.Archive, res, popts.InputPath)
	}
	return nil
}

// archiveResult saves res to the configured MongoDB collection.
func archiveResult(ctx context.Context, cfg archive.MongoConfig, res *pipeline.Result, source string) error {
	store, err := archive.NewMongoStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.WithoutCancel(ctx))

	rec := archive.NewRecord(res.Result, source, res.InputHash)
	if err := newSpinner(ctx, "Archiving...").run(func() error {
		return store.Save(ctx, rec)
	}); err != nil {
		return err
	}
	printDetail("Archived as %s", rec.ID)
	return nil
}
