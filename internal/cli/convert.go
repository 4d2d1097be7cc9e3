package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmaptree/pkg/errors"
	pkgio "github.com/matzehuels/cmaptree/pkg/io"
	"github.com/matzehuels/cmaptree/pkg/outline"
	"github.com/matzehuels/cmaptree/pkg/pipeline"
)

// stdoutPath as --output writes a single-root outline to standard output.
const stdoutPath = "-"

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output   string
	format   string
	root     string
	title    string
	all      bool
	pick     bool
	detailed bool
	noCache  bool
	refresh  bool
	maxDepth int
	maxNodes int
	workers  int
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <map.cxl|map.json>",
		Short: "Convert a concept map into outlines",
		Long: `Convert a concept map into an outline rooted at one concept, or into one
outline per concept with --all.

The root is chosen automatically unless --root or --pick is given: a
single concept without incoming connections wins, otherwise the first one
whose label mentions root, main or center, otherwise the first candidate.

Concepts reachable along several paths are repeated under each of them, so
trees are capped at ` + strconv.Itoa(pipeline.DefaultMaxNodes) + ` nodes by default. Pass
--max-nodes -1 to expand a large map fully.

Formats: opml (default), json, dot, svg, png. Several formats may be given
as a comma-separated list.`,
		Example: `  cmaptree convert plants.cxl
  cmaptree convert plants.cxl -f opml,svg -o out/plants
  cmaptree convert plants.cxl --root 1JNPYKZ6P-1QWHT9K-3F
  cmaptree convert plants.cxl --all -o outlines/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConvertDefaults(cmd, &opts)
			return c.runConvert(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory with --all (\"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format(s): opml, json, dot, svg, png")
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "root concept id")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "write one outline per concept")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the root interactively")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth in graph labels (dot, svg, png)")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", pipeline.DefaultMaxDepth, "maximum tree depth (0 = unlimited)")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", pipeline.DefaultMaxNodes, "maximum nodes per tree (-1 = unlimited)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel builds with --all (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the outline cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when a cached outline exists")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title (default: map title)")

	cmd.ValidArgsFunction = completeMapFiles
	_ = cmd.RegisterFlagCompletionFunc("root", completeConceptIDs)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.MarkFlagsMutuallyExclusive("root", "all", "pick")
	cmd.MarkFlagsMutuallyExclusive("no-cache", "refresh")

	return cmd
}

// applyConvertDefaults fills flags the user did not set from the config file.
func (c *CLI) applyConvertDefaults(cmd *cobra.Command, opts *convertOpts) {
	cfg := c.Config.Convert
	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Format != "" {
		opts.format = cfg.Format
	}
	if !flags.Changed("workers") {
		opts.workers = cfg.Workers
	}
	if !flags.Changed("max-depth") {
		opts.maxDepth = cfg.MaxDepth
	}
	if !flags.Changed("max-nodes") && cfg.MaxNodes != 0 {
		opts.maxNodes = cfg.MaxNodes
	}
	if !flags.Changed("detailed") {
		opts.detailed = cfg.Detailed
	}
}

func (c *CLI) runConvert(ctx context.Context, input string, opts convertOpts) error {
	formats, err := pipeline.ParseFormats(opts.format)
	if err != nil {
		return err
	}
	if opts.output == stdoutPath && (opts.all || len(formats) > 1) {
		return errors.New(errors.ErrCodeInvalidInput, "output %q needs a single root and a single format", stdoutPath)
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	m, err := pkgio.Import(input)
	if err != nil {
		return err
	}
	logger.Debug("imported map", "file", input,
		"concepts", len(m.Concepts), "phrases", len(m.Phrases), "connections", len(m.Connections))

	if opts.pick {
		id, err := pickRoot(ctx, m)
		if err != nil {
			return err
		}
		if id == "" {
			printDetail("No root selected")
			return nil
		}
		opts.root = id
	}

	var spinner *Spinner
	var onProgress func(done, total int)
	if opts.all && opts.output != stdoutPath {
		spinner = newSpinnerWithContext(ctx, "Building outlines...")
		onProgress = func(done, total int) { spinner.Progress("Building outlines", done, total) }
	}

	runner, err := c.newRunner(ctx, opts.noCache, onProgress)
	if err != nil {
		return err
	}
	defer runner.Close()

	if spinner != nil {
		spinner.Start()
	}
	res, err := runner.Convert(ctx, m, pipeline.Options{
		RootID:      opts.root,
		AllConcepts: opts.all,
		MaxDepth:    opts.maxDepth,
		MaxNodes:    opts.maxNodes,
		Workers:     opts.workers,
		Refresh:     opts.refresh,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	head := outline.NewHead(m.Meta, time.Now())
	head.OwnerName = c.Config.Convert.Owner
	if opts.title != "" {
		head.Title = opts.title
	}

	if opts.all {
		err = c.writeAll(ctx, input, head, res, formats, opts)
	} else {
		err = c.writeSingle(ctx, input, head, res, formats, opts)
	}
	if err != nil {
		return err
	}
	if opts.output == stdoutPath {
		return nil
	}

	printStats(res.Stats, res.CacheHit)
	if res.Stats.Truncated > 0 {
		printWarning("%d tree(s) cut short by --max-depth or --max-nodes", res.Stats.Truncated)
	}
	prog.done(fmt.Sprintf("Converted %s", filepath.Base(input)))
	return nil
}

// writeSingle writes the one tree of res in every requested format.
func (c *CLI) writeSingle(ctx context.Context, input string, head outline.Head, res *pipeline.Result, formats []string, opts convertOpts) error {
	if len(res.Trees) == 0 {
		return errors.New(errors.ErrCodeInternal, "conversion produced no tree")
	}
	tree := res.Trees[0]
	head = head.ForTree(tree, false)

	if opts.output == stdoutPath {
		data, err := pipeline.Render(ctx, head, tree, pipeline.RenderOptions{Format: formats[0], Detailed: opts.detailed})
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	if sel := res.Selection; sel != nil && sel.RequestedUnknown {
		printWarning("Root %q not found, using %q", opts.root, sel.ID)
	}

	artifacts, err := pipeline.RenderAll(ctx, head, tree, formats, opts.detailed)
	if err != nil {
		return err
	}

	printSuccess("Outline rooted at %s", StyleHighlight.Render(tree.Label))
	if res.Selection != nil {
		printDetail("root %s (%s)", tree.RootID, describeReason(res.Selection.Reason, len(res.Selection.Candidates)))
	}
	multi := len(formats) > 1
	for _, f := range formats {
		path := singleOutputPath(opts.output, input, f, multi)
		if err := writeOutput(path, artifacts[f]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeAll writes one file per tree and format into the output directory.
// File names come from the root labels; repeated names get a numeric suffix.
func (c *CLI) writeAll(ctx context.Context, input string, head outline.Head, res *pipeline.Result, formats []string, opts convertOpts) error {
	dir := allOutputDir(opts.output, input)
	names := newNameAllocator()

	printSuccess("Built %d outlines", len(res.Trees))
	for _, tree := range res.Trees {
		name := names.next(sanitizeFilename(tree.Label, tree.RootID))
		artifacts, err := pipeline.RenderAll(ctx, head.ForTree(tree, true), tree, formats, opts.detailed)
		if err != nil {
			return fmt.Errorf("render %s: %w", tree.RootID, err)
		}
		for _, f := range formats {
			file := name + pipeline.Extension(f)
			if err := errors.ValidateFilename(file); err != nil {
				return err
			}
			if err := writeOutput(filepath.Join(dir, file), artifacts[f]); err != nil {
				return err
			}
		}
		c.Logger.Debug("wrote outline", "root", tree.RootID, "name", name)
	}
	printFile(dir + string(filepath.Separator))
	if res.Stats.Skipped > 0 {
		printWarning("%d concept(s) skipped, run with --verbose for details", res.Stats.Skipped)
	}
	return nil
}
