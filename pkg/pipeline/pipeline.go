// Package pipeline provides the conversion pipeline for cmaptree.
//
// This package ties the engine in [cmap] to caching, logging and output
// encoding so the CLI (and any other entry point) converts maps the same
// way.
//
// # Architecture
//
// A conversion runs in three stages:
//
//  1. Select: pick the root concept, or every concept in all-concepts mode
//  2. Build: materialize one concept tree per root and emit it as an outline
//  3. Render: encode each outline as OPML, JSON, DOT, SVG or PNG
//
// Stages 1 and 2 are performed by [Runner.Convert], whose result is cached
// by content hash of the map and the options. Stage 3 is [Render], which is
// cheap and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Convert(ctx, m, pipeline.Options{AllConcepts: true})
//	if err != nil {
//	    return err
//	}
//	for _, t := range res.Trees {
//	    data, err := pipeline.Render(ctx, head, t, pipeline.RenderOptions{Format: pipeline.FormatOPML})
//	    ...
//	}
//
// [cmap]: github.com/matzehuels/cmaptree/pkg/cmap
package pipeline

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/matzehuels/cmaptree/pkg/cache"
	"github.com/matzehuels/cmaptree/pkg/cmap"
	"github.com/matzehuels/cmaptree/pkg/errors"
	"github.com/matzehuels/cmaptree/pkg/outline"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxDepth is the default depth limit. Zero means unlimited:
	// cycles are cut by the path check, so depth alone never needs a bound.
	DefaultMaxDepth = 0

	// DefaultMaxNodes caps node occurrences per tree. Shared concepts are
	// repeated once per path, so a densely cross-linked map can expand
	// combinatorially; the cap keeps such maps from exhausting memory.
	DefaultMaxNodes = 50000
)

// Format constants for output formats.
const (
	FormatOPML = "opml"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatOPML

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatOPML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// FormatNames lists the supported formats in display order.
var FormatNames = []string{FormatOPML, FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// =============================================================================
// Options - Conversion Configuration
// =============================================================================

// Options configures a conversion.
type Options struct {
	// RootID requests a specific root concept. Unknown ids fall back to
	// automatic detection with a warning. Ignored in all-concepts mode.
	RootID string `json:"root_id,omitempty"`

	// AllConcepts produces one tree per concept in input order.
	AllConcepts bool `json:"all_concepts,omitempty"`

	// MaxDepth limits tree depth; 0 means unlimited.
	MaxDepth int `json:"max_depth,omitempty"`

	// MaxNodes limits node occurrences per tree; 0 selects
	// DefaultMaxNodes and a negative value disables the limit.
	MaxNodes int `json:"max_nodes,omitempty"`

	// Workers bounds parallel builds in all-concepts mode; 0 selects
	// GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative (got %d)", o.MaxDepth)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative (got %d)", o.Workers)
	}
	if o.AllConcepts && o.RootID != "" {
		return errors.New(errors.ErrCodeInvalidInput, "a root id cannot be combined with all-concepts mode")
	}

	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	o.validated = true
	return nil
}

// buildOptions translates the limits to builder options.
func (o *Options) buildOptions() []cmap.BuildOption {
	opts := []cmap.BuildOption{cmap.WithMaxDepth(o.MaxDepth)}
	if o.MaxNodes > 0 {
		opts = append(opts, cmap.WithMaxNodes(o.MaxNodes))
	}
	return opts
}

// KeyOpts returns cache key options for this conversion.
func (o *Options) KeyOpts() cache.OutlineKeyOpts {
	return cache.OutlineKeyOpts{
		RootID:      o.RootID,
		AllConcepts: o.AllConcepts,
		MaxDepth:    o.MaxDepth,
		MaxNodes:    o.MaxNodes,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a conversion.
type Result struct {
	// Trees holds one outline per root. In all-concepts mode the order
	// follows the concepts of the map; skipped roots leave no entry.
	Trees []outline.Tree `json:"trees"`

	// Selection describes the root choice in single-root mode and is nil
	// in all-concepts mode.
	Selection *cmap.Selection `json:"selection,omitempty"`

	// MapHash is the content hash of the converted map.
	MapHash string `json:"map_hash"`

	// Stats contains counts and timing.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the trees came from the cache.
	CacheHit bool `json:"-"`
}

// Stats contains conversion statistics.
type Stats struct {
	Concepts    int           `json:"concepts"`
	Phrases     int           `json:"phrases"`
	Connections int           `json:"connections"`
	Trees       int           `json:"trees"`
	Skipped     int           `json:"skipped"`
	Nodes       int           `json:"nodes"`     // node occurrences over all trees
	Depth       int           `json:"depth"`     // deepest level over all trees
	Truncated   int           `json:"truncated"` // trees cut short by a limit
	Duration    time.Duration `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates. An empty string yields [DefaultFormat].
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return []string{DefaultFormat}, nil
	}
	return out, nil
}

// Extension returns the file extension, including the dot, for a format.
func Extension(format string) string {
	return fmt.Sprintf(".%s", format)
}
