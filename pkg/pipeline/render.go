package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/cmaptree/pkg/errors"
	pkgio "github.com/matzehuels/cmaptree/pkg/io"
	"github.com/matzehuels/cmaptree/pkg/outline"
	"github.com/matzehuels/cmaptree/pkg/render/nodelink"
)

// RenderOptions configures the encoding of one outline tree.
type RenderOptions struct {
	Format string

	// Detailed adds depth information to DOT, SVG and PNG node labels.
	Detailed bool
}

// Render encodes tree t in the requested format. head supplies the
// document title and dates for formats that carry them (OPML and JSON).
func Render(ctx context.Context, head outline.Head, t outline.Tree, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatOPML:
		if err := pkgio.WriteOPML(&buf, head, t); err != nil {
			return nil, fmt.Errorf("render opml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		doc := outline.Document{Head: head, Trees: []outline.Tree{t}}
		if err := pkgio.WriteOutlineJSON(&buf, doc); err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed})
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	case FormatPNG:
		data, err := nodelink.RenderPNG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render png: %w", err)
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", opts.Format)
}

// RenderAll encodes t in every format of formats, keyed by format.
func RenderAll(ctx context.Context, head outline.Head, t outline.Tree, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := Render(ctx, head, t, RenderOptions{Format: f, Detailed: detailed})
		if err != nil {
			return nil, err
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
