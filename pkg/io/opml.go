package io

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/cmaptree/pkg/errors"
	"github.com/matzehuels/cmaptree/pkg/outline"
)

// OPMLVersion is written to the opml element's version attribute.
const OPMLVersion = "2.0"

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title        string `xml:"title"`
	DateCreated  string `xml:"dateCreated,omitempty"`
	DateModified string `xml:"dateModified,omitempty"`
	OwnerName    string `xml:"ownerName,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Type     string        `xml:"type,attr,omitempty"`
	Children []opmlOutline `xml:"outline"`
}

// WriteOPML renders t as an OPML 2.0 document with header h and writes it
// to w. The tree root is the single top-level outline element. Dates use
// the RFC 822 form the OPML specification asks for.
func WriteOPML(w io.Writer, h outline.Head, t outline.Tree) error {
	doc := opmlDocument{
		Version: OPMLVersion,
		Head: opmlHead{
			Title:        h.Title,
			DateCreated:  formatOPMLTime(h.DateCreated),
			DateModified: formatOPMLTime(h.DateModified),
			OwnerName:    h.OwnerName,
		},
		Body: opmlBody{Outlines: []opmlOutline{toOPML(t.Root)}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportOPML writes t as an OPML file at path. See [WriteOPML].
func ExportOPML(path string, h outline.Head, t outline.Tree) error {
	return writeFile(path, func(w io.Writer) error { return WriteOPML(w, h, t) })
}

// ReadOPML decodes an OPML document, returning its header and top-level
// outline items. Dates that do not parse as RFC 822 are left zero.
func ReadOPML(r io.Reader) (outline.Head, []outline.Item, error) {
	var doc opmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return outline.Head{}, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode opml")
	}

	h := outline.Head{
		Title:        doc.Head.Title,
		DateCreated:  parseOPMLTime(doc.Head.DateCreated),
		DateModified: parseOPMLTime(doc.Head.DateModified),
		OwnerName:    doc.Head.OwnerName,
	}
	items := make([]outline.Item, len(doc.Body.Outlines))
	for i, o := range doc.Body.Outlines {
		items[i] = fromOPML(o)
	}
	return h, items, nil
}

// WriteOutlineJSON encodes doc as indented JSON and writes it to w.
func WriteOutlineJSON(w io.Writer, doc outline.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportOutlineJSON writes doc to a JSON file at path.
func ExportOutlineJSON(path string, doc outline.Document) error {
	return writeFile(path, func(w io.Writer) error { return WriteOutlineJSON(w, doc) })
}

func toOPML(it outline.Item) opmlOutline {
	o := opmlOutline{Text: it.Text, Type: it.Type}
	if len(it.Children) > 0 {
		o.Children = make([]opmlOutline, len(it.Children))
		for i, c := range it.Children {
			o.Children[i] = toOPML(c)
		}
	}
	return o
}

func fromOPML(o opmlOutline) outline.Item {
	it := outline.Item{Text: o.Text, Type: o.Type}
	if len(o.Children) > 0 {
		it.Children = make([]outline.Item, len(o.Children))
		for i, c := range o.Children {
			it.Children[i] = fromOPML(c)
		}
	}
	return it
}

func formatOPMLTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123Z)
}

func parseOPMLTime(s string) time.Time {
	t, err := time.Parse(time.RFC1123Z, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
