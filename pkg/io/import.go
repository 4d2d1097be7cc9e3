package io

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/cmaptree/pkg/cmap"
	"github.com/matzehuels/cmaptree/pkg/errors"
)

// Supported input extensions.
const (
	ExtCXL  = ".cxl"
	ExtXML  = ".xml"
	ExtJSON = ".json"
)

type cxlDocument struct {
	XMLName     xml.Name        `xml:"cmap"`
	Meta        cxlMeta         `xml:"res-meta"`
	Concepts    []cxlNode       `xml:"map>concept-list>concept"`
	Phrases     []cxlNode       `xml:"map>linking-phrase-list>linking-phrase"`
	Connections []cxlConnection `xml:"map>connection-list>connection"`
}

type cxlMeta struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Created     string `xml:"created"`
	Modified    string `xml:"modified"`
}

type cxlNode struct {
	ID    string `xml:"id,attr"`
	Label string `xml:"label,attr"`
}

type cxlConnection struct {
	ID     string `xml:"id,attr"`
	FromID string `xml:"from-id,attr"`
	ToID   string `xml:"to-id,attr"`
}

// cxlTimeLayouts are tried in order when parsing dcterms dates.
var cxlTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ReadCXL decodes a CmapTools CXL document from r.
//
// Concepts and linking phrases must carry an id attribute; a record without
// one is reported with its position. Connections are taken as-is, including
// those whose endpoints do not resolve: dangling connections are common in
// hand-edited maps and are skipped later during tree construction.
// Unparseable metadata dates are ignored.
//
// ReadCXL does not close r.
func ReadCXL(r io.Reader) (*cmap.Map, error) {
	var doc cxlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cxl")
	}

	m := &cmap.Map{
		Concepts:    make([]cmap.Concept, 0, len(doc.Concepts)),
		Phrases:     make([]cmap.LinkingPhrase, 0, len(doc.Phrases)),
		Connections: make([]cmap.Connection, 0, len(doc.Connections)),
		Meta: cmap.Meta{
			Title:       normalizeLabel(doc.Meta.Title),
			Description: strings.TrimSpace(doc.Meta.Description),
			Created:     parseCXLTime(doc.Meta.Created),
			Modified:    parseCXLTime(doc.Meta.Modified),
		},
	}

	for i, c := range doc.Concepts {
		if c.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "concept %d (%q): missing id", i, c.Label)
		}
		m.Concepts = append(m.Concepts, cmap.Concept{ID: c.ID, Label: normalizeLabel(c.Label)})
	}
	for i, p := range doc.Phrases {
		if p.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "linking phrase %d (%q): missing id", i, p.Label)
		}
		m.Phrases = append(m.Phrases, cmap.LinkingPhrase{ID: p.ID, Label: normalizeLabel(p.Label)})
	}
	for _, c := range doc.Connections {
		m.Connections = append(m.Connections, cmap.Connection{ID: c.ID, FromID: c.FromID, ToID: c.ToID})
	}
	return m, nil
}

// ImportCXL reads a CXL file at path. See [ReadCXL].
func ImportCXL(path string) (*cmap.Map, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadCXL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadJSON decodes a JSON concept map from r.
//
// The input must be an object with "concepts", "linking_phrases" and
// "connections" arrays and an optional "meta" object. As with [ReadCXL],
// concepts and linking phrases need ids while connections are not checked.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*cmap.Map, error) {
	var doc jsonMap
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}

	m := &cmap.Map{
		Concepts:    make([]cmap.Concept, 0, len(doc.Concepts)),
		Phrases:     make([]cmap.LinkingPhrase, 0, len(doc.Phrases)),
		Connections: make([]cmap.Connection, 0, len(doc.Connections)),
	}
	if doc.Meta != nil {
		m.Meta = cmap.Meta{Title: doc.Meta.Title, Description: doc.Meta.Description}
		if doc.Meta.Created != nil {
			m.Meta.Created = *doc.Meta.Created
		}
		if doc.Meta.Modified != nil {
			m.Meta.Modified = *doc.Meta.Modified
		}
	}

	for i, c := range doc.Concepts {
		if c.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "concept %d (%q): missing id", i, c.Label)
		}
		m.Concepts = append(m.Concepts, cmap.Concept{ID: c.ID, Label: c.Label})
	}
	for i, p := range doc.Phrases {
		if p.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "linking phrase %d (%q): missing id", i, p.Label)
		}
		m.Phrases = append(m.Phrases, cmap.LinkingPhrase{ID: p.ID, Label: p.Label})
	}
	for _, c := range doc.Connections {
		m.Connections = append(m.Connections, cmap.Connection{ID: c.ID, FromID: c.From, ToID: c.To})
	}
	return m, nil
}

// ImportJSON reads a JSON concept map file at path. See [ReadJSON].
func ImportJSON(path string) (*cmap.Map, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Import reads a concept map, choosing the format from the file extension:
// .cxl and .xml are read as CXL, .json as the JSON concept map format.
func Import(path string) (*cmap.Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCXL, ExtXML:
		return ImportCXL(path)
	case ExtJSON:
		return ImportJSON(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported input %s (expected %s, %s or %s)", path, ExtCXL, ExtXML, ExtJSON)
	}
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// normalizeLabel collapses runs of whitespace, including the line breaks
// CmapTools stores inside labels, to single spaces.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseCXLTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range cxlTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
