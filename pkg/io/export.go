package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/cmaptree/pkg/cmap"
)

type jsonMap struct {
	Meta        *jsonMeta        `json:"meta,omitempty"`
	Concepts    []jsonNode       `json:"concepts"`
	Phrases     []jsonNode       `json:"linking_phrases"`
	Connections []jsonConnection `json:"connections"`
}

type jsonMeta struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Modified    *time.Time `json:"modified,omitempty"`
}

type jsonNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type jsonConnection struct {
	ID   string `json:"id,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a concept map as JSON and writes it to w.
// Record order is preserved, so the output re-imports identically with
// [ReadJSON].
func WriteJSON(m *cmap.Map, w io.Writer) error {
	out := jsonMap{
		Concepts:    make([]jsonNode, len(m.Concepts)),
		Phrases:     make([]jsonNode, len(m.Phrases)),
		Connections: make([]jsonConnection, len(m.Connections)),
	}
	if meta := m.Meta; meta != (cmap.Meta{}) {
		out.Meta = &jsonMeta{Title: meta.Title, Description: meta.Description}
		if !meta.Created.IsZero() {
			out.Meta.Created = &meta.Created
		}
		if !meta.Modified.IsZero() {
			out.Meta.Modified = &meta.Modified
		}
	}

	for i, c := range m.Concepts {
		out.Concepts[i] = jsonNode{ID: c.ID, Label: c.Label}
	}
	for i, p := range m.Phrases {
		out.Phrases[i] = jsonNode{ID: p.ID, Label: p.Label}
	}
	for i, c := range m.Connections {
		out.Connections[i] = jsonConnection{ID: c.ID, From: c.FromID, To: c.ToID}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a concept map to a JSON file at path.
func ExportJSON(m *cmap.Map, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(m, w) })
}

// writeFile creates path and hands it to write. The close error is
// reported when write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
