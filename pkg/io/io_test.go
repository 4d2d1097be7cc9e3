package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cmaptree/pkg/cmap"
	"github.com/matzehuels/cmaptree/pkg/errors"
	"github.com/matzehuels/cmaptree/pkg/outline"
)

const plantsCXL = `<?xml version="1.0" encoding="UTF-8"?>
<cmap xmlns="http://cmap.ihmc.us/xml/cmap/" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <res-meta>
    <dc:title>Plant
      Biology</dc:title>
    <dc:description>Intro map</dc:description>
    <dcterms:created>2024-05-01T12:00:00-05:00</dcterms:created>
    <dcterms:modified>2024-05-02</dcterms:modified>
  </res-meta>
  <map>
    <concept-list>
      <concept id="A" label="Plants"/>
      <concept id="B" label="Fresh&#xa;water"/>
    </concept-list>
    <linking-phrase-list>
      <linking-phrase id="P" label="requires"/>
    </linking-phrase-list>
    <connection-list>
      <connection id="c1" from-id="A" to-id="P"/>
      <connection id="c2" from-id="P" to-id="B"/>
      <connection id="c3" from-id="P" to-id="ghost"/>
    </connection-list>
  </map>
</cmap>`

func TestReadCXL(t *testing.T) {
	m, err := ReadCXL(strings.NewReader(plantsCXL))
	if err != nil {
		t.Fatalf("ReadCXL: %v", err)
	}

	if len(m.Concepts) != 2 || len(m.Phrases) != 1 || len(m.Connections) != 3 {
		t.Fatalf("got %d concepts, %d phrases, %d connections",
			len(m.Concepts), len(m.Phrases), len(m.Connections))
	}
	if m.Concepts[1].Label != "Fresh water" {
		t.Errorf("label not normalized: %q", m.Concepts[1].Label)
	}
	if m.Meta.Title != "Plant Biology" {
		t.Errorf("Title = %q", m.Meta.Title)
	}
	if m.Meta.Description != "Intro map" {
		t.Errorf("Description = %q", m.Meta.Description)
	}
	if m.Meta.Created.IsZero() || m.Meta.Created.UTC().Hour() != 17 {
		t.Errorf("Created = %v", m.Meta.Created)
	}
	if want := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC); !m.Meta.Modified.Equal(want) {
		t.Errorf("Modified = %v, want %v", m.Meta.Modified, want)
	}
	if c := m.Connections[2]; c.ToID != "ghost" {
		t.Errorf("dangling connection dropped: %+v", c)
	}
}

func TestReadCXLBuildsTree(t *testing.T) {
	m, err := ReadCXL(strings.NewReader(plantsCXL))
	if err != nil {
		t.Fatal(err)
	}
	root, err := cmap.BuildTree(cmap.NewIndex(m), "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 || root.Children[0].Label != "Fresh water" {
		t.Errorf("children = %+v", root.Children)
	}
}

func TestReadCXLErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not xml", "concept map"},
		{"wrong root", `<opml version="2.0"></opml>`},
		{"missing concept id", `<cmap><map><concept-list><concept label="X"/></concept-list></map></cmap>`},
		{"missing phrase id", `<cmap><map><linking-phrase-list><linking-phrase label="is"/></linking-phrase-list></map></cmap>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCXL(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestReadCXLEmptyMap(t *testing.T) {
	m, err := ReadCXL(strings.NewReader(`<cmap><map/></cmap>`))
	if err != nil {
		t.Fatalf("ReadCXL: %v", err)
	}
	if !m.Empty() {
		t.Errorf("expected empty map, got %+v", m)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := &cmap.Map{
		Meta:     cmap.Meta{Title: "Plants", Created: created},
		Concepts: []cmap.Concept{{ID: "B", Label: "Water"}, {ID: "A", Label: "Plants"}},
		Phrases:  []cmap.LinkingPhrase{{ID: "P", Label: "requires"}},
		Connections: []cmap.Connection{
			{ID: "c1", FromID: "A", ToID: "P"},
			{FromID: "P", ToID: "B"},
		},
	}

	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"linking_phrases"`) {
		t.Errorf("missing linking_phrases key:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Meta.Title != "Plants" || !got.Meta.Created.Equal(created) || !got.Meta.Modified.IsZero() {
		t.Errorf("Meta = %+v", got.Meta)
	}
	if got.Concepts[0].ID != "B" || got.Concepts[1].ID != "A" {
		t.Errorf("concept order lost: %+v", got.Concepts)
	}
	if got.Connections[0].ID != "c1" || got.Connections[1].FromID != "P" || got.Connections[1].ToID != "B" {
		t.Errorf("Connections = %+v", got.Connections)
	}
}

func TestReadJSONErrors(t *testing.T) {
	for name, in := range map[string]string{
		"malformed":  `{"concepts": [`,
		"missing id": `{"concepts": [{"label": "X"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want invalid format", err)
			}
		})
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	cxl := filepath.Join(dir, "plants.CXL")
	if err := os.WriteFile(cxl, []byte(plantsCXL), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Import(cxl)
	if err != nil {
		t.Fatalf("Import(cxl): %v", err)
	}

	js := filepath.Join(dir, "plants.json")
	if err := ExportJSON(m, js); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	back, err := Import(js)
	if err != nil {
		t.Fatalf("Import(json): %v", err)
	}
	if len(back.Concepts) != len(m.Concepts) || back.Meta.Title != m.Meta.Title {
		t.Errorf("json import differs: %+v", back)
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Import(filepath.Join(dir, "plants.txt"))
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("err = %v, want invalid format", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Import(filepath.Join(dir, "absent.cxl"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("err = %v, want file not found", err)
		}
	})
}

func plantsTree(t *testing.T) outline.Tree {
	t.Helper()
	m, err := ReadCXL(strings.NewReader(plantsCXL))
	if err != nil {
		t.Fatal(err)
	}
	root, err := cmap.BuildTree(cmap.NewIndex(m), "A")
	if err != nil {
		t.Fatal(err)
	}
	return outline.NewTree(root)
}

func TestWriteOPML(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := outline.NewHead(cmap.Meta{Title: "Plants"}, now)

	var buf bytes.Buffer
	if err := WriteOPML(&buf, h, plantsTree(t)); err != nil {
		t.Fatalf("WriteOPML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<opml version="2.0">`,
		`<title>Plants</title>`,
		`<dateCreated>Wed, 01 May 2024 12:00:00 +0000</dateCreated>`,
		`<outline text="Plants" type="concept">`,
		`<outline text="Fresh water" type="concept"></outline>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ownerName") {
		t.Errorf("empty owner should be omitted:\n%s", out)
	}

	gotHead, items, err := ReadOPML(&buf)
	if err != nil {
		t.Fatalf("ReadOPML: %v", err)
	}
	if !gotHead.DateCreated.Equal(now) || gotHead.Title != "Plants" {
		t.Errorf("head = %+v", gotHead)
	}
	if len(items) != 1 || items[0].Text != "Plants" || len(items[0].Children) != 1 ||
		items[0].Children[0].Text != "Fresh water" {
		t.Errorf("items = %+v", items)
	}
}

func TestWriteOPMLEscapes(t *testing.T) {
	tr := outline.Tree{Root: outline.Item{Text: `Salt & "pepper" <mix>`, Type: outline.TypeConcept}}

	var buf bytes.Buffer
	if err := WriteOPML(&buf, outline.Head{Title: "T"}, tr); err != nil {
		t.Fatal(err)
	}
	_, items, err := ReadOPML(&buf)
	if err != nil {
		t.Fatalf("ReadOPML: %v", err)
	}
	if items[0].Text != tr.Root.Text {
		t.Errorf("text = %q, want %q", items[0].Text, tr.Root.Text)
	}
}

func TestExportOPML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants.opml")
	if err := ExportOPML(path, outline.Head{Title: "Plants"}, plantsTree(t)); err != nil {
		t.Fatalf("ExportOPML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`text="Fresh water"`)) {
		t.Errorf("file content:\n%s", data)
	}
}

func TestWriteOutlineJSON(t *testing.T) {
	doc := outline.Document{Head: outline.Head{Title: "Plants"}, Trees: []outline.Tree{plantsTree(t)}}

	var buf bytes.Buffer
	if err := WriteOutlineJSON(&buf, doc); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"root_id": "A"`, `"text": "Fresh water"`, `"type": "concept"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
