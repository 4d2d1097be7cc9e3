package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cmaptree/pkg/outline"
)

func plants() outline.Tree {
	return outline.Tree{
		Label:  "Plants",
		RootID: "A",
		Root: outline.Item{Text: "Plants", Type: outline.TypeConcept, Children: []outline.Item{
			{Text: "Water", Type: outline.TypeConcept},
			{Text: "Light", Type: outline.TypeConcept, Children: []outline.Item{
				{Text: "Water", Type: outline.TypeConcept},
			}},
		}},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(plants(), Options{})

	for _, want := range []string{
		"digraph G",
		`n0 [label="Plants", penwidth=3];`,
		`n1 [label="Water"];`,
		`n2 [label="Light"];`,
		`n3 [label="Water"];`,
		"n0 -> n1;",
		"n0 -> n2;",
		"n2 -> n3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "->") != 3 {
		t.Errorf("want 3 edges:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(plants(), Options{Detailed: true})

	if !strings.Contains(dot, `label="Light\nlevel: 1"`) {
		t.Errorf("ToDOT() detailed output missing level info:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Water\nlevel: 2"`) {
		t.Errorf("ToDOT() detailed output missing nested level:\n%s", dot)
	}
}

func TestToDOT_EscapesLabels(t *testing.T) {
	tr := outline.Tree{Root: outline.Item{Text: `say "hi"`}}
	dot := ToDOT(tr, Options{})
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("label not escaped:\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(outline.Tree{}, Options{})
	if strings.Contains(dot, "n0") {
		t.Errorf("empty tree should have no nodes:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	it := outline.Item{Text: "Water"}
	if got := fmtLabel(it, 2, false); got != "Water" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	if got := fmtLabel(it, 2, true); got != "Water\nlevel: 2" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
