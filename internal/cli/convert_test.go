package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/cmaptree/pkg/errors"
	pkgio "github.com/matzehuels/cmaptree/pkg/io"
	"github.com/matzehuels/cmaptree/pkg/pipeline"
)

func TestConvertSingleRoot(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input); err != nil {
		t.Fatalf("convert: %v", err)
	}

	f, err := os.Open(filepath.Join(env.dir, "plants.opml"))
	if err != nil {
		t.Fatalf("default output missing: %v", err)
	}
	defer f.Close()

	head, items, err := pkgio.ReadOPML(f)
	if err != nil {
		t.Fatalf("ReadOPML: %v", err)
	}
	if head.Title != "Plant Biology" {
		t.Errorf("Title = %q", head.Title)
	}
	if len(items) != 1 || items[0].Text != "Plants" {
		t.Fatalf("items = %+v", items)
	}
	if got := items[0].Count(); got != 4 {
		t.Errorf("node count = %d, want 4", got)
	}
	if !strings.Contains(env.out.String(), "plants.opml") {
		t.Errorf("output path not reported:\n%s", env.out.String())
	}
}

func TestConvertMultipleFormats(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)
	out := filepath.Join(env.dir, "out", "tree.opml")

	if err := env.run("convert", input, "-f", "opml,json,dot", "-o", out, "--title", "Garden"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	for _, name := range []string{"tree.opml", "tree.json", "tree.dot"} {
		if _, err := os.Stat(filepath.Join(env.dir, "out", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(env.dir, "out", "tree.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title": "Garden"`) {
		t.Errorf("title override missing:\n%s", data)
	}
}

func TestConvertRequestedRoot(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input, "-r", "C", "-o", "-"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, `<outline text="Sun/Light" type="concept">`) {
		t.Errorf("root C not used:\n%s", out)
	}
	if strings.Contains(out, `text="Plants"`) {
		t.Errorf("Plants is not reachable from C:\n%s", out)
	}
}

func TestConvertAllConcepts(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input, "--all", "--no-cache"); err != nil {
		t.Fatalf("convert --all: %v", err)
	}

	dir := filepath.Join(env.dir, "plants_outlines")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("output directory: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"Plants.opml", "Sun_Light.opml", "Water.opml"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", names, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Water.opml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<title>Plant Biology - Water</title>") {
		t.Errorf("per-tree title missing:\n%s", data)
	}
}

func TestConvertUsesCache(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(env.out.String(), iconCached) {
		t.Errorf("first run reported a cache hit:\n%s", env.out.String())
	}

	env.out.Reset()
	if err := env.run("convert", input); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), iconCached) {
		t.Errorf("second run should be served from cache:\n%s", env.out.String())
	}

	env.out.Reset()
	if err := env.run("convert", input, "--refresh"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(env.out.String(), iconCached) {
		t.Errorf("--refresh must rebuild:\n%s", env.out.String())
	}
}

func TestConvertConfigDefaults(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)
	cfgDir := filepath.Join(env.dir, "config", appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[convert]\nformat = \"dot\"\nowner = \"Ada\"\n\n[cache]\ndisable = true\n"
	if err := os.WriteFile(filepath.Join(cfgDir, configFileName), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := env.run("convert", input); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "plants.dot")); err != nil {
		t.Errorf("config format not applied: %v", err)
	}

	if err := env.run("convert", input, "-f", "opml"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(env.dir, "plants.opml"))
	if err != nil {
		t.Fatalf("flag should override config format: %v", err)
	}
	if !strings.Contains(string(data), "<ownerName>Ada</ownerName>") {
		t.Errorf("owner missing:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "cache", appName)); !os.IsNotExist(err) {
		t.Errorf("cache directory created although disabled: %v", err)
	}
}

func TestConvertErrors(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)
	empty := env.write(t, "empty.cxl", `<cmap><map/></cmap>`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"convert", input, "-f", "pdf"}, errors.ErrCodeInvalidFormat},
		{"missing file", []string{"convert", filepath.Join(env.dir, "absent.cxl")}, errors.ErrCodeFileNotFound},
		{"empty map", []string{"convert", empty}, errors.ErrCodeEmptyMap},
		{"stdout with all", []string{"convert", input, "--all", "-o", "-"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.run(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}

	t.Run("root and all", func(t *testing.T) {
		if err := env.run("convert", input, "-r", "A", "--all"); err == nil {
			t.Error("expected mutually exclusive flag error")
		}
	})
}

func TestConvertUnknownRootFallsBack(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input, "-r", "nope", "--no-cache"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(env.out.String(), `Root "nope" not found`) {
		t.Errorf("fallback warning missing:\n%s", env.out.String())
	}
	if _, err := os.Stat(filepath.Join(env.dir, "plants.opml")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestConvertUnknownRootStdoutCached(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	for i := range 2 {
		env.out.Reset()
		env.logs.Reset()
		if err := env.run("convert", input, "-r", "nope", "-o", "-"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !strings.Contains(env.logs.String(), "requested root not found") {
			t.Errorf("run %d: fallback warning missing from log:\n%s", i, env.logs.String())
		}
		out := env.out.String()
		if !strings.HasPrefix(out, "<?xml") || strings.Contains(out, "not found") {
			t.Errorf("run %d: stdout should hold only the outline:\n%s", i, out)
		}
	}
}

func TestConvertOddRootIDFallsBack(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("convert", input, "-r", "a\nb", "--no-cache"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(env.out.String(), "not found") {
		t.Errorf("fallback warning missing:\n%s", env.out.String())
	}
}

func TestRootsCommand(t *testing.T) {
	env := newTestEnv(t)
	input := env.write(t, "plants.cxl", plantsCXL)

	if err := env.run("roots", input); err != nil {
		t.Fatalf("roots: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"Plants", "★", "only concept without incoming connections"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Water") {
		t.Errorf("Water is not a candidate:\n%s", out)
	}
}

func TestConvertHelpMentionsNodeCap(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("convert", "--help"); err != nil {
		t.Fatalf("help: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{strconv.Itoa(pipeline.DefaultMaxNodes) + " nodes", "--max-nodes -1"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}
