package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cmaptree/pkg/observability"
)

const plantsCXL = `<?xml version="1.0" encoding="UTF-8"?>
<cmap xmlns="http://cmap.ihmc.us/xml/cmap/" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <res-meta>
    <dc:title>Plant Biology</dc:title>
  </res-meta>
  <map>
    <concept-list>
      <concept id="A" label="Plants"/>
      <concept id="B" label="Water"/>
      <concept id="C" label="Sun/Light"/>
    </concept-list>
    <linking-phrase-list>
      <linking-phrase id="P" label="require"/>
      <linking-phrase id="Q" label="evaporates"/>
    </linking-phrase-list>
    <connection-list>
      <connection id="c1" from-id="A" to-id="P"/>
      <connection id="c2" from-id="P" to-id="B"/>
      <connection id="c3" from-id="P" to-id="C"/>
      <connection id="c4" from-id="C" to-id="Q"/>
      <connection id="c5" from-id="Q" to-id="B"/>
    </connection-list>
  </map>
</cmap>`

// testEnv isolates a test from the user's config and cache directories and
// captures status output.
type testEnv struct {
	dir  string
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	out := &bytes.Buffer{}
	old := stdout
	stdout = out
	t.Cleanup(func() {
		stdout = old
		observability.Reset()
	})
	return &testEnv{dir: dir, out: out, logs: &bytes.Buffer{}}
}

// write creates a file under the environment directory.
func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args.
func (e *testEnv) run(args ...string) error {
	c := New(e.logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(e.out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}
