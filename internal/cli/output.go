package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/cmaptree/pkg/errors"
	"github.com/matzehuels/cmaptree/pkg/pipeline"
)

// maxFilenameBytes caps generated file name stems, leaving room for a
// collision suffix and an extension within common 255-byte limits.
const maxFilenameBytes = 100

// outputDirSuffix is appended to the input base name for all-concepts output.
const outputDirSuffix = "_outlines"

// sanitizeFilename turns a concept label into a file name stem. Path
// separators, control characters and characters reserved on common file
// systems become "_", whitespace runs collapse to one space, and the
// result is cut to maxFilenameBytes on a rune boundary. Leading dots are
// dropped so labels never produce hidden files. An unusable label yields
// fallback.
func sanitizeFilename(label, fallback string) string {
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(label), " ") {
		switch {
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	s := strings.TrimLeft(b.String(), ".")
	s = strings.TrimSpace(truncateUTF8(s, maxFilenameBytes))
	if s == "" || strings.Trim(s, "_ ") == "" {
		if fallback == "" || fallback == label {
			return "concept"
		}
		return sanitizeFilename(fallback, "")
	}
	return s
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// nameAllocator hands out unique file name stems. Comparison is
// case-insensitive so outputs stay distinct on case-insensitive file
// systems.
type nameAllocator struct {
	used map[string]bool
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{used: make(map[string]bool)}
}

// next returns stem, or stem_2, stem_3 ... for repeated stems.
func (a *nameAllocator) next(stem string) string {
	name := stem
	for i := 2; a.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d", stem, i)
	}
	a.used[strings.ToLower(name)] = true
	return name
}

// inputBase returns the input path without its extension.
func inputBase(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// singleOutputPath returns the file for one tree in one format. With an
// explicit output and a single format the output is used as given;
// with several formats its known format extension is replaced.
func singleOutputPath(output, input, format string, multi bool) string {
	if output == "" {
		return inputBase(input) + pipeline.Extension(format)
	}
	if !multi {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + pipeline.Extension(format)
}

// allOutputDir returns the directory for all-concepts output.
func allOutputDir(output, input string) string {
	if output != "" {
		return output
	}
	return inputBase(input) + outputDirSuffix
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
