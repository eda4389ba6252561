package main

import (
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSourcesAreFormatted keeps every Go file in gofmt layout, including
// struct fields aligned around interior comments.
func TestSourcesAreFormatted(t *testing.T) {
	tests := []struct {
		name string
		root string
	}{
		{name: "commands", root: "cmd"},
		{name: "internal packages", root: "internal"},
		{name: "entry point", root: "main.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []string
			err := filepath.WalkDir(tt.root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() && path != tt.root && strings.HasPrefix(d.Name(), "_") {
					return filepath.SkipDir
				}
				if !d.IsDir() && strings.HasSuffix(path, ".go") {
					files = append(files, path)
				}
				return nil
			})
			require.NoError(t, err)
			require.NotEmpty(t, files)

			for _, path := range files {
				src, err := os.ReadFile(path)
				require.NoError(t, err)
				formatted, err := format.Source(src)
				require.NoError(t, err, path)
				assert.Equal(t, string(formatted), string(src), "%s is not gofmt formatted", path)
			}
		})
	}
}
