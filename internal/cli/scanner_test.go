package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmapkit/gmapwire/internal/templates"
)

const generatedStub = templates.GeneratedHeader + "\n\npackage listeners\n\nfunc RegisterHelperListeners() {}\n"

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDirectoryScanner_Patterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"maps/maps.go": "package maps\n"})

	scanner := NewDirectoryScanner()
	patterns, err := scanner.Patterns([]string{root + "/...", filepath.Join(root, "maps")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.ToSlash(root) + "/...",
		filepath.ToSlash(filepath.Join(root, "maps")),
	}, patterns)

	_, err = scanner.Patterns([]string{filepath.Join(root, "missing")})
	assert.ErrorContains(t, err, "failed to stat file")

	_, err = scanner.Patterns([]string{filepath.Join(root, "maps", "maps.go")})
	assert.ErrorContains(t, err, "is not a directory")
}

func TestDirectoryScanner_GeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"listeners/autogen_listeners.go":        generatedStub,
		"listeners/nested/autogen_listeners.go": generatedStub,
		"handwritten/autogen_listeners.go":      "package handwritten\n",
		"vendor/dep/autogen_listeners.go":       generatedStub,
		"testdata/autogen_listeners.go":         generatedStub,
		"other/listeners_gen.go":                generatedStub,
	})

	scanner := NewDirectoryScanner()

	found, err := scanner.GeneratedFiles([]string{root + "/..."}, "autogen_listeners.go")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "listeners", "autogen_listeners.go"),
		filepath.Join(root, "listeners", "nested", "autogen_listeners.go"),
	}, found)

	found, err = scanner.GeneratedFiles([]string{filepath.Join(root, "listeners")}, "autogen_listeners.go")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "listeners", "autogen_listeners.go")}, found)

	found, err = scanner.GeneratedFiles([]string{root + "/..."}, "listeners_gen.go")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "other", "listeners_gen.go")}, found)
}

func TestDirectoryScanner_StubOverlay(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"listeners/autogen_listeners.go": generatedStub})
	path := filepath.Join(root, "listeners", "autogen_listeners.go")

	overlay := NewDirectoryScanner().StubOverlay([]string{path, filepath.Join(root, "missing.go")})
	require.Len(t, overlay, 1)
	assert.Equal(t, templates.GeneratedHeader+"\n\npackage listeners\n", string(overlay[path]))
}

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"listeners/autogen_listeners.go":   generatedStub,
		"handwritten/autogen_listeners.go": "package handwritten\n",
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."}, "autogen_listeners.go")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "listeners", "autogen_listeners.go")}, removed)

	assert.NoFileExists(t, filepath.Join(root, "listeners", "autogen_listeners.go"))
	assert.FileExists(t, filepath.Join(root, "handwritten", "autogen_listeners.go"))
}
