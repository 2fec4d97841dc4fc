package internal

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmapkit/gmapwire/internal/generator"
	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/internal/parser"
	"github.com/gmapkit/gmapwire/internal/typeinfo"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

const examplePackage = "../examples/staticmap/listeners"

// TestStaticMapExampleIsUpToDate regenerates the example wiring and
// compares it with the checked-in file
func TestStaticMapExampleIsUpToDate(t *testing.T) {
	pkgs, err := typeinfo.NewLoader(".").Load(context.Background(), examplePackage)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	meta, err := parser.NewParser().ParsePackage(pkgs[0])
	require.NoError(t, err)
	require.Len(t, meta.Services, 2)

	metadata := []*models.PackageMetadata{meta}
	container, err := parser.BuildContainer(metadata, wiring.Helpers)
	require.NoError(t, err)

	types := typeinfo.NewResolver(pkgs)
	plan, err := wiring.NewResolver(types, wiring.Options{}).Resolve(container)
	require.NoError(t, err)

	entries := plan.For(wiring.HelperStaticMap)
	require.Len(t, entries, 4)
	assert.Equal(t, wiring.FromListener, entries[0].Source)
	assert.Equal(t, "onMapStaticRender", entries[0].Method)
	for _, entry := range entries[1:] {
		assert.Equal(t, "staticmap.subscriber", entry.ServiceID)
		assert.Equal(t, wiring.FromSubscriber, entry.Source)
	}

	files, err := generator.NewGenerator(types, "").Generate(plan, container, metadata)
	require.NoError(t, err)
	require.Len(t, files, 1)

	checkedIn, err := os.ReadFile(files[0].FilePath)
	require.NoError(t, err)
	assert.Equal(t, strings.Fields(string(checkedIn)), strings.Fields(files[0].Content),
		"examples/staticmap/listeners is stale, run gmapwire ./examples/staticmap/...")
}
