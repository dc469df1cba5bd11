package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/scoring"
)

func writeProblemDir(t *testing.T, root string, id string, manifest string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problem.toml"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.md"), []byte("# "+id+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "001.in"), []byte("1 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "001.ans"), []byte("3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "002.in"), []byte("4 5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "002.ans"), []byte("9\n"), 0o644))
}

const haybalesManifest = `
title = "Haybale Stacking"
tier = "bronze"
cpu_ms = 2000
mem_kib = 262144
`

func TestLoadDirReadsProblems(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeProblemDir(t, root, "haybales", haybalesManifest)
	hintDir := filepath.Join(root, "haybales", "hints")
	require.NoError(t, os.MkdirAll(hintDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hintDir, "level_1.md"), []byte("use prefix sums"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(hintDir, "level_2.md"), []byte("difference array"), 0o644))

	problems, err := catalog.LoadDir(root, catalog.LoadDirOpts{})
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, "haybales", p.ID)
	assert.Equal(t, "Haybale Stacking", p.Title)
	assert.Equal(t, scoring.TierBronze, p.Tier)
	assert.Equal(t, 2000, p.CpuMs)
	assert.Equal(t, 262144, p.MemKiB)
	assert.Equal(t, "# haybales\n", p.StatementMd)
	require.Len(t, p.Tests, 2)
	require.NotNil(t, p.Tests[0].InContent)
	assert.Equal(t, "1 2\n", *p.Tests[0].InContent)
	require.NotNil(t, p.Tests[0].AnsContent)
	assert.Equal(t, "3\n", *p.Tests[0].AnsContent)
	require.NotNil(t, p.Tests[0].InSha256)
	assert.Len(t, *p.Tests[0].InSha256, 64)
	assert.Equal(t, map[int]string{1: "use prefix sums", 2: "difference array"}, p.Hints)
}

func TestLoadDirAssetURLMode(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeProblemDir(t, root, "haybales", haybalesManifest)

	problems, err := catalog.LoadDir(root, catalog.LoadDirOpts{
		AssetURLBase: "https://assets.example.com/problems/",
	})
	require.NoError(t, err)
	require.Len(t, problems, 1)

	tst := problems[0].Tests[0]
	assert.Nil(t, tst.InContent)
	assert.Nil(t, tst.AnsContent)
	require.NotNil(t, tst.InURL)
	assert.Equal(t, "https://assets.example.com/problems/haybales/tests/001.in", *tst.InURL)
	require.NotNil(t, tst.AnsURL)
	assert.Equal(t, "https://assets.example.com/problems/haybales/tests/001.ans", *tst.AnsURL)
	require.NotNil(t, tst.InSha256)
}

func TestLoadDirRejectsUnknownTier(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeProblemDir(t, root, "haybales", `
title = "Haybale Stacking"
tier = "diamond"
cpu_ms = 1000
mem_kib = 65536
`)

	_, err := catalog.LoadDir(root, catalog.LoadDirOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}

func TestLoadDirSortsByID(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeProblemDir(t, root, "zebra-crossing", haybalesManifest)
	writeProblemDir(t, root, "apple-division", haybalesManifest)

	problems, err := catalog.LoadDir(root, catalog.LoadDirOpts{})
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, "apple-division", problems[0].ID)
	assert.Equal(t, "zebra-crossing", problems[1].ID)
}

func TestInMemCatalogLookup(t *testing.T) {
	t.Parallel()
	c := catalog.NewInMemCatalog([]catalog.Problem{
		{ID: "haybales", Title: "Haybale Stacking", Tier: scoring.TierBronze},
		{ID: "fence-paint", Title: "Fence Painting", Tier: scoring.TierSilver},
	})

	p, err := c.Get("haybales")
	require.NoError(t, err)
	assert.Equal(t, "Haybale Stacking", p.Title)

	assert.True(t, c.Exists("fence-paint"))
	assert.False(t, c.Exists("nonexistent"))

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "haybales", list[0].ID)

	_, err = c.Get("nonexistent")
	require.Error(t, err)
}
