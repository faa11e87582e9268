package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries"
	"github.com/gnana997/extractinator/pkg/util"
)

func newExtractor(t *testing.T) *extractor.Extractor {
	t.Helper()
	pm := parser.NewParserManager(util.NewDiscardLogger())
	qm := queries.NewQueryManager(pm, util.NewDiscardLogger())
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return extractor.NewExtractor(pm, qm, extractor.DefaultOptions(), nil)
}

func TestCache_GetPut(t *testing.T) {
	c, err := New(Config{}, util.NewDiscardLogger())
	require.NoError(t, err)

	src := []byte("export const a = 1;")
	_, ok := c.Get("/a.ts", src)
	assert.False(t, ok)

	res := extractor.Result{File: &ir.ModuleFile{FileInfo: ir.FileInfo{FileName: "a.ts", FilePath: "/a.ts"}}}
	c.Put("/a.ts", src, res)

	got, ok := c.Get("/a.ts", src)
	require.True(t, ok)
	assert.Equal(t, res, got)

	_, ok = c.Get("/a.ts", []byte("export const a = 2;"))
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Stale)

	c.Invalidate("/a.ts")
	assert.Equal(t, 0, c.Len())
}

func TestCache_Eviction(t *testing.T) {
	c, err := New(Config{Size: 2}, util.NewDiscardLogger())
	require.NoError(t, err)

	for _, p := range []string{"/a.ts", "/b.ts", "/c.ts"} {
		c.Put(p, []byte(p), extractor.Result{})
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)

	_, ok := c.Get("/a.ts", []byte("/a.ts"))
	assert.False(t, ok)
}

func TestCache_Extract(t *testing.T) {
	c, err := New(Config{Size: 10}, util.NewDiscardLogger())
	require.NoError(t, err)
	x := newExtractor(t)

	src := []byte("export const a = 1;")
	first := c.Extract(x, "/virtual/a.ts", src)
	require.NoError(t, first.Err)
	second := c.Extract(x, "/virtual/a.ts", src)

	assert.Same(t, first.File, second.File)
	assert.Equal(t, int64(1), c.Stats().Hits)
}
