package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSources creates a few source files in a temp dir
func writeSources(t *testing.T) (dir string, files map[string]string) {
	t.Helper()

	dir = t.TempDir()
	files = map[string]string{
		"greet.ts":      "/** Says hi. */\nexport default function greet(name: string) {}\n",
		"Toggle.svelte": "<script>\n  export let open = false;\n</script>\n<slot name=\"header\"/>\n",
		"unicode.ts":    "/** Grüße 🌍 */\nexport const hello = 'こんにちは';\n",
		"empty.ts":      "",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir, files
}

func TestSourceCache_AcquireRelease(t *testing.T) {
	dir, files := writeSources(t)
	sc := NewSourceCache(&SourceCacheConfig{Logger: NewDiscardLogger()})
	defer sc.Close()

	for name, content := range files {
		path := filepath.Join(dir, name)
		mf, err := sc.Acquire(path)
		require.NoError(t, err, name)
		assert.Equal(t, content, string(mf.Bytes()), name)
		assert.Equal(t, int64(len(content)), mf.Size, name)
		require.NoError(t, sc.Release(path), name)
	}

	assert.Equal(t, 0, sc.Size())
	stats := sc.Stats()
	assert.Equal(t, int64(3), stats.FilesMapped+stats.Fallbacks)
}

func TestSourceCache_SharedMapping(t *testing.T) {
	dir, _ := writeSources(t)
	path := filepath.Join(dir, "greet.ts")

	sc := NewSourceCache(nil)
	defer sc.Close()

	first, err := sc.Acquire(path)
	require.NoError(t, err)
	second, err := sc.Acquire(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), sc.Stats().SharedHits)

	require.NoError(t, sc.Release(path))
	assert.Equal(t, 1, sc.Size())
	require.NoError(t, sc.Release(path))
	assert.Equal(t, 0, sc.Size())

	assert.Error(t, sc.Release(path))
}

func TestSourceCache_Limit(t *testing.T) {
	dir, _ := writeSources(t)
	sc := NewSourceCache(&SourceCacheConfig{MaxOpenFiles: 1})
	defer sc.Close()

	_, err := sc.Acquire(filepath.Join(dir, "greet.ts"))
	require.NoError(t, err)

	_, err = sc.Acquire(filepath.Join(dir, "unicode.ts"))
	assert.ErrorContains(t, err, "limit reached")
}

func TestSourceCache_Errors(t *testing.T) {
	dir, _ := writeSources(t)
	sc := NewSourceCache(nil)
	defer sc.Close()

	_, err := sc.Acquire(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)

	_, err = sc.Acquire(dir)
	assert.ErrorContains(t, err, "directory")
}

func TestSourceCache_Concurrent(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		p := filepath.Join(dir, fmt.Sprintf("m%d.ts", i))
		require.NoError(t, os.WriteFile(p, []byte(fmt.Sprintf("export const v%d = %d;\n", i, i)), 0o644))
		paths = append(paths, p)
	}

	sc := NewSourceCache(nil)
	defer sc.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range paths {
				mf, err := sc.Acquire(p)
				if !assert.NoError(t, err) {
					return
				}
				assert.Contains(t, string(mf.Bytes()), fmt.Sprintf("v%d", i))
				assert.NoError(t, sc.Release(p))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, sc.Size())
}
