// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package triples

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kgextract/pkg/types"
)

var (
	t1 = types.Triple{Subject: "E1", Predicate: "comention", Object: "E2"}
	t2 = types.Triple{Subject: "E2", Predicate: "agent", Object: "giving"}
	t3 = types.Triple{Subject: "http://dbpedia.org/resource/Rome", Predicate: "theme", Object: "unknown_frame"}
)

func TestSet_AddIsIdempotent(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 2, s.AddAll([]types.Triple{t1, t2}))
	assert.Equal(t, 0, s.AddAll([]types.Triple{t1, t2}))
	assert.False(t, s.Add(t1))
	assert.True(t, s.Add(t3))
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(t2))
}

func TestSet_Merge(t *testing.T) {
	a := NewSet()
	a.AddAll([]types.Triple{t1, t2})
	b := NewSet()
	b.AddAll([]types.Triple{t2, t3})

	assert.Equal(t, 1, a.Merge(b))
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 0, a.Merge(a))
	assert.Equal(t, 0, a.Merge(nil))

	once := NewSet()
	once.Merge(b)
	twice := NewSet()
	twice.Merge(b)
	twice.Merge(b)
	assert.Equal(t, once.Sorted(), twice.Sorted())
}

func TestSet_ConcurrentAdds(t *testing.T) {
	s := NewSet()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddAll([]types.Triple{t1, t2, t3})
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, s.Len())
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet()
	s.AddAll([]types.Triple{t3, t2, t1})
	assert.Equal(t, []types.Triple{t1, t2, t3}, s.Sorted())
}

func TestWriteNTriples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, []types.Triple{t1, t2}))
	assert.Equal(t, "<E1> <comention> <E2>\n<E2> <agent> <giving>\n", buf.String())
}

func TestReadNTriples_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, []types.Triple{t1, t2, t3}))
	buf.WriteString("\n")

	got, err := ReadNTriples(&buf)
	require.NoError(t, err)
	assert.Equal(t, []types.Triple{t1, t2, t3}, got)
}

func TestReadNTriples_Errors(t *testing.T) {
	for _, line := range []string{
		"E1 comention E2",
		"<E1> <comention>",
		"<E1> <comention> <E2",
		"<E1 <comention> <E2>",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ReadNTriples(strings.NewReader(line + "\n"))
			assert.ErrorContains(t, err, "line 1")
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nt")

	s := NewSet()
	s.AddAll([]types.Triple{t2, t1})
	require.NoError(t, WriteFile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<E1> <comention> <E2>\n<E2> <agent> <giving>\n", string(data))

	// No temporary files are left next to the output.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_EmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nt")
	require.NoError(t, WriteFile(path, NewSet()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.nt")
	err := WriteFile(path, NewSet())
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
