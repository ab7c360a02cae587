// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frames

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kgextract/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookup(t *testing.T) {
	table, err := New(map[string][]string{
		"00035718-r": {"giving"},
		"00594989-v": {"commerce_buy", "getting"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"giving"}, table.Lookup("00035718-r"))
	assert.Equal(t, []string{"commerce_buy", "getting"}, table.Lookup("00594989-v"))
	assert.Equal(t, []string{types.UnknownFrame}, table.Lookup("99999999-n"))
	assert.Equal(t, 2, table.Len())
}

func TestLookup_ReturnsCopy(t *testing.T) {
	table, err := New(map[string][]string{"00035718-r": {"giving"}})
	require.NoError(t, err)

	got := table.Lookup("00035718-r")
	got[0] = "mutated"
	assert.Equal(t, []string{"giving"}, table.Lookup("00035718-r"))
}

func TestLookup_NilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, []string{types.UnknownFrame}, table.Lookup("00035718-r"))
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Has("00035718-r"))
}

func TestNew_RejectsEmptyFrames(t *testing.T) {
	_, err := New(map[string][]string{"00035718-r": {}})
	assert.Error(t, err)

	_, err = New(map[string][]string{"00035718-r": {"  "}})
	assert.Error(t, err)

	_, err = New(map[string][]string{"": {"giving"}})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "frames.yaml",
			content: "00035718-r: [giving]\n00594989-v:\n  - commerce_buy\n  - getting\n",
		},
		{
			name:    "json",
			file:    "frames.json",
			content: `{"00035718-r": ["giving"], "00594989-v": ["commerce_buy", "getting"]}`,
		},
		{
			name:    "tsv",
			file:    "frames.tsv",
			content: "# synset\tframes\n00035718-r\tgiving\n\n00594989-v\tcommerce_buy\tgetting\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			table, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, []string{"00035718-r", "00594989-v"}, table.Keys())
			assert.Equal(t, []string{"giving"}, table.Lookup("00035718-r"))
			assert.Equal(t, []string{"commerce_buy", "getting"}, table.Lookup("00594989-v"))
		})
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "frames.yaml", "")
	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "frames.csv", "a,b"))
	assert.ErrorContains(t, err, "unsupported frame table format")

	_, err = Load(writeFile(t, dir, "bad.tsv", "00035718-r\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = Load(writeFile(t, dir, "bad.json", `{"00035718-r": "giving"`))
	assert.Error(t, err)
}
