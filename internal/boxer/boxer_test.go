// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package boxer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kgextract/internal/httputil"
	"github.com/pdiddy/kgextract/pkg/types"
)

const sampleDRS = `{
  "predicates": [
    {"variable": "x1", "token_start": 0, "token_end": 1},
    {"variable": "e1", "token_start": 1, "token_end": 2}
  ],
  "relations": [
    {"arg1": "e1", "arg2": "x1", "symbol": "agent"}
  ]
}`

func TestDecode(t *testing.T) {
	drs, err := Decode([]byte(sampleDRS))
	require.NoError(t, err)
	assert.Equal(t, []types.Predicate{
		{Variable: "x1", TokenStart: 0, TokenEnd: 1},
		{Variable: "e1", TokenStart: 1, TokenEnd: 2},
	}, drs.Predicates)
	assert.Equal(t, []types.Relation{{Arg1: "e1", Arg2: "x1", Symbol: "agent"}}, drs.Relations)
}

func TestDecode_NoRelations(t *testing.T) {
	drs, err := Decode([]byte(`{"predicates": []}`))
	require.NoError(t, err)
	assert.Empty(t, drs.Predicates)
	assert.Empty(t, drs.Relations)
}

func TestDecode_Empty(t *testing.T) {
	for _, body := range []string{"", "  ", "null", "{}"} {
		_, err := Decode([]byte(body))
		assert.ErrorIs(t, err, types.ErrEmptyResult, "body %q", body)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":           `<drs/>`,
		"relations only":     `{"relations": []}`,
		"predicate no var":   `{"predicates": [{"token_start": 0, "token_end": 1}]}`,
		"predicate no end":   `{"predicates": [{"variable": "x1", "token_start": 0}]}`,
		"relation no symbol": `{"predicates": [], "relations": [{"arg1": "x1", "arg2": "x2"}]}`,
		"wrong field type":   `{"predicates": [{"variable": 1, "token_start": 0, "token_end": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.ErrorIs(t, err, types.ErrMalformed)
		})
	}
}

func TestHTTPParser(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Mary smiled .", req.Text)
		w.Write([]byte(sampleDRS))
	}))
	defer ts.Close()

	p, err := NewHTTPParser(httputil.NewClient(ts.Client(), ""), ts.URL)
	require.NoError(t, err)

	drs, err := p.Parse(context.Background(), "Mary smiled .")
	require.NoError(t, err)
	assert.Len(t, drs.Predicates, 2)
}

func TestHTTPParser_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boxer crashed", http.StatusInternalServerError)
	}))
	defer ts.Close()

	p, err := NewHTTPParser(httputil.NewClient(ts.Client(), ""), ts.URL)
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), "Mary smiled .")
	var se *httputil.StatusError
	assert.True(t, errors.As(err, &se))
}

func TestNewHTTPParser_NoURL(t *testing.T) {
	_, err := NewHTTPParser(httputil.NewClient(nil, ""), "")
	assert.Error(t, err)
}

type fakeRuntime struct {
	output string
	err    error
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(context.Context, string) error { return nil }

func (f *fakeRuntime) Run(_ context.Context, _ string, _ []string, stdin io.Reader, stdout io.Writer) error {
	if f.err != nil {
		return f.err
	}
	io.Copy(io.Discard, stdin)
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestContainerParser(t *testing.T) {
	p, err := NewContainerParser(context.Background(), &fakeRuntime{output: sampleDRS}, "boxer:latest", nil)
	require.NoError(t, err)
	drs, err := p.Parse(context.Background(), "Mary smiled .")
	require.NoError(t, err)
	assert.Len(t, drs.Relations, 1)

	p, err = NewContainerParser(context.Background(), &fakeRuntime{output: ""}, "boxer:latest", nil)
	require.NoError(t, err)
	_, err = p.Parse(context.Background(), "Mary smiled .")
	assert.ErrorIs(t, err, types.ErrEmptyResult)
}
