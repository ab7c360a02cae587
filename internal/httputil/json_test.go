// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBody struct {
	Text string `json:"text"`
}

func TestPostJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "kgextract/test", r.Header.Get("User-Agent"))

		var in echoBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoBody{Text: "got " + in.Text})
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "kgextract/test")
	var out echoBody
	require.NoError(t, c.PostJSON(context.Background(), ts.URL, echoBody{Text: "hi"}, &out))
	assert.Equal(t, "got hi", out.Text)
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer ts.Close()

	var out echoBody
	require.NoError(t, NewClient(ts.Client(), "").GetJSON(context.Background(), ts.URL, &out))
	assert.Equal(t, "ok", out.Text)
}

func TestBearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "")
	c.Token = "s3cret"
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, nil))
}

func TestStatusError_NoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	err := NewClient(ts.Client(), "").GetJSON(context.Background(), ts.URL+"?key=secret", nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "slow down", se.Body)
	assert.NotContains(t, err.Error(), "secret")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	var out echoBody
	err := NewClient(ts.Client(), "").GetJSON(context.Background(), ts.URL, &out)
	assert.ErrorContains(t, err, "decoding response")
}

func TestContextTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClient(ts.Client(), "").GetJSON(ctx, ts.URL, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
