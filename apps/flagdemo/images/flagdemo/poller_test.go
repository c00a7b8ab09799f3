package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagops/demo-infra-definitions/flagconfig"
)

func pollerForServer(srv *httptest.Server) *Poller {
	return NewPoller(srv.URL, "flagdemo", "dev", "app-config", time.Minute)
}

func TestPollerFetchesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications/flagdemo/environments/dev/configurations/app-config", r.URL.Path)
		_, _ = w.Write([]byte(`{"featureXEnabled": true, "maxUsers": 7}`))
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	p.poll(context.Background())

	doc := p.Current()
	assert.True(t, doc.FeatureXEnabled)
	assert.Equal(t, 7, doc.MaxUsers)
	// Keys missing from the payload fall back to the defaults.
	assert.Equal(t, "https://api.example.com", doc.APIURL)

	fetchedAt, lastErr := p.Status()
	require.NoError(t, lastErr)
	assert.False(t, fetchedAt.IsZero())
}

func TestPollerMergesIntoCurrentDocument(t *testing.T) {
	payload := atomic.Value{}
	payload.Store(`{"featureXEnabled": true, "apiUrl": "https://custom.example"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload.Load().(string)))
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	p.poll(context.Background())
	require.Equal(t, "https://custom.example", p.Current().APIURL)

	// A later version that drops a key keeps the previously fetched value.
	payload.Store(`{"featureXEnabled": true}`)
	p.poll(context.Background())

	doc := p.Current()
	assert.True(t, doc.FeatureXEnabled)
	assert.Equal(t, "https://custom.example", doc.APIURL)
}

func TestPollerKeepsLastGoodValue(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"featureXEnabled": true, "maxUsers": 7}`))
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	p.poll(context.Background())
	require.True(t, p.Current().FeatureXEnabled)

	failing.Store(true)
	p.poll(context.Background())

	doc := p.Current()
	assert.True(t, doc.FeatureXEnabled, "last good document survives a failed poll")
	assert.Equal(t, 7, doc.MaxUsers)

	_, lastErr := p.Status()
	assert.Error(t, lastErr)
}

func TestPollerIgnoresMalformedPayload(t *testing.T) {
	payload := atomic.Value{}
	payload.Store(`{"featureXEnabled": true}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload.Load().(string)))
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	p.poll(context.Background())
	require.True(t, p.Current().FeatureXEnabled)

	payload.Store(`["not", "an", "object"]`)
	p.poll(context.Background())

	assert.True(t, p.Current().FeatureXEnabled)
	_, lastErr := p.Status()
	assert.Error(t, lastErr)
}

func TestPollerNotModified(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"featureXEnabled": true}`))
			return
		}
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	p.poll(context.Background())
	p.poll(context.Background())

	assert.True(t, p.Current().FeatureXEnabled)
	_, lastErr := p.Status()
	assert.NoError(t, lastErr)
}

func TestPollerDefaultsBeforeFirstFetch(t *testing.T) {
	p := NewPoller("http://localhost:2772", "flagdemo", "dev", "app-config", time.Minute)

	doc := p.Current()
	assert.Equal(t, flagconfig.Default(), doc)
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := pollerForServer(srv)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
