package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("returns metadata for a known isbn", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get", r.URL.Path)
			assert.Equal(t, "9784101010014", r.URL.Query().Get("isbn"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"summary":{"isbn":"9784101010014","title":"こころ","author":"夏目漱石","pubdate":"1952-02-02","cover":"https://cover.openbd.jp/9784101010014.jpg"}}]`))
		}))
		t.Cleanup(srv.Close)

		client := NewClientWithBaseURL(srv.URL)
		meta, err := client.Lookup(ctx, "9784101010014")
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, "こころ", meta.Title)
		assert.Equal(t, "夏目漱石", meta.Author)
		assert.Equal(t, "1952-02-02", meta.PublishDate)
		assert.Equal(t, "https://cover.openbd.jp/9784101010014.jpg", meta.CoverURL)
	})

	t.Run("returns nil for an unknown isbn", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[null]`))
		}))
		t.Cleanup(srv.Close)

		client := NewClientWithBaseURL(srv.URL)
		meta, err := client.Lookup(ctx, "0000000000000")
		require.NoError(t, err)
		assert.Nil(t, meta)
	})

	t.Run("errors on a non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client := NewClientWithBaseURL(srv.URL)
		_, err := client.Lookup(ctx, "9784101010014")
		assert.Error(t, err)
	})
}
