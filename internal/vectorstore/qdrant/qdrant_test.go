package qdrant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeQdrant(t *testing.T) (*httptest.Server, *[]recorded) {
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		assert.Equal(t, "key", r.Header.Get("api-key"))
		if r.URL.Path == "/collections/words/points/search" {
			_, _ = w.Write([]byte(`{"result":[{"score":0.9,"payload":{"word":"bucket"}},{"score":0.4,"payload":{"word":"blob"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	return srv, &calls
}

func TestStorageRoundTrip(t *testing.T) {
	srv, calls := fakeQdrant(t)
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, APIKey: "key", Collection: "words"})
	assert.Equal(t, "words", s.Collection())
	require.NoError(t, s.Init(3))
	require.NoError(t, s.Upsert([]string{"bucket", "blob"}, [][]float64{{1, 0, 0}, {0, 1, 0}}))
	res, err := s.Search([]float64{1, 0, 0}, 2)
	require.NoError(t, err)
	require.NoError(t, s.Clear())

	require.Len(t, res, 2)
	assert.Equal(t, "bucket", res[0].Word)
	assert.InDelta(t, 0.9, res[0].Score, 1e-12)

	require.Len(t, *calls, 4)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/collections/words", (*calls)[0].path)
	assert.Equal(t, "/collections/words/points", (*calls)[1].path)
	points := (*calls)[1].body["points"].([]any)
	first := points[0].(map[string]any)
	assert.Len(t, first["id"], 36)
	assert.Equal(t, http.MethodDelete, (*calls)[3].method)
}

func TestUpsertLengthMismatch(t *testing.T) {
	s := NewStorage(Config{URL: "http://127.0.0.1:0", Collection: "x"})
	assert.Error(t, s.Upsert([]string{"a", "b"}, [][]float64{{1}}))
	assert.Error(t, s.Init(0))
}
