package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jensdewaard/dist-alg3/src/common"
	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	id    int
	state string
}

func (f *fakeNode) ID() int {
	return f.id
}

func (f *fakeNode) GetStats() map[string]string {
	return map[string]string{
		"id":    strconv.Itoa(f.id),
		"state": f.state,
	}
}

func newTestService(t *testing.T) (*Service, store.Store) {
	s := store.NewInmemStore()
	nodes := []Node{
		&fakeNode{id: 1, state: "Halted"},
		&fakeNode{id: 2, state: "Find"},
	}
	return NewService("", nodes, s, common.NewTestEntry(t, common.TestLogLevel)), s
}

func get(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetStats(t *testing.T) {
	s, _ := newTestService(t)

	rec := get(t, s, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var stats map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "Halted", stats["1"]["state"])
	assert.Equal(t, "Find", stats["2"]["state"])
}

func TestGetNodeStats(t *testing.T) {
	s, _ := newTestService(t)

	rec := get(t, s, "/stats/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "2", stats["id"])

	assert.Equal(t, http.StatusNotFound, get(t, s, "/stats/9").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/stats/abc").Code)
}

func TestGetMST(t *testing.T) {
	s, st := newTestService(t)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/mst").Code)

	e12, err := graph.NewEdge(1, 2, 3)
	require.NoError(t, err)

	started := time.Now()
	_, err = st.AddRun(&store.Run{
		Started:     started,
		Finished:    started.Add(time.Second),
		Order:       2,
		Edges:       []graph.Edge{e12},
		MST:         []graph.Edge{e12},
		TotalWeight: 3,
		Verified:    true,
	})
	require.NoError(t, err)

	rec := get(t, s, "/mst")
	require.Equal(t, http.StatusOK, rec.Code)

	var mst MST
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mst))
	assert.Equal(t, 0, mst.Index)
	assert.Equal(t, []string{"[1, 2] 3"}, mst.Edges)
	assert.Equal(t, int64(3), mst.TotalWeight)
	assert.True(t, mst.Verified)
	assert.Equal(t, "1s", mst.Duration)
}

func TestGetRun(t *testing.T) {
	s, st := newTestService(t)

	_, err := st.AddRun(&store.Run{Order: 1, Verified: true})
	require.NoError(t, err)

	rec := get(t, s, "/run/0")
	require.Equal(t, http.StatusOK, rec.Code)

	var run store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, 1, run.Order)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/run/4").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/run/x").Code)
}
