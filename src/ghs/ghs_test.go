package ghs

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	gonet "net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jensdewaard/dist-alg3/src/common"
	"github.com/jensdewaard/dist-alg3/src/config"
	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/peers"
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringGraph = `# four vertices on a ring with one chord
4
1 2 1
2 3 3
3 4 5
1 4 2
1 3 9
`

func testConfig(t *testing.T) *config.Config {
	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.Seed = 42
	return conf
}

func newEngine(t *testing.T, conf *config.Config) *GHS {
	engine := NewGHS(conf)
	require.NoError(t, engine.Init())
	t.Cleanup(engine.Shutdown)
	return engine
}

func TestRunRingGraph(t *testing.T) {
	gr, err := graph.Parse(strings.NewReader(ringGraph))
	require.NoError(t, err)

	conf := testConfig(t)
	engine := NewGHS(conf)
	engine.SetGraph(gr)
	require.NoError(t, engine.Init())
	defer engine.Shutdown()

	run, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, run.Verified)
	assert.Equal(t, graph.Kruskal(gr), run.MST)
	assert.Equal(t, int64(6), run.TotalWeight)
	require.Len(t, run.Nodes, 4)
	for _, s := range run.Nodes {
		assert.Equal(t, "Halted", s.State, "node %d", s.ID)
		assert.Empty(t, s.Error)
	}

	last, err := engine.Store.LastRun()
	require.NoError(t, err)
	assert.Equal(t, run.MST, last.MST)
}

func TestRunRandomGraphs(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			conf := testConfig(t)
			conf.Seed = seed
			conf.Vertices = 12
			conf.ExtraEdges = 25
			conf.MaxDelay = 2 * time.Millisecond

			engine := newEngine(t, conf)

			run, err := engine.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, run.Verified)
			assert.Len(t, run.MST, 11)
			assert.Equal(t, graph.TotalWeight(graph.Kruskal(engine.Graph)), run.TotalWeight)
		})
	}
}

func TestRunWakeAll(t *testing.T) {
	conf := testConfig(t)
	conf.Vertices = 8
	conf.WakeAll = true

	engine := newEngine(t, conf)

	run, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, run.Verified)
}

func TestRunSingleVertex(t *testing.T) {
	conf := testConfig(t)
	conf.Vertices = 1

	engine := newEngine(t, conf)

	run, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, run.Verified)
	assert.Empty(t, run.MST)
}

func TestRunCancelledContext(t *testing.T) {
	engine := newEngine(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, engine.Store.LastRunIndex())
}

func TestInitGraphFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_graph")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, config.DefaultGraphFile)
	require.NoError(t, ioutil.WriteFile(path, []byte(ringGraph), 0600))

	conf := testConfig(t)
	conf.SetDataDir(dir)
	conf.GraphFile = config.DefaultGraphFile

	engine := newEngine(t, conf)
	assert.Equal(t, 4, engine.Graph.Order())
	assert.Len(t, engine.Nodes, 4)

	conf = testConfig(t)
	conf.GraphFile = filepath.Join(dir, "missing.txt")
	assert.Error(t, NewGHS(conf).Init())
}

func TestRunBadgerStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_badger")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	conf := testConfig(t)
	conf.Vertices = 6
	conf.Store = true
	conf.DatabaseDir = filepath.Join(dir, config.DefaultBadgerFile)

	engine := NewGHS(conf)
	require.NoError(t, engine.Init())

	run, err := engine.Run(context.Background())
	require.NoError(t, err)
	engine.Shutdown()

	s, err := store.NewBadgerStore(conf.DatabaseDir, common.NewTestEntry(t, common.TestLogLevel))
	require.NoError(t, err)
	defer s.Close()

	last, err := s.LastRun()
	require.NoError(t, err)
	assert.Equal(t, run.MST, last.MST)
	assert.True(t, last.Verified)
}

func TestRunService(t *testing.T) {
	conf := testConfig(t)
	conf.Vertices = 5
	conf.NoService = false
	conf.ServiceAddr = freeAddr(t)

	engine := newEngine(t, conf)
	require.NotNil(t, engine.Service)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	engine.Service.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 5)
	for id, s := range stats {
		assert.Equal(t, "Halted", s["state"], "node %s", id)
	}
}

func TestInitNodeRequiresSeed(t *testing.T) {
	conf := testConfig(t)
	conf.Seed = 0
	conf.NodeID = 1

	assert.ErrorIs(t, NewGHS(conf).InitNode(), ErrNoSeed)
}

func TestRunNodesOverTCP(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_tcp")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	gr, err := graph.Parse(strings.NewReader(ringGraph))
	require.NoError(t, err)

	ps := []*peers.Peer{}
	for _, id := range gr.Vertices() {
		ps = append(ps, peers.NewPeer(id, freeAddr(t), ""))
	}
	require.NoError(t, peers.NewJSONPeers(dir).Write(ps))

	engines := []*GHS{}
	for _, id := range gr.Vertices() {
		conf := testConfig(t)
		conf.SetDataDir(dir)
		conf.NodeID = id
		conf.WakeAll = true

		engine := NewGHS(conf)
		engine.SetGraph(gr)
		require.NoError(t, engine.InitNode())
		engines = append(engines, engine)
	}

	runs := make([]*store.Run, len(engines))
	errs := make([]error, len(engines))

	var wg sync.WaitGroup
	for i, e := range engines {
		wg.Add(1)
		go func(i int, e *GHS) {
			defer wg.Done()
			runs[i], errs[i] = e.Run(context.Background())
		}(i, e)
	}
	wg.Wait()

	for _, e := range engines {
		e.Shutdown()
	}

	union := make(map[graph.Edge]bool)
	for i, run := range runs {
		require.NoError(t, errs[i], "node %d", i+1)
		assert.True(t, run.Verified, "node %d", i+1)
		for _, e := range run.MST {
			union[e] = true
		}
	}

	expected := graph.Kruskal(gr)
	assert.Len(t, union, len(expected))
	for _, e := range expected {
		assert.True(t, union[e], "missing %v", e)
	}
}

func freeAddr(t *testing.T) string {
	l, err := gonet.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}
