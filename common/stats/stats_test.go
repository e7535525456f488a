package stats

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedNames(t *testing.T) {
	stat := DefaultStatsReceiver().(*scopedReceiver)
	assert.Empty(t, stat.scope)

	scoped := stat.Scope("http://h/api", "c").(*scopedReceiver)
	assert.Empty(t, stat.scope)
	assert.Equal(t, []string{"http:_SLASH__SLASH_h_SLASH_api", "c"}, scoped.scope)
	assert.Equal(t, "http:_SLASH__SLASH_h_SLASH_api/c/d", scoped.scopedName("d"))
}

func TestScopedCountersShareRegistry(t *testing.T) {
	stat := DefaultStatsReceiver()
	stat.Scope("dispatcher").Counter(SchedSubmitTaskCounter).Inc(1)
	stat.Counter("dispatcher", SchedSubmitTaskCounter).Inc(2)
	assert.Equal(t, int64(3), stat.Scope("dispatcher").Counter(SchedSubmitTaskCounter).Count())
}

func TestRender(t *testing.T) {
	Time = NewTestTime(time.Unix(0, 0), 5*time.Millisecond)
	defer func() { Time = DefaultStatsTime() }()

	stat := DefaultStatsReceiver()
	stat.Scope("a").Counter("counter").Inc(1)
	stat.Gauge("gauge").Update(2)
	stat.Latency("latency").Time().Stop()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(stat.Scope("elsewhere").Render(true), &out))
	assert.Equal(t, float64(1), out["a/counter"])
	assert.Equal(t, float64(2), out["gauge"])
	assert.Equal(t, float64(1), out["latency.count"])
	assert.Equal(t, float64(5), out["latency.avg"])
	assert.Equal(t, float64(5), out["latency.p99"])
}

func TestConcurrentTimings(t *testing.T) {
	stat := DefaultStatsReceiver()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer stat.Latency("shared").Time().Stop()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(10), stat.Latency("shared").Count())
}

func TestNilReceiver(t *testing.T) {
	stat := NilStatsReceiver()
	stat.Scope("a").Counter("b").Inc(1)
	stat.Latency("c").Time().Stop()
	assert.Equal(t, int64(0), stat.Counter("b").Count())
	assert.Empty(t, stat.Render(false))
}
