// Package stats is a thin scoped layer over go-metrics. A StatsReceiver is
// handed down the call tree, each component scoping it under its own name,
// and the admin endpoint renders every instrument as one flat JSON object.
//
// Original license: github.com/rcrowley/go-metrics/blob/master/LICENSE
package stats

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// For testing.
var Time StatsTime = DefaultStatsTime()

// Latencies are captured in nanoseconds and rendered in this unit.
const LatencyUnit = time.Millisecond

// Scope separator. Name elements are scrubbed of it since some are built
// from endpoints.
const (
	separator = "/"
	scrubbed  = "_SLASH_"
)

type StatsReceiver interface {
	// Return a stats receiver that namespaces every instrument under scope.
	//
	//   stat.Scope("dispatcher").Counter("submitTaskCounter")  // is equivalent to
	//   stat.Counter("dispatcher", "submitTaskCounter")
	//
	Scope(scope ...string) StatsReceiver

	Counter(name ...string) Counter

	Gauge(name ...string) Gauge

	Latency(name ...string) Latency

	// Render every instrument of the underlying registry, whatever the scope.
	Render(pretty bool) []byte
}

// DefaultStatsReceiver starts a fresh registry.
func DefaultStatsReceiver() StatsReceiver {
	return &scopedReceiver{registry: metrics.NewRegistry()}
}

type scopedReceiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *scopedReceiver) Scope(scope ...string) StatsReceiver {
	return &scopedReceiver{registry: s.registry, scope: s.scoped(scope...)}
}

func (s *scopedReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), newCounter).(Counter)
}

func (s *scopedReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scopedName(name...), newGauge).(Gauge)
}

func (s *scopedReceiver) Latency(name ...string) Latency {
	return s.registry.GetOrRegister(s.scopedName(name...), newLatency()).(Latency)
}

func (s *scopedReceiver) Render(pretty bool) []byte {
	data := flatten(s.registry)
	var bytes []byte
	var err error
	if pretty {
		bytes, err = json.MarshalIndent(data, "", "  ")
	} else {
		bytes, err = json.Marshal(data)
	}
	if err != nil {
		log.Errorf("Rendering stats: %v", err)
		return []byte("{}")
	}
	return bytes
}

func (s *scopedReceiver) scoped(scope ...string) []string {
	out := make([]string, 0, len(s.scope)+len(scope))
	out = append(out, s.scope...)
	for _, sc := range scope {
		out = append(out, strings.Replace(sc, separator, scrubbed, -1))
	}
	return out
}

func (s *scopedReceiver) scopedName(name ...string) string {
	return strings.Join(s.scoped(name...), separator)
}

// NilStatsReceiver ignores all stats operations.
func NilStatsReceiver() StatsReceiver {
	return nilReceiver{}
}

type nilReceiver struct{}

func (nilReceiver) Scope(...string) StatsReceiver { return nilReceiver{} }
func (nilReceiver) Counter(...string) Counter     { return &counter{metrics.NilCounter{}} }
func (nilReceiver) Gauge(...string) Gauge         { return &gauge{metrics.NilGauge{}} }
func (nilReceiver) Latency(...string) Latency     { return &latency{Histogram: metrics.NilHistogram{}} }
func (nilReceiver) Render(bool) []byte            { return []byte{} }

type Counter interface {
	Count() int64
	Inc(int64)
}

type counter struct{ metrics.Counter }

func newCounter() Counter { return &counter{metrics.NewCounter()} }

type Gauge interface {
	Update(int64)
	Value() int64
}

type gauge struct{ metrics.Gauge }

func newGauge() Gauge { return &gauge{metrics.NewGauge()} }

// Latency times a callsite into a histogram. Time returns a separate timing
// so concurrent callers may share one instrument.
//
//   defer stat.Latency(RemoteRequestLatency_ms).Time().Stop()
//
type Latency interface {
	Time() Latency
	Stop()
	Count() int64
}

type latency struct {
	metrics.Histogram
	start time.Time
}

func newLatency() Latency {
	return &latency{Histogram: metrics.NewHistogram(metrics.NewUniformSample(1000))}
}

func (l *latency) Time() Latency { return &latency{Histogram: l.Histogram, start: Time.Now()} }
func (l *latency) Stop()         { l.Update(Time.Since(l.start).Nanoseconds()) }

var percentiles = []float64{0.5, 0.9, 0.99}
var percentileLabels = []string{"p50", "p90", "p99"}

// flatten renders counters and gauges by name, and each latency as a set of
// name.stat entries in LatencyUnit.
func flatten(r metrics.Registry) map[string]interface{} {
	data := make(map[string]interface{})
	r.Each(func(name string, i interface{}) {
		switch stat := i.(type) {
		case Counter:
			data[name] = stat.Count()
		case Gauge:
			data[name] = stat.Value()
		case *latency:
			h := stat.Snapshot()
			unit := float64(LatencyUnit)
			data[name+".count"] = h.Count()
			data[name+".avg"] = h.Mean() / unit
			data[name+".max"] = float64(h.Max()) / unit
			for i, p := range h.Percentiles(percentiles) {
				data[name+"."+percentileLabels[i]] = p / unit
			}
		default:
			log.Infof("Unrecognized instrument %s: %T", name, i)
		}
	})
	return data
}
