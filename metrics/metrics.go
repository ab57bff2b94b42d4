// Package metrics counts window iterator events and exports them to Prometheus.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/window"
)

// Statistics field constants
const (
	PulledCount     = "pulled_count"
	EmittedCount    = "emitted_count"
	FilteredCount   = "filtered_count"
	ExpansionCount  = "expansion_count"
	HeapHighWater   = "heap_high_water"
	PullsPerRange   = "pulls_per_range"
	FilterRate      = "filter_rate"
	BasicStats      = "basic_stats"
	metricNamespace = "groupbytime"
)

// StatsCollector counts iterator events.
// Counters are atomic, so one collector may observe several iterators.
type StatsCollector struct {
	pulledCount    int64
	emittedCount   int64
	filteredCount  int64
	expansionCount int64
	heapHighWater  int64
}

// NewStatsCollector creates a new statistics collector
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Observer returns iterator handlers feeding this collector
func (sc *StatsCollector) Observer() window.Observer {
	return window.Observer{
		PullHandler:   func(types.TimeRange) { sc.IncrementPulled() },
		EmitHandler:   func(types.TimeRange) { sc.IncrementEmitted() },
		ExpandHandler: sc.ObserveHeapSize,
	}
}

// IncrementPulled increments the count of raw windows pulled into a boundary heap
func (sc *StatsCollector) IncrementPulled() {
	atomic.AddInt64(&sc.pulledCount, 1)
}

// IncrementEmitted increments the count of ranges returned by iterators
func (sc *StatsCollector) IncrementEmitted() {
	atomic.AddInt64(&sc.emittedCount, 1)
}

// IncrementFiltered increments the count of ranges rejected by a range filter
func (sc *StatsCollector) IncrementFiltered() {
	atomic.AddInt64(&sc.filteredCount, 1)
}

// ObserveHeapSize records a heap expansion and raises the high-water mark
func (sc *StatsCollector) ObserveHeapSize(size int) {
	atomic.AddInt64(&sc.expansionCount, 1)
	n := int64(size)
	for {
		cur := atomic.LoadInt64(&sc.heapHighWater)
		if n <= cur || atomic.CompareAndSwapInt64(&sc.heapHighWater, cur, n) {
			return
		}
	}
}

// GetPulledCount gets the pulled window count
func (sc *StatsCollector) GetPulledCount() int64 {
	return atomic.LoadInt64(&sc.pulledCount)
}

// GetEmittedCount gets the emitted range count
func (sc *StatsCollector) GetEmittedCount() int64 {
	return atomic.LoadInt64(&sc.emittedCount)
}

// GetFilteredCount gets the filtered range count
func (sc *StatsCollector) GetFilteredCount() int64 {
	return atomic.LoadInt64(&sc.filteredCount)
}

// GetExpansionCount gets the number of heap expansions
func (sc *StatsCollector) GetExpansionCount() int64 {
	return atomic.LoadInt64(&sc.expansionCount)
}

// GetHeapHighWater gets the largest heap size observed after an expansion
func (sc *StatsCollector) GetHeapHighWater() int64 {
	return atomic.LoadInt64(&sc.heapHighWater)
}

// Reset resets statistics information
func (sc *StatsCollector) Reset() {
	atomic.StoreInt64(&sc.pulledCount, 0)
	atomic.StoreInt64(&sc.emittedCount, 0)
	atomic.StoreInt64(&sc.filteredCount, 0)
	atomic.StoreInt64(&sc.expansionCount, 0)
	atomic.StoreInt64(&sc.heapHighWater, 0)
}

// GetBasicStats gets basic statistics information
func (sc *StatsCollector) GetBasicStats() map[string]int64 {
	return map[string]int64{
		PulledCount:    sc.GetPulledCount(),
		EmittedCount:   sc.GetEmittedCount(),
		FilteredCount:  sc.GetFilteredCount(),
		ExpansionCount: sc.GetExpansionCount(),
		HeapHighWater:  sc.GetHeapHighWater(),
	}
}

// GetDetailedStats adds derived ratios to the basic statistics
func (sc *StatsCollector) GetDetailedStats() map[string]interface{} {
	basicStats := sc.GetBasicStats()

	var pullsPerRange, filterRate float64
	if emitted := basicStats[EmittedCount]; emitted > 0 {
		pullsPerRange = float64(basicStats[PulledCount]) / float64(emitted)
		filterRate = float64(basicStats[FilteredCount]) / float64(emitted) * 100
	}

	return map[string]interface{}{
		BasicStats:    basicStats,
		PullsPerRange: pullsPerRange,
		FilterRate:    filterRate,
	}
}

// Register exports the counters to reg. constLabels tell apart collectors registered
// on the same registry.
func (sc *StatsCollector) Register(reg prometheus.Registerer, constLabels prometheus.Labels) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "windows_pulled_total",
			Help:        "Total number of raw windows pulled into pre-aggregation boundary heaps.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(sc.GetPulledCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "ranges_emitted_total",
			Help:        "Total number of time ranges returned by iterators.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(sc.GetEmittedCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "ranges_filtered_total",
			Help:        "Total number of time ranges rejected by range filters.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(sc.GetFilteredCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "heap_expansions_total",
			Help:        "Total number of boundary heap expansions.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(sc.GetExpansionCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "heap_high_water",
			Help:        "Largest boundary heap size observed after an expansion.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(sc.GetHeapHighWater()) }),
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			// leave reg as it was
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			return err
		}
	}
	return nil
}
