/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package window

import (
	"fmt"

	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/queue"
)

// Ensure PreAggrWindowIterator implements the TimeRangeIterator interface
var _ TimeRangeIterator = (*PreAggrWindowIterator)(nil)

// endBounder is implemented by base iterators whose window ends are not monotonic in
// the window start
type endBounder interface {
	maxEndUpTo(w types.TimeRange) int64
}

// PreAggrWindowIterator merges the boundaries of the (possibly overlapping, possibly
// month-sized) raw windows of an AggrWindowIterator into contiguous, non-overlapping
// sub-ranges, so that every pre-aggregated statistic block is matched at most once.
// Coincident boundaries are merged, and every raw window is the union of consecutive
// sub-ranges.
//
// The boundary heap holds at most heapMaxSize boundaries after every expansion when
// 2*ceil(interval/slidingStep)+2 <= heapMaxSize. Otherwise it grows as far as needed
// to keep the emitted ranges exact, and each forced growth is logged.
type PreAggrWindowIterator struct {
	ascending        bool
	base             TimeRangeIterator
	timeBoundaryHeap *queue.TimeSelector
	heapMaxSize      int
	// pending is the next raw window not yet pulled into the heap
	pending    types.TimeRange
	hasPending bool
	// curStartTimeForIterator is the start of the last raw window pulled into the heap
	curStartTimeForIterator int64
	// lastEndTime is the end boundary most recently emitted
	lastEndTime int64
	endBound    func(w types.TimeRange) int64
	started     bool
	logger      logger.Logger
	observer    Observer
}

// NewPreAggrWindowIterator creates the pre-aggregation iterator and seeds its heap
func NewPreAggrWindowIterator(config types.WindowConfig, opts ...Option) (*PreAggrWindowIterator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(config, opts)
	if o.heapMaxSize < 2 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidHeapSize, o.heapMaxSize)
	}
	// the base iterator reports to nobody: its windows are pulls, not emissions
	base, err := NewAggrWindowIterator(config)
	if err != nil {
		return nil, err
	}
	return newPreAggrWindowIterator(base, o), nil
}

func newPreAggrWindowIterator(base TimeRangeIterator, o options) *PreAggrWindowIterator {
	it := &PreAggrWindowIterator{
		ascending:        base.IsAscending(),
		base:             base,
		timeBoundaryHeap: queue.NewTimeSelector(o.heapMaxSize, base.IsAscending()),
		heapMaxSize:      o.heapMaxSize,
		logger:           o.logger,
		observer:         o.observer,
	}
	if b, ok := base.(endBounder); ok && !it.ascending {
		it.endBound = b.maxEndUpTo
	}
	it.initHeap()
	return it
}

func (it *PreAggrWindowIterator) IsAscending() bool {
	return it.ascending
}

// GetFirstTimeRange returns the first sub-range. Calling it again restarts the iteration.
func (it *PreAggrWindowIterator) GetFirstTimeRange() (types.TimeRange, bool) {
	if it.started {
		it.initHeap()
	}
	it.started = true
	return it.nextTimeRange()
}

// GetNextTimeRange returns the sub-range following the previous one. The iterator keeps
// its own cursor, so curStartTime is not consulted.
func (it *PreAggrWindowIterator) GetNextTimeRange(curStartTime int64) (types.TimeRange, bool) {
	it.started = true
	return it.nextTimeRange()
}

func (it *PreAggrWindowIterator) nextTimeRange() (types.TimeRange, bool) {
	// windows starting at or before the head boundary must be in the heap before it is popped
	it.tryToExpandHeap()
	if it.timeBoundaryHeap.IsEmpty() {
		return types.TimeRange{}, false
	}
	retStartTime := it.timeBoundaryHeap.PollFirst()
	for !it.timeBoundaryHeap.IsEmpty() && it.timeBoundaryHeap.First() == retStartTime {
		it.timeBoundaryHeap.PollFirst()
	}
	// a raw window may begin between retStartTime and the new head
	it.tryToExpandHeap()
	if it.timeBoundaryHeap.IsEmpty() {
		it.logger.Debug("pre-aggregation windows exhausted at %d", retStartTime)
		return types.TimeRange{}, false
	}
	it.lastEndTime = it.timeBoundaryHeap.First()

	r := types.TimeRange{Min: retStartTime, Max: it.lastEndTime}
	if !it.ascending {
		r = types.TimeRange{Min: it.lastEndTime, Max: retStartTime}
	}
	it.observer.emitted(r)
	return r, true
}

func (it *PreAggrWindowIterator) initHeap() {
	it.timeBoundaryHeap.Clear()
	it.pending, it.hasPending = it.base.GetFirstTimeRange()
	if !it.hasPending {
		it.logger.Debug("pre-aggregation iterator over an empty span")
		return
	}
	it.pull()
	it.tryToExpandHeap()
	it.logger.Debug("pre-aggregation heap seeded with %d boundaries, cursor %d",
		it.timeBoundaryHeap.Size(), it.curStartTimeForIterator)
}

// tryToExpandHeap pulls raw windows while the heap has room for both boundaries of the
// next one, and beyond that while the next window could still contribute a boundary at
// or before the current head.
func (it *PreAggrWindowIterator) tryToExpandHeap() {
	forced := false
	for it.hasPending {
		if it.timeBoundaryHeap.Size()+2 <= it.heapMaxSize {
			it.pull()
			continue
		}
		if it.timeBoundaryHeap.IsEmpty() || !it.after(it.frontier(it.pending), it.timeBoundaryHeap.First()) {
			forced = true
			it.pull()
			continue
		}
		break
	}
	if forced {
		it.logger.Debug("boundary heap grew to %d past its capacity %d to cover overlapping windows",
			it.timeBoundaryHeap.Size(), it.heapMaxSize)
	}
	it.observer.expanded(it.timeBoundaryHeap.Size())
}

func (it *PreAggrWindowIterator) pull() {
	w := it.pending
	it.timeBoundaryHeap.Add(w.Min)
	it.timeBoundaryHeap.Add(w.Max)
	it.curStartTimeForIterator = w.Min
	it.observer.pulled(w)
	it.pending, it.hasPending = it.base.GetNextTimeRange(it.curStartTimeForIterator)
}

// frontier is the earliest boundary, in traversal order, that w or any later raw
// window can contribute
func (it *PreAggrWindowIterator) frontier(w types.TimeRange) int64 {
	if it.ascending {
		return w.Min
	}
	if it.endBound != nil {
		return it.endBound(w)
	}
	return w.Max
}

// after reports whether a comes strictly after b in traversal order
func (it *PreAggrWindowIterator) after(a, b int64) bool {
	if it.ascending {
		return a > b
	}
	return a < b
}

// pendingBoundaries returns the number of boundaries held in the heap
func (it *PreAggrWindowIterator) pendingBoundaries() int {
	return it.timeBoundaryHeap.Size()
}
