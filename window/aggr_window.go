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
	"math"

	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/timex"
)

// Ensure AggrWindowIterator implements the TimeRangeIterator interface
var _ TimeRangeIterator = (*AggrWindowIterator)(nil)

// AggrWindowIterator generates the canonical GROUP BY TIME windows over
// [startTime, endTime). Window k starts at startTime + k*slidingStep, or
// startTime + k*slidingStep months when the step is by month. Every start is derived
// from startTime, so month clamping never accumulates and both directions visit the
// same windows. Each window is [start, start+interval) truncated to endTime; with both
// values by month the end is startTime + (k*slidingStep+interval) months.
type AggrWindowIterator struct {
	startTime   int64
	endTime     int64
	interval    int64
	slidingStep int64
	ascending   bool
	// isIntervalByMonth / isSlidingStepByMonth mark month counts instead of ticks
	isIntervalByMonth    bool
	isSlidingStepByMonth bool
	precision            timex.Precision
	observer             Observer
}

// NewAggrWindowIterator creates the base window generator
func NewAggrWindowIterator(config types.WindowConfig, opts ...Option) (*AggrWindowIterator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(config, opts)
	return &AggrWindowIterator{
		startTime:            config.StartTime,
		endTime:              config.EndTime,
		interval:             config.Interval,
		slidingStep:          config.SlidingStep,
		ascending:            config.Ascending,
		isIntervalByMonth:    config.IntervalByMonth,
		isSlidingStepByMonth: config.SlidingStepByMonth,
		precision:            config.GetPrecision(),
		observer:             o.observer,
	}, nil
}

func (it *AggrWindowIterator) IsAscending() bool {
	return it.ascending
}

// GetFirstTimeRange returns the window anchored at startTime when ascending, or the last
// window starting before endTime when descending.
func (it *AggrWindowIterator) GetFirstTimeRange() (types.TimeRange, bool) {
	if it.startTime >= it.endTime {
		return types.TimeRange{}, false
	}
	var k int64
	if !it.ascending {
		k = it.lastIndex()
	}
	return it.emit(k), true
}

// GetNextTimeRange returns the window whose start follows curStartTime in traversal order
func (it *AggrWindowIterator) GetNextTimeRange(curStartTime int64) (types.TimeRange, bool) {
	if it.startTime >= it.endTime {
		return types.TimeRange{}, false
	}
	k := it.indexOf(curStartTime)
	if it.ascending {
		k++
	} else if k >= 0 && it.windowStart(k) == curStartTime {
		k--
	}
	if k < 0 || it.windowStart(k) >= it.endTime {
		return types.TimeRange{}, false
	}
	return it.emit(k), true
}

func (it *AggrWindowIterator) emit(k int64) types.TimeRange {
	r := it.window(k)
	it.observer.emitted(r)
	return r
}

// window returns window k truncated to endTime
func (it *AggrWindowIterator) window(k int64) types.TimeRange {
	start := it.windowStart(k)
	var end int64
	switch {
	case it.isIntervalByMonth && it.isSlidingStepByMonth:
		// anchored like the start, so consecutive month windows stay contiguous:
		// from 1/31, window 1 is [2/29, 3/31) rather than [2/29, 3/29)
		end = timex.AddMonthsUpTo(it.startTime, mulAdd(k, it.slidingStep, it.interval), it.endTime, it.precision)
	case it.isIntervalByMonth:
		end = timex.AddMonthsUpTo(start, it.interval, it.endTime, it.precision)
	default:
		end = satAdd(start, it.interval, it.endTime)
	}
	return types.TimeRange{Min: start, Max: end}
}

// windowStart returns the start of window k, or endTime when window k starts at or
// past endTime
func (it *AggrWindowIterator) windowStart(k int64) int64 {
	if it.isSlidingStepByMonth {
		return timex.AddMonthsUpTo(it.startTime, mulAdd(k, it.slidingStep, 0), it.endTime, it.precision)
	}
	if k > (it.endTime-it.startTime-1)/it.slidingStep {
		return it.endTime
	}
	return it.startTime + k*it.slidingStep
}

// indexOf returns the largest k with windowStart(k) <= ts, or -1 when ts < startTime.
// ts at or past endTime maps to the last window.
func (it *AggrWindowIterator) indexOf(ts int64) int64 {
	if ts < it.startTime {
		return -1
	}
	if ts >= it.endTime {
		ts = it.endTime - 1
	}
	if !it.isSlidingStepByMonth {
		return (ts - it.startTime) / it.slidingStep
	}
	k := timex.MonthsBetween(it.startTime, ts, it.precision) / it.slidingStep
	for k > 0 && it.windowStart(k) > ts {
		k--
	}
	for it.windowStart(k+1) <= ts {
		k++
	}
	return k
}

// lastIndex returns the index of the last window starting before endTime
func (it *AggrWindowIterator) lastIndex() int64 {
	return it.indexOf(it.endTime - 1)
}

// maxEndUpTo bounds the end of w and of every window starting before it.
// Ends grow with the start except for a month interval with a fixed step: clamping
// can map a later start on the same target day to an earlier time of day, so the
// bound is the end of that target day.
func (it *AggrWindowIterator) maxEndUpTo(w types.TimeRange) int64 {
	if !it.isIntervalByMonth || it.isSlidingStepByMonth {
		return w.Max
	}
	sod := timex.StartOfDay(w.Min, it.precision)
	if sod > w.Min {
		// midnight is not representable at this precision
		return it.endTime
	}
	day := it.precision.FromDuration(timex.Day)
	return satAdd(timex.AddMonthsUpTo(sod, it.interval, it.endTime, it.precision), day, it.endTime)
}

// satAdd returns min(a+b, limit) for b >= 0 without overflowing
func satAdd(a, b, limit int64) int64 {
	if a >= limit || uint64(b) >= uint64(limit)-uint64(a) {
		return limit
	}
	return a + b
}

// mulAdd returns k*step+add for non-negative operands, saturating at math.MaxInt64
func mulAdd(k, step, add int64) int64 {
	if k > 0 && step > (math.MaxInt64-add)/k {
		return math.MaxInt64
	}
	return k*step + add
}
