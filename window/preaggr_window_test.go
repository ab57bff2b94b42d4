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
	"bytes"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPreAggr(t *testing.T, config types.WindowConfig, opts ...Option) *PreAggrWindowIterator {
	t.Helper()
	it, err := NewPreAggrWindowIterator(config, append([]Option{WithLogger(logger.NewDiscardLogger())}, opts...)...)
	require.NoError(t, err)
	return it
}

// expectedSubRanges builds the reference answer: the sorted distinct boundaries of all
// raw windows, paired up.
func expectedSubRanges(t *testing.T, config types.WindowConfig) []types.TimeRange {
	t.Helper()
	ascending := config
	ascending.Ascending = true
	seen := make(map[int64]struct{})
	var boundaries []int64
	for _, w := range collect(t, mustAggr(t, ascending)) {
		for _, b := range []int64{w.Min, w.Max} {
			if _, ok := seen[b]; !ok {
				seen[b] = struct{}{}
				boundaries = append(boundaries, b)
			}
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })

	var out []types.TimeRange
	for i := 1; i < len(boundaries); i++ {
		out = append(out, rng(boundaries[i-1], boundaries[i]))
	}
	if !config.Ascending {
		out = reversed(out)
	}
	return out
}

// TestPreAggrOverlappingWindows 测试重叠窗口边界合并
func TestPreAggrOverlappingWindows(t *testing.T) {
	want := []types.TimeRange{rng(0, 3), rng(3, 5), rng(5, 6), rng(6, 8), rng(8, 9), rng(9, 10)}

	it := mustPreAggr(t, newConfig(0, 10, 5, 3, true))
	assert.True(t, it.IsAscending())
	assert.Equal(t, want, collect(t, it))

	desc := mustPreAggr(t, newConfig(0, 10, 5, 3, false))
	assert.False(t, desc.IsAscending())
	assert.Equal(t, reversed(want), collect(t, desc))
}

func TestPreAggrTumbling(t *testing.T) {
	it := mustPreAggr(t, newConfig(0, 10, 5, 5, true))

	r, ok := it.GetFirstTimeRange()
	require.True(t, ok)
	assert.Equal(t, rng(0, 5), r)

	r, ok = it.GetNextTimeRange(r.Min)
	require.True(t, ok)
	assert.Equal(t, rng(5, 10), r)

	_, ok = it.GetNextTimeRange(r.Min)
	assert.False(t, ok)
	// exhaustion is sticky
	_, ok = it.GetNextTimeRange(r.Min)
	assert.False(t, ok)
}

func TestPreAggrEmptySpan(t *testing.T) {
	it := mustPreAggr(t, newConfig(3, 3, 5, 5, true))
	_, ok := it.GetFirstTimeRange()
	assert.False(t, ok)
	assert.Equal(t, 0, it.pendingBoundaries())
}

func TestPreAggrSingleWindow(t *testing.T) {
	it := mustPreAggr(t, newConfig(0, 4, 5, 5, true))
	assert.Equal(t, []types.TimeRange{rng(0, 4)}, collect(t, it))
}

func TestPreAggrRestart(t *testing.T) {
	it := mustPreAggr(t, newConfig(0, 50, 7, 3, true), WithHeapMaxSize(4))
	first := collect(t, it)
	second := collect(t, it)
	assert.Equal(t, first, second)
	assert.Equal(t, expectedSubRanges(t, newConfig(0, 50, 7, 3, true)), first)
}

func TestPreAggrInvalidHeapSize(t *testing.T) {
	_, err := NewPreAggrWindowIterator(newConfig(0, 10, 5, 3, true), WithHeapMaxSize(1))
	assert.ErrorIs(t, err, types.ErrInvalidHeapSize)

	_, err = NewPreAggrWindowIterator(newConfig(0, 10, 5, -1, true))
	assert.ErrorIs(t, err, types.ErrInvalidSlidingStep)
}

// TestPreAggrProperties 单调、连续、覆盖所有原始窗口边界、内存有界
func TestPreAggrProperties(t *testing.T) {
	for _, ascending := range []bool{true, false} {
		for _, heapMaxSize := range []int{2, 3, 4, 10, 100} {
			for _, span := range []int64{1, 10, 37, 200} {
				for _, step := range []int64{1, 3, 4, 10} {
					for _, interval := range []int64{1, step, step + 2, 3 * step, 25} {
						config := newConfig(100, 100+span, interval, step, ascending)
						maxSize := 0
						it := mustPreAggr(t, config, WithHeapMaxSize(heapMaxSize), WithObserver(Observer{
							ExpandHandler: func(size int) {
								if size > maxSize {
									maxSize = size
								}
							},
						}))
						got := collect(t, it)

						require.Equal(t, expectedSubRanges(t, config), got,
							"asc=%v heap=%d span=%d step=%d interval=%d", ascending, heapMaxSize, span, step, interval)
						assertContiguous(t, got, ascending)

						overlap := int((interval + step - 1) / step)
						if 2*overlap+2 <= heapMaxSize {
							assert.LessOrEqual(t, maxSize, heapMaxSize,
								"asc=%v heap=%d step=%d interval=%d", ascending, heapMaxSize, step, interval)
						}
						if interval >= step {
							assertPartition(t, got, config.StartTime, config.EndTime)
						}
					}
				}
			}
		}
	}
}

func assertContiguous(t *testing.T, ranges []types.TimeRange, ascending bool) {
	t.Helper()
	for i, r := range ranges {
		require.Less(t, r.Min, r.Max, "coincident boundaries are merged")
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		if ascending {
			require.Equal(t, prev.Max, r.Min)
			require.Greater(t, r.Min, prev.Min)
		} else {
			require.Equal(t, prev.Min, r.Max)
			require.Less(t, r.Min, prev.Min)
		}
	}
}

// assertPartition sums the widths of the sub-ranges back to the span
func assertPartition(t *testing.T, ranges []types.TimeRange, start, end int64) {
	t.Helper()
	var width int64
	for _, r := range ranges {
		width += r.Width()
	}
	assert.Equal(t, end-start, width)
}

func TestPreAggrBoundedOverLongSpan(t *testing.T) {
	config := newConfig(0, 30000, 5, 3, true)
	maxSize, pulls := 0, 0
	it := mustPreAggr(t, config, WithObserver(Observer{
		PullHandler: func(types.TimeRange) { pulls++ },
		ExpandHandler: func(size int) {
			if size > maxSize {
				maxSize = size
			}
		},
	}))
	assert.LessOrEqual(t, it.pendingBoundaries(), types.DefaultHeapMaxSize)

	got := collect(t, it)
	assert.Equal(t, expectedSubRanges(t, config), got)
	assert.LessOrEqual(t, maxSize, types.DefaultHeapMaxSize)
	assert.Equal(t, 10000, pulls)
	assertPartition(t, got, 0, 30000)
}

// TestPreAggrNearMaxTimestamp 测试时间戳接近 int64 上限时子区间仍然正确且能终止
func TestPreAggrNearMaxTimestamp(t *testing.T) {
	monthly := nsConfig(time.Date(2262, 1, 15, 0, 0, 0, 0, time.UTC), 2, 1, true)
	monthly.IntervalByMonth = true
	monthly.SlidingStepByMonth = true
	mixed := nsConfig(time.Date(2262, 3, 1, 0, 0, 0, 0, time.UTC), 1, int64(10*24*time.Hour), true)
	mixed.IntervalByMonth = true

	tests := []struct {
		config types.WindowConfig
		// covered is false when windows leave gaps
		covered bool
	}{
		{config: newConfig(math.MaxInt64-10, math.MaxInt64, 100, 100, true), covered: true},
		{config: newConfig(0, math.MaxInt64, 100, math.MaxInt64/2+10, true)},
		{config: newConfig(math.MaxInt64-150, math.MaxInt64, math.MaxInt64, 100, true), covered: true},
		{config: monthly, covered: true},
		{config: mixed, covered: true},
	}
	for i, tt := range tests {
		for _, ascending := range []bool{true, false} {
			config := tt.config
			config.Ascending = ascending
			got := collect(t, mustPreAggr(t, config))
			require.Equal(t, expectedSubRanges(t, config), got, "config %d asc=%v", i, ascending)
			assertContiguous(t, got, ascending)
			if tt.covered {
				assertPartition(t, got, config.StartTime, config.EndTime)
			}
		}
	}
}

func TestPreAggrNaturalMonth(t *testing.T) {
	config := newConfig(day(2023, 1, 31), day(2024, 3, 1), 3, 1, true)
	config.IntervalByMonth = true
	config.SlidingStepByMonth = true

	for _, ascending := range []bool{true, false} {
		config.Ascending = ascending
		got := collect(t, mustPreAggr(t, config, WithHeapMaxSize(4)))
		assert.Equal(t, expectedSubRanges(t, config), got)
		assertContiguous(t, got, ascending)
		assertPartition(t, got, config.StartTime, config.EndTime)
	}

	config.Ascending = true
	got := collect(t, mustPreAggr(t, config))
	assert.Equal(t, rng(day(2023, 1, 31), day(2023, 2, 28)), got[0])
	assert.Equal(t, rng(day(2023, 2, 28), day(2023, 3, 31)), got[1])
}

// TestPreAggrMixedUnits 月份区间与固定步长混合，月末截断使窗口结束时间不单调
func TestPreAggrMixedUnits(t *testing.T) {
	twoHours := int64(2 * time.Hour / time.Millisecond)
	start := time.Date(2023, 1, 30, 20, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli()

	config := newConfig(start, end, 1, twoHours, true)
	config.IntervalByMonth = true

	// Jan 30 22:00 ends on Feb 28 22:00, Jan 31 00:00 ends earlier on Feb 28 00:00
	raw := collect(t, mustAggr(t, config))
	require.Greater(t, raw[1].Max, raw[2].Max)

	for _, ascending := range []bool{true, false} {
		for _, heapMaxSize := range []int{2, 4, 100, 1000} {
			config.Ascending = ascending
			got := collect(t, mustPreAggr(t, config, WithHeapMaxSize(heapMaxSize)))
			require.Equal(t, expectedSubRanges(t, config), got, "asc=%v heap=%d", ascending, heapMaxSize)
			assertContiguous(t, got, ascending)
		}
	}
}

func TestPreAggrMonthStepFixedInterval(t *testing.T) {
	tenDays := int64(10 * 24 * time.Hour / time.Millisecond)
	config := newConfig(day(2024, 1, 31), day(2025, 1, 1), 4*tenDays, 1, true)
	config.SlidingStepByMonth = true

	for _, ascending := range []bool{true, false} {
		config.Ascending = ascending
		got := collect(t, mustPreAggr(t, config, WithHeapMaxSize(3)))
		assert.Equal(t, expectedSubRanges(t, config), got)
		assertContiguous(t, got, ascending)
	}
}

func TestPreAggrLogsForcedExpansion(t *testing.T) {
	var buf bytes.Buffer
	it, err := NewPreAggrWindowIterator(newConfig(0, 100, 50, 1, true),
		WithHeapMaxSize(4), WithLogger(logger.NewLogger(logger.DEBUG, &buf)))
	require.NoError(t, err)

	collect(t, it)
	assert.Contains(t, buf.String(), "past its capacity 4")
	assert.Contains(t, buf.String(), "exhausted")
}

// sliceIterator replays fixed windows, standing in for a custom base iterator
type sliceIterator struct {
	windows []types.TimeRange
}

func (s *sliceIterator) GetFirstTimeRange() (types.TimeRange, bool) {
	if len(s.windows) == 0 {
		return types.TimeRange{}, false
	}
	return s.windows[0], true
}

func (s *sliceIterator) GetNextTimeRange(curStartTime int64) (types.TimeRange, bool) {
	for _, w := range s.windows {
		if w.Min > curStartTime {
			return w, true
		}
	}
	return types.TimeRange{}, false
}

func (s *sliceIterator) IsAscending() bool {
	return true
}

func TestPreAggrCustomBase(t *testing.T) {
	base := &sliceIterator{windows: []types.TimeRange{rng(0, 4), rng(2, 6), rng(6, 6), rng(10, 12)}}
	o := newOptions(types.DefaultWindowConfig(), []Option{WithLogger(logger.NewDiscardLogger())})
	it := newPreAggrWindowIterator(base, o)

	assert.Equal(t, []types.TimeRange{rng(0, 2), rng(2, 4), rng(4, 6), rng(6, 10), rng(10, 12)}, collect(t, it))
}
