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

/*
Package window generates GROUP BY TIME windows for aggregation queries.

Given a span [startTime, endTime), an interval and a sliding step, each either a fixed
number of timestamp ticks or a count of calendar months, the iterators produce the
time ranges that bucket raw data or pre-aggregated statistics.

# Iterators

All iterators implement TimeRangeIterator:

	type TimeRangeIterator interface {
		GetFirstTimeRange() (types.TimeRange, bool)
		GetNextTimeRange(curStartTime int64) (types.TimeRange, bool)
		IsAscending() bool
	}

• AggrWindowIterator - canonical windows [start, start+interval), one per sliding step
• PreAggrWindowIterator - contiguous sub-ranges obtained by merging the boundaries of
overlapping windows, bounded in memory by a boundary heap

# Usage

	config := types.DefaultWindowConfig()
	config.StartTime, config.EndTime = 0, 10
	config.Interval, config.SlidingStep = 5, 3
	config.PreAggregated = true

	it, err := window.CreateIterator(config)
	if err != nil {
		return err
	}
	for r, ok := it.GetFirstTimeRange(); ok; r, ok = it.GetNextTimeRange(r.Min) {
		// [0,3) [3,5) [5,6) [6,8) [8,9) [9,10)
	}

# Calendar months

With IntervalByMonth or SlidingStepByMonth set, the values are month counts. Adding
months keeps the day of month and clamps it to the last day of shorter months, so a
window starting on Jan 31 with a one month interval ends on Feb 28 (Feb 29 in leap
years). Window starts are always computed from startTime.

Iterators are single-goroutine objects: each query, or each time partition of a
parallel query, builds its own.
*/
package window
