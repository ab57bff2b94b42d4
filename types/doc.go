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
Package types provides the value types and configuration shared by the window packages.

# TimeRange

A half-open interval [Min, Max) of epoch timestamps. Values are compared structurally
and printed as "[min, max)":

	r, err := types.NewTimeRange(0, 5) // ErrInvalidTimeRange when min > max
	r.Width()       // 5
	r.Contains(4)   // true
	r.Contains(5)   // false

# Window Configuration

WindowConfig carries the GROUP BY TIME parameters of one query:

	config := types.DefaultWindowConfig() // ascending, millisecond precision
	config.StartTime, config.EndTime = start, end
	config.Interval, config.SlidingStep = 1, 1
	config.IntervalByMonth, config.SlidingStepByMonth = true, true
	if err := config.Validate(); err != nil {
		// errors.Is(err, types.ErrInvalidInterval) ...
	}

Interval and SlidingStep are timestamp ticks unless the matching ByMonth flag is set,
in which case they count calendar months.
*/
package types
