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
Package condition filters GROUP BY TIME ranges with boolean expressions.

Expressions are compiled once with the expr-lang library and evaluated for every
emitted range. Unknown variables and non-boolean results are rejected at compile time.

# Variables

	start - inclusive start timestamp of the range
	end   - exclusive end timestamp of the range
	width - end - start, in timestamp ticks

# Functions

Calendar fields are read in UTC at the precision given to NewRangeCondition:

	year(ts), month(ts), day(ts), hour(ts), weekday(ts)
	duration("90m") - a Go duration converted to timestamp ticks

# Usage Examples

	cond, err := NewRangeCondition(`month(start) == 2 && width >= duration("24h")`, timex.Millisecond)
	if err != nil {
		return err
	}
	if cond.Match(r) {
		// aggregate r
	}

ExprCondition evaluates an arbitrary expression against any environment:

	cond, err := NewExprCondition("a > b")
	result := cond.Evaluate(map[string]interface{}{"a": 2, "b": 1}) // returns true
*/
package condition
