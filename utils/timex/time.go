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

// Package timex provides epoch timestamp helpers and calendar-month arithmetic.
// All calendar computations happen in UTC.
package timex

import (
	"time"
)

// Precision is the unit of the epoch timestamps handled by the engine
type Precision string

const (
	Millisecond Precision = "ms"
	Microsecond Precision = "us"
	Nanosecond  Precision = "ns"
)

// Day is one calendar day expressed as a duration
const Day = 24 * time.Hour

// IsValid reports whether p is a known precision. The empty value counts as Millisecond.
func (p Precision) IsValid() bool {
	switch p {
	case "", Millisecond, Microsecond, Nanosecond:
		return true
	default:
		return false
	}
}

// Unit returns the duration of one timestamp tick
func (p Precision) Unit() time.Duration {
	switch p {
	case Microsecond:
		return time.Microsecond
	case Nanosecond:
		return time.Nanosecond
	default:
		return time.Millisecond
	}
}

// FromDuration converts d into a number of ticks, truncating the remainder
func (p Precision) FromDuration(d time.Duration) int64 {
	return int64(d / p.Unit())
}

// ToTime converts an epoch timestamp of precision p into a UTC time
func ToTime(ts int64, p Precision) time.Time {
	switch p {
	case Microsecond:
		return time.UnixMicro(ts).UTC()
	case Nanosecond:
		return time.Unix(0, ts).UTC()
	default:
		return time.UnixMilli(ts).UTC()
	}
}

// FromTime converts t into an epoch timestamp of precision p
func FromTime(t time.Time, p Precision) int64 {
	switch p {
	case Microsecond:
		return t.UnixMicro()
	case Nanosecond:
		return t.UnixNano()
	default:
		return t.UnixMilli()
	}
}

// DaysIn returns the number of days of month m in year y
func DaysIn(y int, m time.Month) int {
	// day 0 of the next month normalizes to the last day of m
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsToTime adds n calendar months to t. The day of month is kept when the
// target month has it, otherwise it is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28 or Feb 29). The time of day is preserved.
func AddMonthsToTime(t time.Time, n int) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total-floorDiv(total, 12)*12) + 1
	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// AddMonths adds n calendar months to the epoch timestamp ts of precision p
func AddMonths(ts int64, n int64, p Precision) int64 {
	return FromTime(AddMonthsToTime(ToTime(ts, p), int(n)), p)
}

// AddMonthsUpTo adds n >= 0 calendar months to ts and caps the result at limit.
// Times at or past limit are not converted back to epoch values.
func AddMonthsUpTo(ts int64, n int64, limit int64, p Precision) int64 {
	if ts >= limit || n > MonthsBetween(ts, limit, p) {
		return limit
	}
	t := AddMonthsToTime(ToTime(ts, p), int(n))
	if !t.Before(ToTime(limit, p)) {
		return limit
	}
	return FromTime(t, p)
}

// MonthsBetween returns the number of month boundaries between from and to,
// ignoring the day of month: Jan 31 to Feb 1 is one month.
func MonthsBetween(from, to int64, p Precision) int64 {
	a, b := ToTime(from, p), ToTime(to, p)
	return int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
}

// StartOfDay returns the timestamp of midnight UTC of the day ts falls on
func StartOfDay(ts int64, p Precision) int64 {
	return FromTime(AlignTime(ToTime(ts, p), Day, false), p)
}

// AlignTime aligns time to specified time unit. When roundUp is true, rounds up; when false, rounds down
func AlignTime(t time.Time, timeUnit time.Duration, roundUp bool) time.Time {
	trunc := t.Truncate(timeUnit)
	if roundUp && !t.Equal(trunc) {
		return trunc.Add(timeUnit)
	}
	return trunc
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
