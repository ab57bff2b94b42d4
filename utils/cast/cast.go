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

// Package cast coerces loosely typed configuration values (flags, YAML, env) into the
// epoch timestamps and interval units the window iterators consume.
package cast

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rulego/groupbytime/utils/timex"
	"github.com/spf13/cast"
)

var (
	// ErrInvalidInterval is returned for interval values that cannot be parsed
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidTime is returned for time values that cannot be parsed
	ErrInvalidTime = errors.New("invalid time")
)

// calendarUnit matches the units time.ParseDuration does not know about
var calendarUnit = regexp.MustCompile(`^(\d+)(mo|y|w|d)$`)

// Interval is a parsed interval or sliding step
type Interval struct {
	Value   int64
	ByMonth bool
}

// String formats the interval the way ParseInterval accepts it back
func (i Interval) String() string {
	if i.ByMonth {
		return fmt.Sprintf("%dmo", i.Value)
	}
	return strconv.FormatInt(i.Value, 10)
}

// ParseInterval converts v into an interval in ticks of precision p, or into a month count.
//
// Accepted forms:
//   - integers, or strings holding one: ticks of p
//   - Go durations: "500ms", "5s", "1h30m"
//   - "2d", "1w": fixed days and weeks
//   - "3mo", "1y": calendar months, a year counts as 12 months
func ParseInterval(v any, p timex.Precision) (Interval, error) {
	if !p.IsValid() {
		return Interval{}, fmt.Errorf("%w: precision %q", ErrInvalidInterval, p)
	}
	var interval Interval
	if s, ok := v.(string); ok {
		parsed, err := parseIntervalString(strings.ToLower(strings.TrimSpace(s)), p)
		if err != nil {
			return Interval{}, err
		}
		interval = parsed
	} else {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return Interval{}, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
		interval = Interval{Value: n}
	}
	if interval.Value <= 0 {
		return Interval{}, fmt.Errorf("%w: %v must be positive", ErrInvalidInterval, v)
	}
	return interval, nil
}

func parseIntervalString(s string, p timex.Precision) (Interval, error) {
	if s == "" {
		return Interval{}, fmt.Errorf("%w: empty value", ErrInvalidInterval)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Interval{Value: n}, nil
	}
	if m := calendarUnit.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidInterval, s, err)
		}
		switch m[2] {
		case "mo":
			return Interval{Value: n, ByMonth: true}, nil
		case "y":
			return Interval{Value: n * 12, ByMonth: true}, nil
		case "w":
			return Interval{Value: n * p.FromDuration(7*timex.Day)}, nil
		default:
			return Interval{Value: n * p.FromDuration(timex.Day)}, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
	return Interval{Value: p.FromDuration(d)}, nil
}

// ParseTime converts v into an epoch timestamp of precision p. Integers, and strings
// holding one, are taken as epoch values already in p; anything else goes through
// cast.ToTimeE and is read in UTC.
func ParseTime(v any, p timex.Precision) (int64, error) {
	if !p.IsValid() {
		return 0, fmt.Errorf("%w: precision %q", ErrInvalidTime, p)
	}
	switch x := v.(type) {
	case time.Time:
		return timex.FromTime(x, p), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		return timex.FromTime(t, p), nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidTime, err)
		}
		return n, nil
	}
}
