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

package types

import (
	"fmt"
	"time"

	"github.com/rulego/groupbytime/utils/timex"
)

// TimeRange is one GROUP BY TIME bucket [Min, Max).
// It is a value type: copy it freely, compare it with ==.
type TimeRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// NewTimeRange creates a range, rejecting min > max
func NewTimeRange(min, max int64) (TimeRange, error) {
	if min > max {
		return TimeRange{}, fmt.Errorf("%w: min %d > max %d", ErrInvalidTimeRange, min, max)
	}
	return TimeRange{Min: min, Max: max}, nil
}

// MustTimeRange is like NewTimeRange but panics on invalid bounds
func MustTimeRange(min, max int64) TimeRange {
	r, err := NewTimeRange(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

func (r TimeRange) GetMin() int64 {
	return r.Min
}

func (r TimeRange) GetMax() int64 {
	return r.Max
}

// Width returns Max - Min
func (r TimeRange) Width() int64 {
	return r.Max - r.Min
}

// IsEmpty reports a zero-width range. Consumers must not query storage for it.
func (r TimeRange) IsEmpty() bool {
	return r.Min == r.Max
}

// Contains checks if ts is within [Min, Max)
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.Min && ts < r.Max
}

// Hash generates range hash value
func (r TimeRange) Hash() uint64 {
	hash := uint64(r.Min)
	hash = (hash << 32) | (hash >> 32)
	hash = hash ^ uint64(r.Max)
	return hash
}

// StartTime converts Min into a UTC time using precision p
func (r TimeRange) StartTime(p timex.Precision) time.Time {
	return timex.ToTime(r.Min, p)
}

// EndTime converts Max into a UTC time using precision p
func (r TimeRange) EndTime(p timex.Precision) time.Time {
	return timex.ToTime(r.Max, p)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Min, r.Max)
}
