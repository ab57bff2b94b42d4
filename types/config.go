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

	"github.com/rulego/groupbytime/utils/timex"
)

// DefaultHeapMaxSize caps the pending window boundaries of the pre-aggregation iterator
const DefaultHeapMaxSize = 100

// WindowConfig 窗口配置
// Interval and SlidingStep are epoch ticks of Precision, or month counts when the
// matching ByMonth flag is set.
type WindowConfig struct {
	StartTime          int64           `json:"startTime"`
	EndTime            int64           `json:"endTime"`
	Interval           int64           `json:"interval"`
	SlidingStep        int64           `json:"slidingStep"`
	Ascending          bool            `json:"ascending"`
	IntervalByMonth    bool            `json:"intervalByMonth"`
	SlidingStepByMonth bool            `json:"slidingStepByMonth"`
	PreAggregated      bool            `json:"preAggregated"` // 预聚合路径，合并重叠窗口边界
	HeapMaxSize        int             `json:"heapMaxSize"`   // 0 表示使用默认值
	Precision          timex.Precision `json:"precision"`
}

// DefaultWindowConfig 默认窗口配置
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Ascending:   true,
		HeapMaxSize: DefaultHeapMaxSize,
		Precision:   timex.Millisecond,
	}
}

// GetHeapMaxSize returns HeapMaxSize, or DefaultHeapMaxSize when unset
func (c WindowConfig) GetHeapMaxSize() int {
	if c.HeapMaxSize == 0 {
		return DefaultHeapMaxSize
	}
	return c.HeapMaxSize
}

// GetPrecision returns Precision, or Millisecond when unset
func (c WindowConfig) GetPrecision() timex.Precision {
	if c.Precision == "" {
		return timex.Millisecond
	}
	return c.Precision
}

// Validate checks the span and step configuration. Errors wrap the package sentinels.
func (c WindowConfig) Validate() error {
	if c.StartTime > c.EndTime {
		return fmt.Errorf("%w: start %d, end %d", ErrInvalidTimeSpan, c.StartTime, c.EndTime)
	}
	if c.EndTime-c.StartTime < 0 {
		return fmt.Errorf("%w: span [%d, %d) overflows int64", ErrInvalidTimeSpan, c.StartTime, c.EndTime)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, c.Interval)
	}
	if c.SlidingStep <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSlidingStep, c.SlidingStep)
	}
	if !c.Precision.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPrecision, c.Precision)
	}
	if c.HeapMaxSize != 0 && c.HeapMaxSize < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidHeapSize, c.HeapMaxSize)
	}
	return nil
}
