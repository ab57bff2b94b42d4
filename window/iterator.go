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
	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/types"
)

// TimeRangeIterator yields GROUP BY TIME ranges one at a time in the direction fixed at
// construction. A false second return value means the span is exhausted.
// Implementations are not safe for concurrent use; give each query its own iterator.
type TimeRangeIterator interface {
	GetFirstTimeRange() (types.TimeRange, bool)
	// GetNextTimeRange returns the range following the one that started at curStartTime
	GetNextTimeRange(curStartTime int64) (types.TimeRange, bool)
	IsAscending() bool
}

// Observer receives iterator events. Nil handlers are skipped.
type Observer struct {
	// PullHandler is called when a raw window enters the boundary heap
	PullHandler func(r types.TimeRange)
	// EmitHandler is called for every range returned to the caller
	EmitHandler func(r types.TimeRange)
	// ExpandHandler is called with the heap size after each expansion
	ExpandHandler func(heapSize int)
}

func (o Observer) pulled(r types.TimeRange) {
	if o.PullHandler != nil {
		o.PullHandler(r)
	}
}

func (o Observer) emitted(r types.TimeRange) {
	if o.EmitHandler != nil {
		o.EmitHandler(r)
	}
}

func (o Observer) expanded(size int) {
	if o.ExpandHandler != nil {
		o.ExpandHandler(size)
	}
}

// Option configures an iterator
type Option func(*options)

type options struct {
	logger      logger.Logger
	observer    Observer
	heapMaxSize int
}

func newOptions(config types.WindowConfig, opts []Option) options {
	o := options{
		logger:      logger.GetDefault(),
		heapMaxSize: config.GetHeapMaxSize(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for debug output
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers event handlers
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithHeapMaxSize overrides WindowConfig.HeapMaxSize for the pre-aggregation iterator
func WithHeapMaxSize(size int) Option {
	return func(o *options) {
		o.heapMaxSize = size
	}
}
