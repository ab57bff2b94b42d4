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
	"github.com/rulego/groupbytime/types"
)

const (
	TypeAggr    = "aggr"
	TypePreAggr = "preaggr"
)

// TypeOf returns the iterator type CreateIterator builds for config
func TypeOf(config types.WindowConfig) string {
	if config.PreAggregated {
		return TypePreAggr
	}
	return TypeAggr
}

// CreateIterator builds the pre-aggregation iterator when config.PreAggregated is set,
// and the base window iterator otherwise.
func CreateIterator(config types.WindowConfig, opts ...Option) (TimeRangeIterator, error) {
	switch TypeOf(config) {
	case TypePreAggr:
		return NewPreAggrWindowIterator(config, opts...)
	default:
		return NewAggrWindowIterator(config, opts...)
	}
}
