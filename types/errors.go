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

import "errors"

var (
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidTimeSpan    = errors.New("start time must not be after end time")
	ErrInvalidInterval    = errors.New("interval must be positive")
	ErrInvalidSlidingStep = errors.New("sliding step must be positive")
	ErrInvalidPrecision   = errors.New("unknown timestamp precision")
	ErrInvalidHeapSize    = errors.New("heap max size must be at least 2")
)
