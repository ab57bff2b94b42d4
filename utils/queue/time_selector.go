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

package queue

import (
	"errors"

	"github.com/google/btree"
)

// ErrEmptySelector is the panic value of First and PollFirst on an empty selector
var ErrEmptySelector = errors.New("time selector is empty")

const btreeDegree = 8

// boundary 时间边界，count 记录相同时间戳出现的次数
type boundary struct {
	ts    int64
	count int
}

func (b *boundary) Less(than btree.Item) bool {
	return b.ts < than.(*boundary).ts
}

// TimeSelector is an ordered multiset of timestamps. First returns the minimum in
// ascending mode and the maximum in descending mode. The capacity is advisory:
// Add never rejects, callers consult Size or IsFull.
// A TimeSelector is not safe for concurrent use.
type TimeSelector struct {
	tree      *btree.BTree
	ascending bool // 遍历方向，构造后不可变
	capacity  int  // 建议容量
	size      int  // 元素个数，包含重复值
}

// NewTimeSelector 创建指定容量和方向的时间选择器
func NewTimeSelector(capacity int, ascending bool) *TimeSelector {
	return &TimeSelector{
		tree:      btree.New(btreeDegree),
		ascending: ascending,
		capacity:  capacity,
	}
}

// Add inserts ts. Duplicates are kept.
func (s *TimeSelector) Add(ts int64) {
	if item := s.tree.Get(&boundary{ts: ts}); item != nil {
		item.(*boundary).count++
	} else {
		s.tree.ReplaceOrInsert(&boundary{ts: ts, count: 1})
	}
	s.size++
}

// First returns the next timestamp in traversal order without removing it
func (s *TimeSelector) First() int64 {
	return s.head().ts
}

// PollFirst removes one occurrence of the next timestamp in traversal order and returns it
func (s *TimeSelector) PollFirst() int64 {
	b := s.head()
	b.count--
	if b.count == 0 {
		if s.ascending {
			s.tree.DeleteMin()
		} else {
			s.tree.DeleteMax()
		}
	}
	s.size--
	return b.ts
}

func (s *TimeSelector) head() *boundary {
	if s.size == 0 {
		panic(ErrEmptySelector)
	}
	if s.ascending {
		return s.tree.Min().(*boundary)
	}
	return s.tree.Max().(*boundary)
}

// Size 返回元素个数，重复值分别计数
func (s *TimeSelector) Size() int {
	return s.size
}

// IsEmpty 判断是否为空
func (s *TimeSelector) IsEmpty() bool {
	return s.size == 0
}

// IsFull reports whether Size has reached the advisory capacity
func (s *TimeSelector) IsFull() bool {
	return s.size >= s.capacity
}

func (s *TimeSelector) Capacity() int {
	return s.capacity
}

func (s *TimeSelector) IsAscending() bool {
	return s.ascending
}

// Clear removes all timestamps
func (s *TimeSelector) Clear() {
	s.tree.Clear(false)
	s.size = 0
}
