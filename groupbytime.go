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

package groupbytime

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rulego/groupbytime/condition"
	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/metrics"
	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/cast"
	"github.com/rulego/groupbytime/utils/table"
	"github.com/rulego/groupbytime/utils/timex"
	"github.com/rulego/groupbytime/window"
)

const timeLayout = time.RFC3339Nano

// 表格输出的字段顺序
var fieldOrder = []string{"#", "start", "end", "width", "start_time", "end_time"}

// GroupByTime 是GROUP BY TIME窗口生成的主要接口。
// 它封装了窗口配置校验、迭代器创建、范围过滤和统计功能。
//
// 使用示例:
//
//	config := types.DefaultWindowConfig()
//	config.StartTime, config.EndTime = 0, 10
//	config.Interval, config.SlidingStep = 5, 3
//	g, err := groupbytime.New(config)
//	ranges, err := g.Collect(ctx)
type GroupByTime struct {
	config   types.WindowConfig
	iterator window.TimeRangeIterator

	logger   logger.Logger
	logLevel *logger.Level

	filterExpr string
	filter     *condition.RangeCondition

	stats       *metrics.StatsCollector
	heapMaxSize int
}

// New 校验配置并创建对应的窗口迭代器。
// config.PreAggregated 为 true 时创建预聚合迭代器，否则创建基础窗口迭代器。
//
// 参数:
//   - config: 窗口配置
//   - options: 可变长度的配置选项
//
// 返回值:
//   - *GroupByTime: 新创建的实例
//   - error: 配置无效或过滤表达式编译失败时返回错误
//
// 示例:
//
//	// 预聚合迭代器，只保留宽度不小于1秒的范围
//	config.PreAggregated = true
//	g, err := groupbytime.New(config, groupbytime.WithFilter("width >= 1000"))
func New(config types.WindowConfig, options ...Option) (*GroupByTime, error) {
	g := &GroupByTime{
		logger: logger.GetDefault(),
	}

	// 应用所有配置选项
	for _, option := range options {
		option(g)
	}
	if g.logLevel != nil {
		g.logger.SetLevel(*g.logLevel)
	}
	if g.heapMaxSize != 0 {
		config.HeapMaxSize = g.heapMaxSize
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window config: %w", err)
	}
	g.config = config

	if g.filterExpr != "" {
		filter, err := condition.NewRangeCondition(g.filterExpr, config.GetPrecision())
		if err != nil {
			return nil, err
		}
		g.filter = filter
	}

	windowOptions := []window.Option{window.WithLogger(g.logger)}
	if g.stats != nil {
		windowOptions = append(windowOptions, window.WithObserver(g.stats.Observer()))
	}
	iterator, err := window.CreateIterator(config, windowOptions...)
	if err != nil {
		return nil, err
	}
	g.iterator = iterator

	g.logger.Info("%s iterator created: span [%d, %d), interval %s, sliding step %s, ascending %v",
		window.TypeOf(config), config.StartTime, config.EndTime,
		cast.Interval{Value: config.Interval, ByMonth: config.IntervalByMonth},
		cast.Interval{Value: config.SlidingStep, ByMonth: config.SlidingStepByMonth},
		config.Ascending)
	return g, nil
}

// Iterator 返回底层的窗口迭代器，供聚合执行器直接驱动
func (g *GroupByTime) Iterator() window.TimeRangeIterator {
	return g.iterator
}

// Config 返回校验后的窗口配置
func (g *GroupByTime) Config() types.WindowConfig {
	return g.config
}

// ForEach 从第一个范围开始遍历所有范围，并对通过过滤条件的范围调用fn。
// 每次调用都会重新开始遍历。
//
// 参数:
//   - ctx: 每次产生范围前检查ctx是否已取消
//   - fn: 范围处理函数，返回错误时停止遍历并返回该错误
//
// 示例:
//
//	err := g.ForEach(ctx, func(r types.TimeRange) error {
//	    return aggregate(r.Min, r.Max)
//	})
func (g *GroupByTime) ForEach(ctx context.Context, fn func(r types.TimeRange) error) error {
	for r, ok := g.iterator.GetFirstTimeRange(); ok; r, ok = g.iterator.GetNextTimeRange(r.Min) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.filter != nil && !g.filter.Match(r) {
			if g.stats != nil {
				g.stats.IncrementFiltered()
			}
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Collect 返回所有通过过滤条件的范围
func (g *GroupByTime) Collect(ctx context.Context) ([]types.TimeRange, error) {
	var ranges []types.TimeRange
	err := g.ForEach(ctx, func(r types.TimeRange) error {
		ranges = append(ranges, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranges, nil
}

// ToChannel 在新的goroutine中遍历范围，并通过通道输出。
// 遍历结束或ctx取消后关闭通道。
//
// 注意:
//   - 必须有消费者持续从通道读取数据，或者取消ctx，否则goroutine会阻塞
//   - 遍历期间不要在其他goroutine中使用同一个实例
func (g *GroupByTime) ToChannel(ctx context.Context) <-chan types.TimeRange {
	ch := make(chan types.TimeRange)
	go func() {
		defer close(ch)
		err := g.ForEach(ctx, func(r types.TimeRange) error {
			select {
			case ch <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			g.logger.Debug("range channel closed early: %v", err)
		}
	}()
	return ch
}

// PrintTable 以表格形式输出所有范围，类似数据库输出格式。
//
// 输出格式:
//
//	+------+-------+------+-------+--------------------------+--------------------------+
//	| #    | start | end  | width | start_time               | end_time                 |
//	+------+-------+------+-------+--------------------------+--------------------------+
//	| 0    | 0     | 5    | 5     | 1970-01-01T00:00:00Z     | 1970-01-01T00:00:00.005Z |
//	| 1    | 5     | 10   | 5     | 1970-01-01T00:00:00.005Z | 1970-01-01T00:00:00.01Z  |
//	+------+-------+------+-------+--------------------------+--------------------------+
//	(2 rows)
func (g *GroupByTime) PrintTable(ctx context.Context, w io.Writer) error {
	ranges, err := g.Collect(ctx)
	if err != nil {
		return err
	}
	table.PrintTableFromSlice(w, RangeRows(ranges, g.config.GetPrecision()), fieldOrder)
	return nil
}

// RangeRows 将范围转换为表格行，时间按UTC的RFC3339格式输出
func RangeRows(ranges []types.TimeRange, p timex.Precision) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(ranges))
	for i, r := range ranges {
		rows = append(rows, map[string]interface{}{
			"#":          i,
			"start":      r.Min,
			"end":        r.Max,
			"width":      r.Width(),
			"start_time": r.StartTime(p).Format(timeLayout),
			"end_time":   r.EndTime(p).Format(timeLayout),
		})
	}
	return rows
}

// GetStats 获取迭代器统计信息，未启用统计时返回空map
func (g *GroupByTime) GetStats() map[string]int64 {
	if g.stats != nil {
		return g.stats.GetBasicStats()
	}
	return make(map[string]int64)
}

// GetDetailedStats 获取详细的统计信息
func (g *GroupByTime) GetDetailedStats() map[string]interface{} {
	if g.stats != nil {
		return g.stats.GetDetailedStats()
	}
	return make(map[string]interface{})
}

// Stats 返回统计收集器，未启用统计时返回nil
func (g *GroupByTime) Stats() *metrics.StatsCollector {
	return g.stats
}
