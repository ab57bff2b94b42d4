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
Package groupbytime 生成时序数据库 GROUP BY TIME 聚合查询使用的时间窗口。

给定查询时间范围 [startTime, endTime)、窗口长度 interval 和滑动步长 slidingStep，
按升序或降序惰性地产生 [start, end) 时间范围。interval 和 slidingStep 可以是固定的
时间戳刻度数，也可以是自然月数。

# 核心特性

• 固定时长与自然月 - 月末日期自动截断，例如 1月31日 加一个月为 2月28日或29日
• 升序与降序 - 两个方向产生相同的窗口集合
• 预聚合迭代器 - 合并重叠窗口的边界，产生连续且不重叠的子范围，内存有界
• 范围过滤 - 基于 expr 表达式按宽度或日历字段过滤范围
• 统计与监控 - 原子计数器，可导出到 Prometheus

# 入门示例

	config := types.DefaultWindowConfig()
	config.StartTime, config.EndTime = 0, 10
	config.Interval, config.SlidingStep = 5, 3

	g, err := groupbytime.New(config)
	if err != nil {
		panic(err)
	}
	ranges, _ := g.Collect(context.Background())
	// [0, 5) [3, 8) [6, 10) [9, 10)

	config.PreAggregated = true
	g, _ = groupbytime.New(config)
	ranges, _ = g.Collect(context.Background())
	// [0, 3) [3, 5) [5, 6) [6, 8) [8, 9) [9, 10)

# 直接驱动迭代器

聚合执行器通常直接使用迭代器：

	it := g.Iterator()
	for r, ok := it.GetFirstTimeRange(); ok; r, ok = it.GetNextTimeRange(r.Min) {
		aggregate(r)
	}

迭代器不是并发安全的，每个查询应使用各自的实例。

# 配置文件

config 包从 YAML、JSON 或 TOML 文件以及 GROUPBYTIME_* 环境变量加载配置：

	window:
	  startTime: 2024-01-31
	  endTime: 2024-06-01
	  interval: 1mo
	  preAggregated: true
	filter: width >= duration("24h")

命令行工具 cmd/windowgen 以表格形式输出范围。
*/
package groupbytime
