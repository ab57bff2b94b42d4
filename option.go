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
	"io"

	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/metrics"
)

// Option 表示对GroupByTime默认行为的修改配置。
type Option func(*GroupByTime)

// WithLogger 设置自定义日志记录器。
// 默认使用 logger.GetDefault()。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	g, err := groupbytime.New(config, groupbytime.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(g *GroupByTime) {
		if log != nil {
			g.logger = log
		}
	}
}

// WithLogLevel 设置日志级别。
// 作用于最终使用的日志记录器，与选项顺序无关。
//
// 示例:
//
//	// 输出堆扩容等调试信息
//	g, err := groupbytime.New(config, groupbytime.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(g *GroupByTime) {
		g.logLevel = &level
	}
}

// WithLogOutput 设置日志输出目标。
//
// 示例:
//
//	g, err := groupbytime.New(config, groupbytime.WithLogOutput(os.Stderr, logger.WARN))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(g *GroupByTime) {
		g.logger = logger.NewLogger(level, output)
	}
}

// WithDiscardLog 禁用所有日志输出。
func WithDiscardLog() Option {
	return func(g *GroupByTime) {
		g.logger = logger.NewDiscardLogger()
	}
}

// WithFilter 设置范围过滤表达式，只有表达式为true的范围会传给回调。
// 可用变量: start, end, width；可用函数: year, month, day, hour, weekday, duration。
// 过滤不影响迭代器本身的推进。
//
// 示例:
//
//	g, err := groupbytime.New(config, groupbytime.WithFilter(`month(start) == 2 && width >= duration("1h")`))
func WithFilter(expression string) Option {
	return func(g *GroupByTime) {
		g.filterExpr = expression
	}
}

// WithHeapMaxSize 设置预聚合迭代器边界堆的容量，覆盖 config.HeapMaxSize。
func WithHeapMaxSize(size int) Option {
	return func(g *GroupByTime) {
		g.heapMaxSize = size
	}
}

// WithStats 启用统计，多个实例可以共用同一个收集器。
//
// 示例:
//
//	stats := metrics.NewStatsCollector()
//	_ = stats.Register(prometheus.DefaultRegisterer, prometheus.Labels{"query": "q1"})
//	g, err := groupbytime.New(config, groupbytime.WithStats(stats))
func WithStats(stats *metrics.StatsCollector) Option {
	return func(g *GroupByTime) {
		g.stats = stats
	}
}
