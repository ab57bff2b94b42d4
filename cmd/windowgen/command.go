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

package main

import (
	"fmt"
	"io"

	"github.com/rulego/groupbytime"
	"github.com/rulego/groupbytime/config"
	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/metrics"
	"github.com/rulego/groupbytime/utils/table"
	"github.com/spf13/cobra"
)

var statsFieldOrder = []string{
	metrics.EmittedCount, metrics.FilteredCount, metrics.PulledCount,
	metrics.ExpansionCount, metrics.HeapHighWater,
}

func newRootCommand() *cobra.Command {
	var (
		configPath  string
		startTime   string
		endTime     string
		interval    string
		slidingStep string
		descending  bool
		preAggr     bool
		heapMaxSize int
		precision   string
		filter      string
		logLevel    string
		showStats   bool
	)

	command := &cobra.Command{
		Use:   "windowgen",
		Short: "Print the GROUP BY TIME ranges of a query span",
		Example: `  windowgen --start 2024-01-31 --end 2024-06-01 --interval 1mo
  windowgen --start 0 --end 10 --interval 5 --step 3 --preaggr
  windowgen --config query.yaml --filter 'width >= duration("24h")'`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("start") {
				cfg.Window.StartTime = startTime
			}
			if flags.Changed("end") {
				cfg.Window.EndTime = endTime
			}
			if flags.Changed("interval") {
				cfg.Window.Interval = interval
			}
			if flags.Changed("step") {
				cfg.Window.SlidingStep = slidingStep
			}
			if flags.Changed("descending") {
				cfg.Window.Ascending = !descending
			}
			if flags.Changed("preaggr") {
				cfg.Window.PreAggregated = preAggr
			}
			if flags.Changed("heap-max-size") {
				cfg.Window.HeapMaxSize = heapMaxSize
			}
			if flags.Changed("precision") {
				cfg.Window.Precision = precision
			}
			if flags.Changed("filter") {
				cfg.Filter = filter
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}

			windowConfig, err := cfg.Window.ToWindowConfig()
			if err != nil {
				return err
			}
			log, err := buildLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			options := []groupbytime.Option{groupbytime.WithLogger(log), groupbytime.WithFilter(cfg.Filter)}
			if showStats {
				options = append(options, groupbytime.WithStats(metrics.NewStatsCollector()))
			}
			g, err := groupbytime.New(windowConfig, options...)
			if err != nil {
				return err
			}
			if err := g.PrintTable(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			if showStats {
				table.PrintTableFromSlice(cmd.OutOrStdout(), []map[string]interface{}{toRow(g.GetStats())}, statsFieldOrder)
			}
			return nil
		},
	}

	command.Flags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml)")
	command.Flags().StringVar(&startTime, "start", "", "Span start, epoch value or date (inclusive)")
	command.Flags().StringVar(&endTime, "end", "", "Span end, epoch value or date (exclusive)")
	command.Flags().StringVar(&interval, "interval", "", "Window length, e.g. 5000, 5s, 2d, 1mo, 1y")
	command.Flags().StringVar(&slidingStep, "step", "", "Sliding step, defaults to the interval")
	command.Flags().BoolVar(&descending, "descending", false, "Emit ranges from the end of the span")
	command.Flags().BoolVar(&preAggr, "preaggr", false, "Merge overlapping window boundaries into sub-ranges")
	command.Flags().IntVar(&heapMaxSize, "heap-max-size", 0, "Boundary heap capacity of the pre-aggregation iterator")
	command.Flags().StringVar(&precision, "precision", "ms", "Timestamp precision: ms, us or ns")
	command.Flags().StringVar(&filter, "filter", "", "Range filter expression over start, end and width")
	command.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error or off")
	command.Flags().BoolVar(&showStats, "stats", false, "Print iterator statistics after the ranges")
	return command
}

// buildLogger writes to stderr, keeping stdout for the table, unless file logging is on
func buildLogger(cfg logger.Config, stderr io.Writer) (logger.Logger, error) {
	if cfg.FileLoggingEnabled {
		cfg.Format = "file"
		return logger.New(cfg)
	}
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return logger.NewLogger(level, stderr), nil
}

func toRow(stats map[string]int64) map[string]interface{} {
	row := make(map[string]interface{}, len(stats))
	for k, v := range stats {
		row[k] = v
	}
	return row
}
