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

package table

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintTableFromSlice writes data as a text table to w.
// Columns follow fieldOrder; columns missing from it are appended in alphabetical order.
func PrintTableFromSlice(w io.Writer, data []map[string]interface{}, fieldOrder []string) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	columns := arrangeColumns(data, fieldOrder)

	// Calculate maximum width for each column
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = len(col)
		for _, row := range data {
			if val, exists := row[col]; exists {
				if n := len(fmt.Sprintf("%v", val)); n > colWidths[i] {
					colWidths[i] = n
				}
			}
		}
		// Minimum width is 4
		if colWidths[i] < 4 {
			colWidths[i] = 4
		}
	}

	PrintTableBorder(w, colWidths)
	printRow(w, colWidths, func(i int) string { return columns[i] })
	PrintTableBorder(w, colWidths)
	for _, row := range data {
		printRow(w, colWidths, func(i int) string {
			if v, exists := row[columns[i]]; exists {
				return fmt.Sprintf("%v", v)
			}
			return ""
		})
	}
	PrintTableBorder(w, colWidths)

	fmt.Fprintf(w, "(%d rows)\n", len(data))
}

func arrangeColumns(data []map[string]interface{}, fieldOrder []string) []string {
	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func printRow(w io.Writer, colWidths []int, cell func(i int) string) {
	var sb strings.Builder
	sb.WriteString("|")
	for i, width := range colWidths {
		fmt.Fprintf(&sb, " %-*s |", width, cell(i))
	}
	fmt.Fprintln(w, sb.String())
}

// PrintTableBorder prints table border
func PrintTableBorder(w io.Writer, columnWidths []int) {
	var sb strings.Builder
	sb.WriteString("+")
	for _, width := range columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	fmt.Fprintln(w, sb.String())
}
