// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/jeranaias/campus-tui/internal/util"
)

// Table is a plain-text table sized in terminal cells, so wide characters
// in names and titles keep columns aligned.
type Table struct {
	Headers []string
	Rows    [][]string
	// MaxWidth caps the rendered line width; 0 means unlimited.
	MaxWidth int
}

const columnGap = 2

// Render returns the table with a header rule. Columns wider than the
// available width are shrunk, widest first, and their cells truncated.
func (t Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = util.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := util.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if t.MaxWidth > 0 {
		fit(widths, t.MaxWidth-columnGap*(len(widths)-1))
	}

	var b strings.Builder
	writeRow(&b, t.Headers, widths)
	total := columnGap * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	b.WriteString(strings.Repeat("─", total))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	line := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = strings.ReplaceAll(cells[i], "\n", " ")
		}
		line[i] = util.PadWidth(cell, w)
	}
	b.WriteString(strings.TrimRight(strings.Join(line, strings.Repeat(" ", columnGap)), " "))
	b.WriteByte('\n')
}

// fit shrinks the widest column one cell at a time until the sum fits
// budget or every column is down to minColumn.
func fit(widths []int, budget int) {
	const minColumn = 4
	for {
		sum, widest := 0, -1
		for i, w := range widths {
			sum += w
			if w > minColumn && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if sum <= budget || widest < 0 {
			return
		}
		widths[widest]--
	}
}
