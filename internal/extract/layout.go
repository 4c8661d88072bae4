package extract

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	rowTolerance    = 2.0  // points between baselines still read as one row
	wordGapFactor   = 0.25 // gap above FontSize*factor starts a new word
	fallbackWordGap = 3.0
)

// layoutText rebuilds reading order from positioned glyphs: rows top to
// bottom, glyphs left to right, spaces where the horizontal gap is wide.
func layoutText(glyphs []pdf.Text) string {
	var rows [][]pdf.Text
	var rowY []float64
	for _, t := range glyphs {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i, y := range rowY {
			if t.Y >= y-rowTolerance && t.Y <= y+rowTolerance {
				rows[i] = append(rows[i], t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []pdf.Text{t})
			rowY = append(rowY, t.Y)
		}
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rowY[order[a]] > rowY[order[b]] })

	var b strings.Builder
	for n, idx := range order {
		if n > 0 {
			b.WriteByte('\n')
		}
		row := rows[idx]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		end := 0.0
		for i, t := range row {
			if i > 0 {
				threshold := wordGapFactor * t.FontSize
				if t.FontSize == 0 {
					threshold = fallbackWordGap
				}
				if t.X-end > threshold {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
			end = t.X + t.W
		}
	}
	return b.String()
}
