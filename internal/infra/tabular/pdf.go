package tabular

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pkg/errors"
)

const (
	titleRowHeight  = 12
	headerRowHeight = 8
	bodyRowHeight   = 6
	gridColumns     = 12
)

var (
	headerFill = props.Color{Red: 215, Green: 225, Blue: 240}
	altRowFill = props.Color{Red: 240, Green: 240, Blue: 240}
)

// WritePDF renders the table as a titled, paginated printable report: a
// bold header row and body rows with alternating shading. A right-to-left
// table flips cell text alignment only.
func WritePDF(table *Table) ([]byte, error) {
	m := maroto.New()

	alignment := align.Left
	if table.RightToLeft {
		alignment = align.Right
	}

	if table.Title != "" {
		m.AddRows(row.New(titleRowHeight).Add(
			text.NewCol(gridColumns, table.Title, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		))
	}

	widths := columnWidths(len(table.Columns))

	headerRow := row.New(headerRowHeight).WithStyle(&props.Cell{BackgroundColor: &headerFill})
	headerRow.Add(textCols(table.Columns, widths, props.Text{
		Size:  10,
		Style: fontstyle.Bold,
		Align: alignment,
	})...)
	m.AddRows(headerRow)

	for i, cells := range table.Rows {
		bodyRow := row.New(bodyRowHeight)
		if i%2 == 1 {
			bodyRow.WithStyle(&props.Cell{BackgroundColor: &altRowFill})
		}
		bodyRow.Add(textCols(cells, widths, props.Text{
			Size:  9,
			Align: alignment,
		})...)
		m.AddRows(bodyRow)
	}

	document, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render pdf report")
	}

	return document.GetBytes(), nil
}

// columnWidths spreads the 12-unit grid across n columns, handing the
// leftover units to the leading columns.
func columnWidths(n int) []int {
	if n == 0 {
		return nil
	}
	if n > gridColumns {
		n = gridColumns
	}

	widths := make([]int, n)
	base := gridColumns / n
	remainder := gridColumns % n
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}

	return widths
}

func textCols(cells []string, widths []int, style props.Text) []core.Col {
	cols := make([]core.Col, 0, len(widths))
	for i, width := range widths {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		cols = append(cols, text.NewCol(width, value, style))
	}

	return cols
}
