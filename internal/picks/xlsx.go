package picks

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the first sheet of a workbook. excelize drops trailing empty
// cells, so a short row cannot be told apart from one ending in blank prices.
// Rows are padded to the widest row before parsing and never fail the
// column-count check the CSV reader applies.
func (l *Loader) loadXLSX(ctx context.Context, source string) (*LoadResult, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, sourceError(source, "open", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, sourceError(source, "open", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, sourceError(source, "read", err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	p := newRowParser(source)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, sourceError(source, "read", err)
		}

		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}

		if err := p.add(row, i+1); err != nil {
			return nil, err
		}
	}

	l.logResult(ctx, source, p.result)
	return p.result, nil
}
