package tabular

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// readXLSX loads the first sheet of a workbook. excelize returns ragged rows
// (trailing empty cells are cut), so data rows are padded to header width.
func readXLSX(path string) (*domain.TableData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "open workbook", err)
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read workbook", fmt.Errorf("no sheets"))
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read sheet rows", err)
	}
	if len(all) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read sheet rows", fmt.Errorf("sheet %q is empty", sheets[0]))
	}

	header := all[0]
	rows := make([][]string, 0, len(all)-1)
	for _, row := range all[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		} else if len(row) > len(header) {
			row = row[:len(header)]
		}
		rows = append(rows, row)
	}

	return &domain.TableData{Columns: header, Rows: rows}, nil
}
