// Package tabular reads delimited tabular files fully into memory and
// derives per-column profiles from them. It never touches the store.
package tabular

import (
	"path/filepath"
	"strings"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// Reader dispatches on file extension: .xlsx/.xlsm go through excelize,
// everything else is parsed as comma-delimited CSV.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Read(path string) (*domain.TableData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}
