package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

func readCSV(path string) (*domain.TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "open tabular file", err)
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "open tabular file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read csv header", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read csv row", err)
		}
		rows = append(rows, record)
	}

	return &domain.TableData{Columns: header, Rows: rows}, nil
}
