package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tochi-dev/docmatch/internal/fields"
)

// Service produces XLSX bytes for extraction results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExtractionXLSX flattens one extraction result into a two-column workbook
// of field name and extracted value, preceded by a provenance block (file,
// language, template, confidence).
func (s *Service) ExtractionXLSX(fileName, lang string, res fields.Result, confidence int) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Extraction"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(row, col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "File")
	write(1, 2, fileName)
	write(2, 1, "Language")
	write(2, 2, lang)
	write(3, 1, "Template")
	if res.UsedTemplate {
		write(3, 2, res.TemplateID)
		write(4, 1, "Confidence")
		write(4, 2, confidence)
	} else {
		write(3, 2, "none")
	}

	write(6, 1, "Field")
	write(6, 2, "Value")

	names := make([]string, 0, len(res.Fields))
	for k := range res.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	row := 7
	for _, name := range names {
		write(row, 1, name)
		v := res.Fields[name]
		if v == nil {
			write(row, 2, "")
		} else {
			write(row, 2, fmt.Sprintf("%v", v))
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("extraction exported",
		"file", fileName,
		"fields", len(res.Fields),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
