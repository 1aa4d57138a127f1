// Package spreadsheet decodes and writes xlsx workbooks used by the bulk
// importer. Only the first sheet is ever read.
package spreadsheet

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

// RequiredMarker is appended to required column headers in generated
// templates and stripped again when parsing.
const RequiredMarker = " *"

// Parse decodes the first sheet of an xlsx workbook. The first row is the
// header; every following non-blank row becomes a Row keyed by header name.
// Cells are typed as bool, float64 or string.
func Parse(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseError(data, err, "not a readable xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(data, nil, "workbook contains no sheets")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(data, err, "failed to read sheet "+sheet)
	}
	if len(raw) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(raw)-1)
	for idx, cells := range raw[1:] {
		line := idx + 2
		values := make(map[string]any, len(headers))
		for col, cell := range cells {
			if col >= len(headers) || headers[col] == "" || cell == "" {
				continue
			}
			values[headers[col]] = typedValue(f, sheet, col+1, line, cell)
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Line: line, values: values})
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	return strings.TrimSpace(strings.TrimSuffix(h, strings.TrimSpace(RequiredMarker)))
}

func typedValue(f *excelize.File, sheet string, col, line int, raw string) any {
	cell, err := excelize.CoordinatesToCellName(col, line)
	if err != nil {
		return raw
	}
	kind, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}

	switch kind {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}

func parseError(data []byte, cause error, msg string) error {
	details := map[string]any{
		"detectedType": mimetype.Detect(data).String(),
		"size":         len(data),
	}
	return pkgerrors.Wrap(pkgerrors.CodeParse, cause, msg).WithDetails(details)
}
