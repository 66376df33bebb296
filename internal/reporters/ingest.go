package reporters

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Column headers recognised in the reporter spreadsheet.
const (
	ColumnReporter     = "Reporter"
	ColumnCleaned      = "Reporter_cleaned"
	ColumnJurisdiction = "Jurisdiction"
	ColumnNeedToCheck  = "Need to Check"
	ColumnCount        = "Count"
)

// columnAliases maps alternative header spellings to the recognised header.
// NeedToCheck is how the column is named in the reporter table itself.
var columnAliases = map[string]string{
	"NeedToCheck": ColumnNeedToCheck,
}

// ReadFile loads raw reporter records from an .xlsx or .csv spreadsheet.
// The first sheet is used for workbooks.
func ReadFile(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open reporter csv %s", path)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, eris.Errorf("unsupported reporter source %s (want .xlsx or .csv)", path)
	}
}

func readWorkbook(path string) ([]Record, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open reporter workbook %s", path)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, eris.Errorf("workbook %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets[0])
	}
	return RecordsFromRows(rows)
}

// ReadCSV loads raw reporter records from CSV with a header row.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "parse reporter csv")
	}
	return RecordsFromRows(rows)
}

// RecordsFromRows converts a header row plus data rows into records. Missing cells
// are coerced: Reporter to "", Jurisdiction and Need to Check to UnknownValue,
// Count to 0. Reporter_cleaned is derived when the column is absent or blank.
func RecordsFromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, eris.New("reporter sheet is empty")
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, seen := header[name]; !seen {
			header[name] = i
		}
	}
	if _, ok := header[ColumnReporter]; !ok {
		return nil, eris.Errorf("reporter sheet has no %q column", ColumnReporter)
	}

	cell := func(row []string, column string) (string, bool) {
		idx, ok := header[column]
		if !ok || idx >= len(row) {
			return "", false
		}
		return row[idx], true
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		reporter, _ := cell(row, ColumnReporter)
		rec := Record{
			Reporter:     reporter,
			Jurisdiction: orUnknown(cell(row, ColumnJurisdiction)),
			NeedToCheck:  orUnknown(cell(row, ColumnNeedToCheck)),
		}

		if cleaned, ok := cell(row, ColumnCleaned); ok && strings.TrimSpace(cleaned) != "" {
			rec.Cleaned = strings.TrimSpace(cleaned)
		} else {
			rec.Cleaned = CleanReporter(reporter)
		}

		if raw, ok := cell(row, ColumnCount); ok {
			rec.Count = parseCount(raw)
		}

		records = append(records, rec)
	}
	return records, nil
}

func orUnknown(value string, ok bool) string {
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return UnknownValue
	}
	return value
}

func parseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	// spreadsheets often store integers as floats
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
