package core

// importer.go turns uploaded bytes into a typed Table.
//
// The flow is:
//  1. The format is taken from the file extension (csv or xlsx)
//  2. Records are read with encoding/csv or excelize
//  3. Header names are trimmed and made unique, rows are padded
//  4. gota infers Integer/Float/Boolean/Text per column
//  5. Text columns are refined to Boolean or DateTime where every value fits

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Import failure reasons. An *ImportError matches its reason with errors.Is.
var (
	ErrUnsupportedFormat  = errors.New("unsupported file type")
	ErrEmptyFile          = errors.New("empty file")
	ErrEncoding           = errors.New("encoding error")
	ErrMalformedCSV       = errors.New("malformed CSV")
	ErrCorruptSpreadsheet = errors.New("corrupt spreadsheet")
)

// ImportError reports uploaded bytes that could not be parsed as the
// declared format.
type ImportError struct {
	File   string
	Format Format
	Reason error // one of the Err* reasons above
	Err    error // underlying cause, may be nil
}

func (e *ImportError) Error() string {
	msg := e.Reason.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the reason and the cause to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// IsImportError reports whether err is or wraps an *ImportError.
func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}

// DetectFormat maps a file name's extension (case-insensitive) to a Format.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	ext := filepath.Ext(fileName)
	if ext == "" {
		ext = "(none)"
	}
	return "", &ImportError{
		File:   fileName,
		Reason: ErrUnsupportedFormat,
		Err:    fmt.Errorf("extension %s, expected .csv or .xlsx", ext),
	}
}

// Importer parses uploaded files into Tables. The zero value is ready to use.
type Importer struct{}

// NewImporter creates an Importer.
func NewImporter() *Importer {
	return &Importer{}
}

// Import parses data according to the extension of fileName.
// Parse failures are returned as *ImportError; cancellation of ctx is
// returned as ctx.Err().
func (im *Importer) Import(ctx context.Context, fileName string, data []byte) (table *Table, err error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}

	fail := func(reason, cause error) error {
		return &ImportError{File: fileName, Format: format, Reason: reason, Err: cause}
	}

	if len(data) == 0 {
		return nil, fail(ErrEmptyFile, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The parsing libraries may panic on hostile input.
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fail(formatReason(format), fmt.Errorf("parser panic: %v", r))
		}
	}()

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	}
	if err != nil {
		var ie *ImportError
		if errors.As(err, &ie) {
			ie.File, ie.Format = fileName, format
			return nil, ie
		}
		return nil, fail(formatReason(format), err)
	}
	if len(records) == 0 {
		return nil, fail(ErrEmptyFile, errors.New("no header row"))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err = buildTable(fileName, format, records[0], records[1:])
	if err != nil {
		return nil, fail(formatReason(format), err)
	}
	return table, nil
}

// formatReason is the generic parse failure reason for a format.
func formatReason(format Format) error {
	if format == FormatXLSX {
		return ErrCorruptSpreadsheet
	}
	return ErrMalformedCSV
}

// readCSV reads all records. Blank lines are skipped, short rows are padded
// and rows wider than the header are rejected. Quotes are strict.
func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(WrapForImport(bytes.NewReader(data)))
	r.FieldsPerRecord = -1

	var records [][]string
	width := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, ErrInvalidUTF8) {
				return nil, &ImportError{Reason: ErrEncoding, Err: err}
			}
			return nil, &ImportError{Reason: ErrMalformedCSV, Err: err}
		}

		// encoding/csv already drops empty lines; this catches whitespace-only ones.
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		if records == nil {
			width = len(rec)
		} else if len(rec) > width {
			line, _ := r.FieldPos(0)
			return nil, &ImportError{
				Reason: ErrMalformedCSV,
				Err:    fmt.Errorf("line %d: expected %d fields, found %d", line, width, len(rec)),
			}
		}
		records = append(records, padRecord(rec, width))
	}
	return records, nil
}

// readXLSX reads the first sheet with raw cell values. Boolean and
// date-formatted cells are rewritten by typeXLSXCells. The widest row sets
// the column count; empty rows are skipped.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ImportError{Reason: ErrCorruptSpreadsheet, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ImportError{Reason: ErrEmptyFile, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ImportError{Reason: ErrCorruptSpreadsheet, Err: err}
	}
	typeXLSXCells(f, sheets[0], rows)

	width := 0
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRecord(row) {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		records = append(records, row)
	}
	for i, rec := range records {
		records[i] = padRecord(rec, width)
	}
	return records, nil
}

// typeXLSXCells rewrites boolean cells as true/false and date-formatted
// numbers as ISO dates, so that they type as Boolean and DateTime instead of
// Integer. rows must be indexed as returned by GetRows.
func typeXLSXCells(f *excelize.File, sheet string, rows [][]string) {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	dateStyles := make(map[int]bool)

	for i, row := range rows {
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			ct, err := f.GetCellType(sheet, cell)
			if err != nil {
				continue
			}
			switch ct {
			case excelize.CellTypeBool:
				row[j] = xlsxBool(v)
			case excelize.CellTypeNumber, excelize.CellTypeUnset:
				styleID, err := f.GetCellStyle(sheet, cell)
				if err != nil || !isDateStyle(f, styleID, dateStyles) {
					continue
				}
				if text, ok := xlsxSerialDate(v, date1904); ok {
					row[j] = text
				}
			}
		}
	}
}

func xlsxBool(v string) string {
	switch strings.TrimSpace(v) {
	case "1":
		return "true"
	case "0":
		return "false"
	default:
		return v
	}
}

// xlsxSerialDate converts a spreadsheet date serial to the ISO layouts of
// ParseDateTime. Time-only values (serial below one day) keep a clock
// layout and are typed Text.
func xlsxSerialDate(v string, date1904 bool) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || !isFinite(serial) || serial < 0 {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", false
	}
	t = t.Round(time.Second)
	switch {
	case serial < 1:
		return t.Format("15:04:05"), true
	case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0:
		return t.Format("2006-01-02"), true
	default:
		return t.Format("2006-01-02 15:04:05"), true
	}
}

// isDateStyle reports whether the cell style carries a date or time number
// format. Results are cached per style ID.
func isDateStyle(f *excelize.File, styleID int, cache map[int]bool) bool {
	if isDate, ok := cache[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isDateNumFmtID(style.NumFmt)
		}
	}
	cache[styleID] = isDate
	return isDate
}

// isDateNumFmtID covers the built-in date and time formats, including the
// East Asian locale ones.
func isDateNumFmtID(id int) bool {
	switch {
	case 14 <= id && id <= 22,
		27 <= id && id <= 36,
		45 <= id && id <= 47,
		50 <= id && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or
// time tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRecord(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	padded := make([]string, width)
	copy(padded, rec)
	return padded
}

// uniqueNames trims header cells, names blank ones column_<n> (1-based) and
// suffixes repeats with .1, .2, ... in order of appearance.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for seen[name] {
			counts[base]++
			name = base + "." + strconv.Itoa(counts[base])
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// buildTable types the records with gota and refines text columns.
func buildTable(fileName string, format Format, header []string, rows [][]string) (*Table, error) {
	names := uniqueNames(header)

	for _, row := range rows {
		for j := range row {
			row[j] = cleanCell(row[j])
		}
	}

	if len(rows) == 0 {
		cols := make([]series.Series, len(names))
		columns := make([]Column, len(names))
		for i, name := range names {
			cols[i] = series.New([]string{}, series.String, name)
			columns[i] = Column{Name: name, Type: ColumnText}
		}
		frame := dataframe.New(cols...)
		if frame.Err != nil {
			return nil, frame.Err
		}
		return newTable(fileName, format, frame, columns), nil
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, names)
	records = append(records, rows...)

	frame := loadFrame(records, nil)
	if frame.Err != nil {
		return nil, frame.Err
	}
	if forced := looseBoolColumns(frame, names, rows); len(forced) > 0 {
		frame = loadFrame(records, forced)
		if frame.Err != nil {
			return nil, frame.Err
		}
	}

	types := frame.Types()
	columns := make([]Column, len(names))
	for i, name := range names {
		ct := columnTypeOf(types[i])
		if ct == ColumnText {
			ct = refineText(frame.Col(name))
		}
		columns[i] = Column{Name: name, Type: ct}
	}
	return newTable(fileName, format, frame, columns), nil
}

func loadFrame(records [][]string, types map[string]series.Type) dataframe.DataFrame {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NATokens),
	}
	if types != nil {
		opts = append(opts, dataframe.WithTypes(types))
	}
	return dataframe.LoadRecords(records, opts...)
}

// looseBoolColumns finds the columns gota typed Bool although some values are
// not true/false (gota lets "1" and "0" through once one "true" appears).
// They are returned forced to String so that no value is lost.
func looseBoolColumns(frame dataframe.DataFrame, names []string, rows [][]string) map[string]series.Type {
	var forced map[string]series.Type
	for i, t := range frame.Types() {
		if t != series.Bool {
			continue
		}
		for _, row := range rows {
			if IsNAToken(row[i]) {
				continue
			}
			if _, ok := ParseBool(row[i]); !ok {
				if forced == nil {
					forced = make(map[string]series.Type)
				}
				forced[names[i]] = series.String
				break
			}
		}
	}
	return forced
}

// refineText re-tags a text column as Boolean or DateTime when every
// non-null value parses as one. All-null columns stay Text.
func refineText(s series.Series) ColumnType {
	allBool, allDate, seen := true, true, false
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		seen = true
		v := e.String()
		if allBool {
			_, allBool = ParseBool(v)
		}
		if allDate {
			_, allDate = ParseDateTime(v)
		}
		if !allBool && !allDate {
			return ColumnText
		}
	}
	switch {
	case !seen:
		return ColumnText
	case allBool:
		return ColumnBoolean
	case allDate:
		return ColumnDateTime
	}
	return ColumnText
}
