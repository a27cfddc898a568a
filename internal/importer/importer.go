// Package importer reads sprite lists from CSV and Excel sheets, sprite
// bounds from DXF drawings, and sprite sizes from image files. Bad rows are
// reported in the result rather than aborting the whole import.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the sprites read by an import along with per-row
// problems. Errors mark rows that were dropped, warnings mark rows that were
// kept after an adjustment.
type ImportResult struct {
	Sprites  []model.Sprite
	Errors   []string
	Warnings []string
}

// ColumnMapping holds the column index of each sprite field, or -1 when the
// field is absent.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
	Padding  int
}

// positionalMapping is used when the first row is data rather than a header.
var positionalMapping = ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Padding: 4}

type column int

const (
	colLabel column = iota
	colWidth
	colHeight
	colQuantity
	colPadding
)

// headerAliases lists accepted header spellings per column, lowercase.
var headerAliases = [...][]string{
	colLabel:    {"label", "name", "sprite", "sprite name", "image", "file", "filename", "frame", "description"},
	colWidth:    {"width", "w", "px width", "size x", "x"},
	colHeight:   {"height", "h", "px height", "size y", "y"},
	colQuantity: {"quantity", "qty", "count", "copies", "instances", "num", "amount"},
	colPadding:  {"padding", "pad", "margin", "border", "spacing"},
}

// fuzzyThreshold is the Jaro-Winkler similarity above which a misspelt
// header cell is accepted for a column no exact alias claimed.
const fuzzyThreshold = 0.9

var headerMetric = metrics.NewJaroWinkler()

func (m *ColumnMapping) slot(c column) *int {
	switch c {
	case colLabel:
		return &m.Label
	case colWidth:
		return &m.Width
	case colHeight:
		return &m.Height
	case colQuantity:
		return &m.Quantity
	default:
		return &m.Padding
	}
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that splits the data into the most consistent multi-column rows.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}
		consistent := 0
		for _, rec := range records {
			if len(rec) == cols {
				consistent++
			}
		}
		if score := consistent*10 + cols; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns maps a header row to column indices by case-insensitive alias
// match. Cells that match no alias are compared fuzzily against the columns
// still missing. When no cell matches exactly, the row is not a header and the
// positional mapping is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Padding: -1}
	matched := make([]bool, len(row))
	isHeader := false

	for i, cell := range row {
		name := normalizeHeader(cell)
		for c, aliases := range headerAliases {
			slot := mapping.slot(column(c))
			if *slot != -1 {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					*slot = i
					matched[i] = true
					isHeader = true
					break
				}
			}
			if matched[i] {
				break
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}

	for i, cell := range row {
		if matched[i] {
			continue
		}
		name := normalizeHeader(cell)
		if len(name) < 4 {
			continue
		}
		for c, aliases := range headerAliases {
			slot := mapping.slot(column(c))
			if *slot != -1 {
				continue
			}
			if fuzzyMatch(name, aliases) {
				*slot = i
				break
			}
		}
	}

	return mapping, true
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func fuzzyMatch(name string, aliases []string) bool {
	for _, alias := range aliases {
		if len(alias) < 4 {
			continue
		}
		if strutil.Similarity(name, alias, headerMetric) >= fuzzyThreshold {
			return true
		}
	}
	return false
}

// getCell returns the trimmed cell at idx, or "" when the column is absent.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsePixels reads a positive pixel dimension. Fractional values are rounded
// up and reported through the returned warning.
func parsePixels(s, field, rowLabel string) (int, string, string) {
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, field), ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, field), ""
		}
		return n, "", ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field, s), ""
	}
	if f <= 0 {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, field), ""
	}
	n := int(math.Ceil(f))
	return n, "", fmt.Sprintf("%s: %s %s rounded up to %d px", rowLabel, field, s, n)
}

// parseRow builds a sprite from one data row. It returns the sprite, an error
// message when the row must be dropped, and warnings for adjusted values.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, spriteCount int) (model.Sprite, string, []string) {
	var warnings []string

	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Sprite %d", spriteCount+1)
	}

	width, errMsg, warn := parsePixels(getCell(row, mapping.Width), "width", rowLabel)
	if errMsg != "" {
		return model.Sprite{}, errMsg, nil
	}
	if warn != "" {
		warnings = append(warnings, warn)
	}

	height, errMsg, warn := parsePixels(getCell(row, mapping.Height), "height", rowLabel)
	if errMsg != "" {
		return model.Sprite{}, errMsg, nil
	}
	if warn != "" {
		warnings = append(warnings, warn)
	}

	qty := 1
	if s := getCell(row, mapping.Quantity); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return model.Sprite{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, s), nil
		}
		if n <= 0 {
			return model.Sprite{}, fmt.Sprintf("%s: quantity must be positive", rowLabel), nil
		}
		qty = n
	}

	sprite := model.NewSprite(label, width, height, qty)

	if s := getCell(row, mapping.Padding); s != "" {
		pad, err := strconv.Atoi(s)
		if err != nil || pad < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid padding '%s', using the default", rowLabel, s))
		} else {
			sprite.Padding = pad
		}
	}

	return sprite, "", warnings
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var delimiterNames = map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}

// ImportCSV imports sprites from a CSV file, detecting the delimiter and the
// header row.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if name, ok := delimiterNames[delimiter]; ok {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	result = importFromRows(records, "Line", warnings)
	for i := range result.Sprites {
		result.Sprites[i].Source = path
	}
	return result
}

// ImportCSVFromReader imports sprites from CSV data with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports sprites from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	result = importFromRows(rows, "Row", nil)
	for i := range result.Sprites {
		result.Sprites[i].Source = path
	}
	return result
}

// importFromRows is the row pipeline shared by the CSV and Excel importers.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	switch {
	case hasHeader:
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	case len(rows[0]) >= 3:
		// An unrecognised header still has a non-numeric width cell.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		sprite, errMsg, rowWarnings := parseRow(row, mapping, rowLabel, len(result.Sprites))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, rowWarnings...)
		result.Sprites = append(result.Sprites, sprite)
	}

	return result
}
