package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RenderExcel walks one or more documents into a workbook, one sheet per
// document, using explicit cell/row/column styling. The structural walk
// mirrors the PDF and HTML backends block for block.
func RenderExcel(docs []*Document, cfg RenderConfig) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to render")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newExcelStyles(f, cfg)
	if err != nil {
		return nil, err
	}

	for i, d := range docs {
		sheetName := excelSheetName(d.Meta.DocumentNumber, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}
		if err := writeDocumentSheet(f, sheetName, d, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title        int
	subtitle     int
	docTitle     int
	customer     int
	subject      int
	tableHeader  int
	cellLeft     int
	cellCenter   int
	cellRight    int
	subLine      int
	totalsLabel  int
	totalsValue  int
	grandLabel   int
	grandValue   int
	words        int
	sectionLabel int
	footer       int
}

func newExcelStyles(f *excelize.File, cfg RenderConfig) (excelStyles, error) {
	var s excelStyles
	var err error

	fontName := cfg.FontFamily
	fontColor := strings.TrimPrefix(cfg.FontColor, "#")
	baseSize := cfg.FontSize
	if baseSize <= 0 {
		baseSize = 10
	}

	newStyle := func(st *excelize.Style) (int, error) {
		return f.NewStyle(st)
	}

	if s.title, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: baseSize + 6, Family: fontName, Color: fontColor},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.subtitle, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: baseSize - 1, Family: fontName, Color: "666666"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}
	if s.docTitle, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: baseSize + 3, Family: fontName, Color: fontColor},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, fmt.Errorf("create doc title style: %w", err)
	}
	if s.customer, err = newStyle(&excelize.Style{
		Font: &excelize.Font{Size: baseSize - 1, Family: fontName, Color: fontColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F5F3EF"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("create customer style: %w", err)
	}
	if s.subject, err = newStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: baseSize - 1, Family: fontName, Color: fontColor},
	}); err != nil {
		return s, fmt.Errorf("create subject style: %w", err)
	}
	if s.tableHeader, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: baseSize, Family: fontName},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	cellStyle := func(horizontal string) (int, error) {
		return newStyle(&excelize.Style{
			Font:      &excelize.Font{Size: baseSize - 1, Family: fontName, Color: fontColor},
			Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "top", WrapText: true},
			Border:    thinBorders(),
		})
	}
	if s.cellLeft, err = cellStyle("left"); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}
	if s.cellCenter, err = cellStyle("center"); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}
	if s.cellRight, err = cellStyle("right"); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}

	if s.subLine, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: baseSize - 2, Family: fontName, Color: "666666", Italic: true},
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create sub-line style: %w", err)
	}
	if s.totalsLabel, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: baseSize, Family: fontName, Color: fontColor},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create totals label style: %w", err)
	}
	if s.totalsValue, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: baseSize, Family: fontName, Color: fontColor},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create totals value style: %w", err)
	}
	if s.grandLabel, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: baseSize + 1, Family: fontName},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create grand label style: %w", err)
	}
	if s.grandValue, err = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: baseSize + 1, Family: fontName},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create grand value style: %w", err)
	}
	if s.words, err = newStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true, Size: baseSize - 1, Family: fontName, Color: fontColor},
	}); err != nil {
		return s, fmt.Errorf("create words style: %w", err)
	}
	if s.sectionLabel, err = newStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: baseSize - 2, Family: fontName, Color: "666666"},
	}); err != nil {
		return s, fmt.Errorf("create section label style: %w", err)
	}
	if s.footer, err = newStyle(&excelize.Style{
		Font: &excelize.Font{Size: baseSize - 2, Family: fontName, Color: "8C8C8C"},
	}); err != nil {
		return s, fmt.Errorf("create footer style: %w", err)
	}

	return s, nil
}

func writeDocumentSheet(f *excelize.File, sheet string, d *Document, styles excelStyles) error {
	colCount := len(d.Table.Columns)
	lastCol, err := excelize.ColumnNumberToName(colCount)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}

	// Column widths scale the 12-unit grid to ~96 characters total.
	for i, c := range d.Table.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, float64(c.Width)*8); err != nil {
			return fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	row := 1
	merge := func(style int, value string) error {
		if err := f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return fmt.Errorf("merge row %d: %w", row, err)
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(value))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style)
		row++
		return nil
	}

	// Header.
	if err := merge(styles.title, d.Header.CompanyName); err != nil {
		return err
	}
	if d.Header.Tagline != "" {
		if err := merge(styles.subtitle, d.Header.Tagline); err != nil {
			return err
		}
	}
	if err := merge(styles.subtitle, d.Header.Contact); err != nil {
		return err
	}
	row++

	// Meta.
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "No: "+d.Meta.DocumentNumber)
	f.SetCellValue(sheet, fmt.Sprintf("%s%d", lastCol, row), d.Meta.DateText)
	row++
	if d.Meta.RefNumber != "" {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Ref: "+sanitizeExcelCell(d.Meta.RefNumber))
		row++
	}

	// Title.
	if err := merge(styles.docTitle, d.Title); err != nil {
		return err
	}
	row++

	// Customer box.
	customerLines := append([]string{d.Customer.Name}, d.Customer.AddressLines...)
	if d.Customer.WorkLocation != "" {
		customerLines = append(customerLines, "Work Location: "+d.Customer.WorkLocation)
	}
	for _, line := range customerLines {
		if err := merge(styles.customer, line); err != nil {
			return err
		}
	}
	row++

	// Subject.
	if d.Subject != "" {
		if err := merge(styles.subject, "Subject: "+d.Subject); err != nil {
			return err
		}
		row++
	}

	// Table header.
	for i, c := range d.Table.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", name, row), c.Label)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.tableHeader)
	row++

	// Table body. Sub-lines become indented extra rows under the
	// description column, matching the other backends.
	for _, r := range d.Table.Rows {
		for i, cell := range r.Cells {
			name, _ := excelize.ColumnNumberToName(i + 1)
			ref := fmt.Sprintf("%s%d", name, row)
			f.SetCellValue(sheet, ref, sanitizeExcelCell(cell))
			f.SetCellStyle(sheet, ref, ref, excelCellStyle(styles, d.Table.Columns[i].Align))
		}
		row++
		for _, sub := range r.SubLines {
			ref := fmt.Sprintf("B%d", row)
			f.SetCellValue(sheet, ref, sanitizeExcelCell("  "+sub))
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.subLine)
			row++
		}
	}
	row++

	// Totals.
	if d.Totals != nil {
		labelCol, _ := excelize.ColumnNumberToName(colCount - 1)
		for _, tr := range d.Totals.Rows {
			labelRef := fmt.Sprintf("%s%d", labelCol, row)
			valueRef := fmt.Sprintf("%s%d", lastCol, row)
			f.SetCellValue(sheet, labelRef, tr.Label)
			f.SetCellValue(sheet, valueRef, tr.Value)
			if tr.Emphasis {
				f.SetCellStyle(sheet, labelRef, labelRef, styles.grandLabel)
				f.SetCellStyle(sheet, valueRef, valueRef, styles.grandValue)
			} else {
				f.SetCellStyle(sheet, labelRef, labelRef, styles.totalsLabel)
				f.SetCellStyle(sheet, valueRef, valueRef, styles.totalsValue)
			}
			row++
		}
		row++
	}

	// Amount in words.
	if d.AmountInWords != "" {
		if err := merge(styles.words, "In Words: "+d.AmountInWords); err != nil {
			return err
		}
		row++
	}

	// Notes / terms.
	for _, section := range []struct{ label, body string }{
		{"NOTES", d.Notes},
		{"TERMS & CONDITIONS", d.Terms},
	} {
		if section.body == "" {
			continue
		}
		if err := merge(styles.sectionLabel, section.label); err != nil {
			return err
		}
		if err := merge(styles.cellLeft, section.body); err != nil {
			return err
		}
		row++
	}

	// Signature: two labelled boxes with constant reserved space.
	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Signature.LeftLabel)
	f.SetCellValue(sheet, fmt.Sprintf("%s%d", lastCol, row), d.Signature.RightLabel)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.sectionLabel)
	row += 2

	// Footer.
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Footer.DocumentNumber)
	f.SetCellValue(sheet, fmt.Sprintf("%s%d", lastCol, row), d.Footer.ContactLine)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.footer)

	return nil
}

func excelCellStyle(styles excelStyles, align string) int {
	switch align {
	case AlignRight:
		return styles.cellRight
	case AlignCenter:
		return styles.cellCenter
	default:
		return styles.cellLeft
	}
}

// excelSheetName derives a valid, unique sheet name (max 31 chars) from
// the document number.
func excelSheetName(docNumber string, index int) string {
	name := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "[", "(", "]", ")").
		Replace(docNumber)
	if name == "" {
		name = fmt.Sprintf("Document %d", index+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous
// leading characters with a single quote. Excel interprets cells starting
// with =, +, -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns excelize borders for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
