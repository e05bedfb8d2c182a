package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// RenderPDF walks one or more documents into a single PDF using
// maroto/v2, one page run per document. A missing pad or signature image
// degrades silently (the document renders without it); a composition
// failure aborts with an error, never a partial binary.
func RenderPDF(docs []*Document, cfg RenderConfig) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to render")
	}

	builder := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(cfg.TopMargin).
		WithBottomMargin(cfg.BottomMargin).
		WithDefaultFont(&props.Font{
			Family: pdfFontFamily(cfg.FontFamily),
			Size:   cfg.FontSize,
			Color:  parseHexColor(cfg.FontColor),
		}).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		})

	if cfg.PadEnabled && cfg.PadImage != "" {
		if padBytes, err := os.ReadFile(cfg.PadImage); err == nil {
			builder = builder.WithBackgroundImage(padBytes, imageExtension(cfg.PadImage))
		} else {
			log.Printf("render_pdf: pad image unreadable, rendering without it: %v", err)
		}
	}

	m := maroto.New(builder.Build())

	for _, d := range docs {
		m.AddPages(page.New().Add(buildPDFRows(d, cfg)...))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func buildPDFRows(d *Document, cfg RenderConfig) []core.Row {
	var rows []core.Row

	rows = append(rows, pdfHeaderRows(d)...)
	rows = append(rows, pdfMetaRows(d)...)
	rows = append(rows, pdfTitleRow(d))
	rows = append(rows, pdfCustomerRows(d)...)
	if d.Subject != "" {
		rows = append(rows, pdfSubjectRow(d))
	}
	rows = append(rows, pdfTableRows(d)...)
	if d.Totals != nil {
		rows = append(rows, pdfTotalsRows(d)...)
	}
	if d.AmountInWords != "" {
		rows = append(rows, pdfWordsRow(d))
	}
	if d.Notes != "" {
		rows = append(rows, pdfTextSection("NOTES", d.Notes)...)
	}
	if d.Terms != "" {
		rows = append(rows, pdfTextSection("TERMS & CONDITIONS", d.Terms)...)
	}
	rows = append(rows, pdfSignatureRows(d.Signature)...)
	rows = append(rows, pdfFooterRows(d)...)

	return rows
}

// ── Block walkers ────────────────────────────────────────────────────

func pdfHeaderRows(d *Document) []core.Row {
	rows := []core.Row{
		row.New(10).Add(
			col.New(12).Add(
				text.New(d.Header.CompanyName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	}
	if d.Header.Tagline != "" {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(
				text.New(d.Header.Tagline, props.Text{
					Size:  8,
					Align: align.Center,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		))
	}
	rows = append(rows, row.New(5).Add(
		col.New(12).Add(
			text.New(d.Header.Contact, props.Text{
				Size:  8,
				Align: align.Center,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	))
	rows = append(rows, row.New(3))
	return rows
}

func pdfMetaRows(d *Document) []core.Row {
	metaText := props.Text{Size: 9, Align: align.Left}
	rightText := props.Text{Size: 9, Align: align.Right}

	rows := []core.Row{
		row.New(6).Add(
			col.New(6).Add(text.New(fmt.Sprintf("No: %s", d.Meta.DocumentNumber), metaText)),
			col.New(6).Add(text.New(d.Meta.DateText, rightText)),
		),
	}
	if d.Meta.RefNumber != "" {
		rows = append(rows, row.New(6).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Ref: %s", d.Meta.RefNumber), metaText)),
		))
	}
	return rows
}

func pdfTitleRow(d *Document) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(d.Title, props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		),
	)
}

func pdfCustomerRows(d *Document) []core.Row {
	boxBg := &props.Color{Red: 245, Green: 243, Blue: 239}
	boxCell := &props.Cell{BackgroundColor: boxBg}

	rows := []core.Row{
		row.New(6).Add(
			col.New(12).Add(text.New(d.Customer.Name, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})).WithStyle(boxCell),
		),
	}
	for _, line := range d.Customer.AddressLines {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(line, props.Text{Size: 8, Align: align.Left})).WithStyle(boxCell),
		))
	}
	if d.Customer.WorkLocation != "" {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Work Location: %s", d.Customer.WorkLocation),
				props.Text{Size: 8, Align: align.Left})).WithStyle(boxCell),
		))
	}
	rows = append(rows, row.New(3))
	return rows
}

func pdfSubjectRow(d *Document) core.Row {
	return row.New(7).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Subject: %s", d.Subject), props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
	)
}

func pdfTableRows(d *Document) []core.Row {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerCell := props.Cell{BackgroundColor: headerBg}
	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	var headerCols []core.Col
	for _, c := range d.Table.Columns {
		headerCols = append(headerCols, col.New(c.Width).Add(
			text.New(c.Label, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: pdfAlign(c.Align),
				Color: &props.Color{Red: 255, Green: 255, Blue: 255},
			}),
		).WithStyle(&headerCell))
	}
	rows := []core.Row{row.New(8).Add(headerCols...)}

	for i, r := range d.Table.Rows {
		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		var cols []core.Col
		for j, cell := range r.Cells {
			column := d.Table.Columns[j]
			c := col.New(column.Width).Add(
				text.New(cell, props.Text{Size: 8, Align: pdfAlign(column.Align)}),
			)
			if cellStyle != nil {
				c = c.WithStyle(cellStyle)
			}
			cols = append(cols, c)
		}
		rows = append(rows, row.New(7).Add(cols...))

		// Sub-lines hang under the description column.
		for _, sub := range r.SubLines {
			serialWidth := d.Table.Columns[0].Width
			subCol := col.New(12 - serialWidth).Add(
				text.New(sub, props.Text{
					Size:  7,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			)
			spacer := col.New(serialWidth)
			if cellStyle != nil {
				subCol = subCol.WithStyle(cellStyle)
				spacer = spacer.WithStyle(cellStyle)
			}
			rows = append(rows, row.New(5).Add(spacer, subCol))
		}
	}

	return rows
}

func pdfTotalsRows(d *Document) []core.Row {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}

	rows := []core.Row{row.New(2)}
	for _, tr := range d.Totals.Rows {
		labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
		valueStyle := props.Text{Size: 8, Align: align.Right}
		cell := summaryCell
		height := 7.0
		if tr.Emphasis {
			labelStyle = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: white}
			valueStyle = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: white}
			cell = grandCell
			height = 8
		}
		rows = append(rows, row.New(height).Add(
			col.New(9).Add(text.New(tr.Label, labelStyle)).WithStyle(cell),
			col.New(3).Add(text.New(tr.Value, valueStyle)).WithStyle(cell),
		))
	}
	return rows
}

func pdfWordsRow(d *Document) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("In Words: %s", d.AmountInWords), props.Text{
				Size:  8,
				Style: fontstyle.BoldItalic,
				Align: align.Left,
			}),
		),
	)
}

func pdfTextSection(label, body string) []core.Row {
	return []core.Row{
		row.New(6).Add(
			col.New(12).Add(text.New(label, props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			})),
		),
		row.New(7).Add(
			col.New(12).Add(text.New(body, props.Text{Size: 8, Align: align.Left})),
		),
	}
}

// pdfSignatureRows reserves a constant-height image band whether or not
// an image is drawn, so enabling the signature never shifts the layout.
func pdfSignatureRows(sig SignatureBlock) []core.Row {
	rows := []core.Row{row.New(8)}

	imageHeight := sig.Height
	if imageHeight <= 0 {
		imageHeight = 18
	}

	left := col.New(6)
	right := col.New(6)
	if sig.ImageEnabled && sig.ImagePath != "" {
		if imgBytes, err := os.ReadFile(sig.ImagePath); err == nil {
			right = right.Add(image.NewFromBytes(imgBytes, imageExtension(sig.ImagePath), props.Rect{
				Center:  true,
				Percent: 90,
			}))
		} else {
			log.Printf("render_pdf: signature image unreadable, leaving space blank: %v", err)
		}
	}
	rows = append(rows, row.New(imageHeight).Add(left, right))

	lineStyle := props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	rows = append(rows,
		row.New(5).Add(
			col.New(6).Add(text.New("____________________________", lineStyle)),
			col.New(6).Add(text.New("____________________________", lineStyle)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New(sig.LeftLabel, labelStyle)),
			col.New(6).Add(text.New(sig.RightLabel, labelStyle)),
		),
	)
	return rows
}

func pdfFooterRows(d *Document) []core.Row {
	gray := &props.Color{Red: 140, Green: 140, Blue: 140}
	return []core.Row{
		row.New(4),
		row.New(5).Add(
			col.New(6).Add(text.New(d.Footer.DocumentNumber, props.Text{Size: 7, Align: align.Left, Color: gray})),
			col.New(6).Add(text.New(d.Footer.ContactLine, props.Text{Size: 7, Align: align.Right, Color: gray})),
		),
	}
}

// ── Style helpers ────────────────────────────────────────────────────

func pdfAlign(a string) align.Type {
	switch a {
	case AlignRight:
		return align.Right
	case AlignCenter:
		return align.Center
	default:
		return align.Left
	}
}

func pdfFontFamily(family string) string {
	switch strings.ToLower(family) {
	case "arial":
		return fontfamily.Arial
	case "courier":
		return fontfamily.Courier
	default:
		return fontfamily.Helvetica
	}
}

func imageExtension(path string) extension.Type {
	switch strings.ToLower(path[strings.LastIndex(path, ".")+1:]) {
	case "jpg", "jpeg":
		return extension.Jpg
	default:
		return extension.Png
	}
}

// parseHexColor converts "#RRGGBB" to a maroto color, falling back to
// black on malformed input.
func parseHexColor(hex string) *props.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return &props.Color{}
	}
	r, err1 := strconv.ParseInt(hex[0:2], 16, 0)
	g, err2 := strconv.ParseInt(hex[2:4], 16, 0)
	b, err3 := strconv.ParseInt(hex[4:6], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		return &props.Color{}
	}
	return &props.Color{Red: int(r), Green: int(g), Blue: int(b)}
}
