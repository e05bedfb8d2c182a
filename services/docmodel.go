package services

import (
	"errors"
	"fmt"
	"strings"
)

// The document model is the single structural contract shared by all
// three renderer backends (HTML, PDF, spreadsheet). Builders in this
// file turn a job or topsheet snapshot plus a RenderConfig into a
// Document; each backend is a thin adapter that walks the blocks in
// order and never re-derives a money figure, so the backends cannot
// drift apart.

// DocType identifies which job document is being rendered.
type DocType string

const (
	DocQuotation DocType = "quotation"
	DocChallan   DocType = "challan"
	DocBill      DocType = "bill"
	DocTopsheet  DocType = "topsheet"
)

// ParseDocType validates a caller-supplied document type string.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocQuotation, DocChallan, DocBill:
		return DocType(s), nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Title returns the canonical uppercase document title. The set is
// canonical across every backend: QUOTATION, DELIVERY CHALLAN, TAX
// INVOICE, TOPSHEET.
func (t DocType) Title() string {
	switch t {
	case DocQuotation:
		return "QUOTATION"
	case DocChallan:
		return "DELIVERY CHALLAN"
	case DocBill:
		return "TAX INVOICE"
	case DocTopsheet:
		return "TOPSHEET"
	}
	return ""
}

// Prefix returns the document-number prefix for the type.
func (t DocType) Prefix() string {
	switch t {
	case DocQuotation:
		return "QT"
	case DocChallan:
		return "CH"
	case DocBill:
		return "INV"
	case DocTopsheet:
		return "TS"
	}
	return ""
}

// ShowsPricing reports whether documents of this type carry money
// columns. Challans never do; this is a per-type rule, not a style
// option.
func (t DocType) ShowsPricing() bool {
	return t != DocChallan
}

// ── Blocks ───────────────────────────────────────────────────────────

type HeaderBlock struct {
	CompanyName string
	Tagline     string
	Contact     string
}

type MetaBlock struct {
	DocumentNumber string
	DateText       string
	RefNumber      string
}

type CustomerBlock struct {
	Name         string
	AddressLines []string
	WorkLocation string
}

// Column alignment values understood by every backend.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TableColumn describes one column on a 12-unit grid, the same grid the
// PDF backend uses natively; the other backends scale it.
type TableColumn struct {
	Label string
	Width int
	Align string
}

// TableRow is one body row. SubLines (extra details text, then
// measurement fragments) render indented under the description cell.
type TableRow struct {
	Cells    []string
	SubLines []string
}

type TableBlock struct {
	Columns []TableColumn
	Rows    []TableRow
}

// TotalsRow is one label/value pair of the totals block; Emphasis marks
// the grand-total row.
type TotalsRow struct {
	Label    string
	Value    string
	Emphasis bool
}

type TotalsBlock struct {
	Rows []TotalsRow
}

// SignatureBlock reserves two side-by-side signature boxes. The vertical
// space is constant whether or not an image is drawn, so toggling the
// signature never shifts the layout.
type SignatureBlock struct {
	LeftLabel    string
	RightLabel   string
	ImageEnabled bool
	ImagePath    string
	Width        float64 // mm
	Height       float64 // mm
}

type FooterBlock struct {
	DocumentNumber string
	ContactLine    string
}

// Document is the ordered, backend-agnostic structural contract: header,
// meta, title, customer box, subject, table, totals, amount in words,
// notes, terms, signature, footer.
type Document struct {
	Type          DocType
	Header        HeaderBlock
	Meta          MetaBlock
	Title         string
	Customer      CustomerBlock
	Subject       string
	Table         TableBlock
	Totals        *TotalsBlock // nil when pricing is suppressed
	AmountInWords string       // empty when pricing is suppressed or total is zero
	Notes         string
	Terms         string
	Signature     SignatureBlock
	Footer        FooterBlock
}

// ── Builders ─────────────────────────────────────────────────────────

var errNoItems = errors.New("job has no items list")

// BuildJobDocument assembles the document for one job. The job snapshot
// must carry a materialized items list (possibly empty); a nil list is a
// structurally broken input and aborts rather than emitting a
// half-formed document.
func BuildJobDocument(job *JobData, docType DocType, cfg RenderConfig) (*Document, error) {
	if job == nil {
		return nil, errors.New("nil job")
	}
	if job.Items == nil {
		return nil, errNoItems
	}
	if docType.Title() == "" || docType == DocTopsheet {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	pricing := docType.ShowsPricing()

	doc := &Document{
		Type:   docType,
		Header: buildHeader(cfg),
		Meta: MetaBlock{
			DocumentNumber: DocumentNumber(docType, job.Date),
			DateText:       FormatDocDate(job.Date, cfg),
			RefNumber:      job.RefNumber,
		},
		Title:     docType.Title(),
		Customer:  buildCustomer(job),
		Subject:   buildSubject(job, docType),
		Notes:     job.Notes,
		Terms:     job.Terms,
		Signature: buildSignature(cfg, "Received By", "Authorized Signatory"),
	}
	doc.Footer = FooterBlock{
		DocumentNumber: doc.Meta.DocumentNumber,
		ContactLine:    contactLine(cfg),
	}

	doc.Table = buildItemTable(job.Items, pricing)

	if pricing {
		totals := CalcJobTotals(job.Items, job.DiscountPercent)
		doc.Totals = buildJobTotalsBlock(totals, job.DiscountPercent)
		if totals.TotalAmount > 0 {
			doc.AmountInWords = AmountInWords(totals.TotalAmount)
		}
	}

	return doc, nil
}

// BuildBulkJobDocuments assembles one document per job for a multi-page
// export. Each document keeps the identical per-document template; only
// the document number gains a 1-based index suffix.
func BuildBulkJobDocuments(jobs []*JobData, docType DocType, cfg RenderConfig) ([]*Document, error) {
	if len(jobs) == 0 {
		return nil, errors.New("no jobs to render")
	}
	docs := make([]*Document, 0, len(jobs))
	for i, job := range jobs {
		doc, err := BuildJobDocument(job, docType, cfg)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		doc.Meta.DocumentNumber = BulkDocumentNumber(docType, job.Date, i+1)
		doc.Footer.DocumentNumber = doc.Meta.DocumentNumber
		docs = append(docs, doc)
	}
	return docs, nil
}

// BuildTopsheetDocument assembles the simpler topsheet listing: one row
// per member job, a totals row and an amount-in-words trailer. Job
// totals are recomputed from each job's own items, never read from the
// stored total field.
func BuildTopsheetDocument(ts *TopsheetData, cfg RenderConfig) (*Document, error) {
	if ts == nil {
		return nil, errors.New("nil topsheet")
	}

	doc := &Document{
		Type:   DocTopsheet,
		Header: buildHeader(cfg),
		Meta: MetaBlock{
			DocumentNumber: ts.Number,
			DateText:       FormatDocDate(ts.Date, cfg),
		},
		Title: DocTopsheet.Title(),
		Customer: CustomerBlock{
			Name:         ts.CustomerName,
			AddressLines: nonEmptyLines(ts.CustomerAddress),
		},
		Signature: buildSignature(cfg, "Checked By", "Authorized Signatory"),
	}
	doc.Footer = FooterBlock{
		DocumentNumber: ts.Number,
		ContactLine:    contactLine(cfg),
	}

	doc.Table = TableBlock{
		Columns: []TableColumn{
			{Label: "SL", Width: 1, Align: AlignCenter},
			{Label: "Work Details", Width: 3, Align: AlignLeft},
			{Label: "Location", Width: 2, Align: AlignLeft},
			{Label: "Bill No", Width: 2, Align: AlignCenter},
			{Label: "Challan Date", Width: 1, Align: AlignCenter},
			{Label: "Amount", Width: 2, Align: AlignRight},
			{Label: "BBL Bill No", Width: 1, Align: AlignCenter},
		},
	}

	for i := range ts.Jobs {
		job := &ts.Jobs[i]
		billNo := job.BillNumber
		if billNo == "" {
			billNo = job.RefNumber
		}
		total := RecalcJobTotal(job.Items, job.TotalAmount)
		doc.Table.Rows = append(doc.Table.Rows, TableRow{
			Cells: []string{
				fmt.Sprintf("%d", i+1),
				job.Detail,
				job.Location,
				billNo,
				FormatDocDate(job.ChallanDate, cfg),
				FormatTaka(total),
				job.BBLBillNumber,
			},
		})
	}

	totals := CalcTopsheetTotals(ts.Jobs)
	doc.Totals = &TotalsBlock{Rows: []TotalsRow{
		{Label: "Grand Total", Value: FormatTaka(totals.GrandTotal), Emphasis: true},
	}}
	if totals.GrandTotal > 0 {
		doc.AmountInWords = AmountInWords(totals.GrandTotal)
	}

	return doc, nil
}

// ── Builder helpers ──────────────────────────────────────────────────

func buildHeader(cfg RenderConfig) HeaderBlock {
	return HeaderBlock{
		CompanyName: cfg.CompanyName,
		Tagline:     cfg.CompanyTagline,
		Contact:     contactLine(cfg),
	}
}

func contactLine(cfg RenderConfig) string {
	switch {
	case cfg.CompanyEmail != "" && cfg.CompanyPhone != "":
		return cfg.CompanyEmail + " | " + cfg.CompanyPhone
	case cfg.CompanyEmail != "":
		return cfg.CompanyEmail
	default:
		return cfg.CompanyPhone
	}
}

func buildCustomer(job *JobData) CustomerBlock {
	block := CustomerBlock{
		Name:         job.CustomerName,
		WorkLocation: job.Location,
	}
	if job.CustomerAddress1 != "" {
		block.AddressLines = append(block.AddressLines, job.CustomerAddress1)
	}
	if job.CustomerAddress2 != "" {
		block.AddressLines = append(block.AddressLines, job.CustomerAddress2)
	}
	return block
}

// buildSubject synthesizes the subject line. Challans carry just the
// work detail and location; priced documents lead with the title.
func buildSubject(job *JobData, docType DocType) string {
	if docType == DocChallan {
		return joinComma(job.Detail, job.Location)
	}
	subject := fmt.Sprintf("%s for %s", docType.Title(), job.Detail)
	if job.CustomerName != "" || job.Location != "" {
		subject += " at " + joinComma(job.CustomerName, job.Location)
	}
	return subject
}

func buildItemTable(items []ItemData, pricing bool) TableBlock {
	table := TableBlock{}
	if pricing {
		table.Columns = []TableColumn{
			{Label: "SL", Width: 1, Align: AlignCenter},
			{Label: "Work Details", Width: 5, Align: AlignLeft},
			{Label: "Qty", Width: 2, Align: AlignCenter},
			{Label: "Unit Price", Width: 2, Align: AlignRight},
			{Label: "Total", Width: 2, Align: AlignRight},
		}
	} else {
		table.Columns = []TableColumn{
			{Label: "SL", Width: 1, Align: AlignCenter},
			{Label: "Work Details", Width: 8, Align: AlignLeft},
			{Label: "Qty", Width: 3, Align: AlignCenter},
		}
	}

	for i, it := range items {
		calc := CalcLineItem(it.Quantity, it.UnitPrice, it.DiscountPercent, it.VATRate)

		var subLines []string
		if it.ExtraDetails != "" {
			subLines = append(subLines, it.ExtraDetails)
		}
		for _, m := range it.Measurements {
			subLines = append(subLines, FormatMeasurement(m))
		}

		qtyText := formatQty(it.Quantity)
		if it.Unit != "" {
			qtyText += " " + it.Unit
		}

		cells := []string{fmt.Sprintf("%d", i+1), it.Description, qtyText}
		if pricing {
			cells = append(cells, FormatTaka(it.UnitPrice), FormatTaka(calc.Total))
		}

		table.Rows = append(table.Rows, TableRow{Cells: cells, SubLines: subLines})
	}

	return table
}

func buildJobTotalsBlock(totals JobTotals, discountPercent float64) *TotalsBlock {
	block := &TotalsBlock{}
	block.Rows = append(block.Rows, TotalsRow{Label: "Subtotal", Value: FormatTaka(totals.Subtotal)})
	if totals.DiscountAmount > 0 {
		block.Rows = append(block.Rows, TotalsRow{
			Label: fmt.Sprintf("Discount (%s%%)", formatQty(discountPercent)),
			Value: FormatTaka(totals.DiscountAmount),
		})
	}
	if totals.TotalVAT > 0 {
		block.Rows = append(block.Rows, TotalsRow{Label: "VAT", Value: FormatTaka(totals.TotalVAT)})
	}
	block.Rows = append(block.Rows, TotalsRow{Label: "Grand Total", Value: FormatTaka(totals.TotalAmount), Emphasis: true})
	return block
}

func buildSignature(cfg RenderConfig, leftLabel, rightLabel string) SignatureBlock {
	return SignatureBlock{
		LeftLabel:    leftLabel,
		RightLabel:   rightLabel,
		ImageEnabled: cfg.SignatureEnabled,
		ImagePath:    cfg.SignatureImage,
		Width:        cfg.SignatureWidth,
		Height:       cfg.SignatureHeight,
	}
}

func joinComma(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	result := ""
	for i, p := range nonEmpty {
		if i > 0 {
			result += ", "
		}
		result += p
	}
	return result
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
