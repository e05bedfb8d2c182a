package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"strings"

	"github.com/a-h/templ"
)

// RenderHTML walks one or more documents into a single standalone HTML
// page, one printable sheet per document. All styling comes from the
// passed RenderConfig; the markup carries no external assets, so the
// output can be saved or printed as-is.
func RenderHTML(docs []*Document, cfg RenderConfig) (string, error) {
	if len(docs) == 0 {
		return "", fmt.Errorf("no documents to render")
	}

	view := htmlView{
		FontFamily:   htmlFontFamily(cfg.FontFamily),
		FontSize:     cfg.FontSize,
		FontColor:    template.CSS(cfg.FontColor),
		TopMargin:    cfg.TopMargin,
		BottomMargin: cfg.BottomMargin,
		PadOpacity:   cfg.PadOpacity,
	}
	if cfg.PadEnabled && cfg.PadImage != "" {
		view.PadDataURI = imageDataURI(cfg.PadImage)
	}

	for _, d := range docs {
		view.Docs = append(view.Docs, newHTMLDoc(d, cfg))
	}

	var sb strings.Builder
	if err := documentTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("execute document template: %w", err)
	}
	return sb.String(), nil
}

// HTMLComponent wraps RenderHTML as a templ component so handlers render
// documents the same way they render every other page.
func HTMLComponent(docs []*Document, cfg RenderConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := RenderHTML(docs, cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}

// ── View model ───────────────────────────────────────────────────────

// Typed CSS/URL fields keep html/template's context escaper from
// rejecting the quoted font stacks and data URIs as unsafe.
type htmlView struct {
	FontFamily   template.CSS
	FontSize     float64
	FontColor    template.CSS
	TopMargin    float64
	BottomMargin float64
	PadDataURI   template.URL
	PadOpacity   float64
	Docs         []htmlDoc
}

type htmlDoc struct {
	Doc              *Document
	CustomerLines    []string
	SignatureDataURI template.URL
	SignatureHeight  float64
	SignatureWidth   float64
	NotesLines       []string
	TermsLines       []string
}

func newHTMLDoc(d *Document, cfg RenderConfig) htmlDoc {
	h := htmlDoc{
		Doc:             d,
		SignatureHeight: d.Signature.Height,
		SignatureWidth:  d.Signature.Width,
		NotesLines:      nonEmptyLines(d.Notes),
		TermsLines:      nonEmptyLines(d.Terms),
	}

	h.CustomerLines = append(h.CustomerLines, d.Customer.AddressLines...)
	if d.Customer.WorkLocation != "" {
		h.CustomerLines = append(h.CustomerLines, "Work Location: "+d.Customer.WorkLocation)
	}

	if d.Signature.ImageEnabled && d.Signature.ImagePath != "" {
		h.SignatureDataURI = imageDataURI(d.Signature.ImagePath)
	}
	return h
}

// htmlFontFamily maps the config font name to a CSS font stack.
func htmlFontFamily(name string) template.CSS {
	switch strings.ToLower(name) {
	case "arial":
		return `Arial, "Helvetica Neue", sans-serif`
	case "courier":
		return `"Courier New", Courier, monospace`
	default:
		return `Helvetica, Arial, sans-serif`
	}
}

// imageDataURI inlines an image file as a data URI so the HTML stays
// self-contained. An unreadable file degrades to no image.
func imageDataURI(path string) template.URL {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("render: skipping unreadable image %s: %v", path, err)
		return ""
	}
	mime := "image/png"
	if ext := imageExtension(path); ext == "jpg" {
		mime = "image/jpeg"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// ── Template ─────────────────────────────────────────────────────────

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"colPercent": func(width, total int) string {
		if total <= 0 {
			total = 12
		}
		return fmt.Sprintf("%.2f%%", float64(width)*100/float64(total))
	},
	"gridTotal": func(cols []TableColumn) int {
		total := 0
		for _, c := range cols {
			total += c.Width
		}
		return total
	},
	"dec": func(i int) int { return i - 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{with index .Docs 0}}{{.Doc.Title}} {{.Doc.Meta.DocumentNumber}}{{end}}</title>
<style>
  @page { margin: {{.TopMargin}}mm 10mm {{.BottomMargin}}mm 10mm; }
  * { box-sizing: border-box; }
  body {
    font-family: {{.FontFamily}};
    font-size: {{.FontSize}}pt;
    color: {{.FontColor}};
    margin: 0;
    background: #fff;
  }
  .sheet {
    position: relative;
    padding: {{.TopMargin}}mm 10mm {{.BottomMargin}}mm 10mm;
    min-height: 277mm;
    page-break-after: always;
    display: flex;
    flex-direction: column;
  }
  .sheet:last-child { page-break-after: auto; }
  .pad {
    position: absolute;
    inset: 0;
    background-position: center;
    background-repeat: no-repeat;
    background-size: contain;
    opacity: {{.PadOpacity}};
    pointer-events: none;
  }
  .content { position: relative; flex: 1; display: flex; flex-direction: column; }
  .company { text-align: center; }
  .company h1 { margin: 0; font-size: 1.6em; }
  .company .tagline, .company .contact { margin: 1px 0; font-size: 0.85em; color: #666; }
  .meta { display: flex; justify-content: space-between; margin-top: 8mm; font-size: 0.9em; }
  .doc-title { text-align: center; font-size: 1.25em; font-weight: bold; letter-spacing: 2px; margin: 5mm 0 4mm; }
  .customer { background: #f5f3ef; padding: 3mm 4mm; font-size: 0.9em; }
  .customer .name { font-weight: bold; }
  .subject { margin: 4mm 0 3mm; font-size: 0.9em; }
  table.items { width: 100%; border-collapse: collapse; font-size: 0.9em; }
  table.items th {
    background: #212529;
    color: #fff;
    padding: 2mm;
    border: 0.3mm solid #212529;
  }
  table.items td { padding: 1.5mm 2mm; border: 0.3mm solid #dee2e6; vertical-align: top; }
  table.items tbody tr:nth-child(even) td { background: #f8f9fa; }
  td.sub-line { font-size: 0.85em; color: #666; font-style: italic; }
  .totals { margin-top: 4mm; margin-left: auto; width: 45%; font-size: 0.95em; }
  .totals .row { display: flex; justify-content: space-between; padding: 1.2mm 2mm; }
  .totals .row.grand { background: #212529; color: #fff; font-weight: bold; }
  .words { margin-top: 3mm; font-size: 0.9em; font-style: italic; }
  .words b { font-style: normal; }
  .section { margin-top: 4mm; font-size: 0.85em; }
  .section .label { font-weight: bold; color: #666; }
  .signatures {
    display: flex;
    justify-content: space-between;
    margin-top: auto;
    padding-top: 10mm;
    font-size: 0.9em;
  }
  .signature-box { width: 55mm; text-align: center; }
  .signature-space { height: {{with index .Docs 0}}{{.SignatureHeight}}{{end}}mm; display: flex; align-items: flex-end; justify-content: center; }
  .signature-space img { max-height: 100%; }
  .signature-box .line { border-top: 0.3mm solid {{.FontColor}}; margin-top: 1mm; padding-top: 1mm; }
  .footer { display: flex; justify-content: space-between; margin-top: 4mm; font-size: 0.75em; color: #8c8c8c; }
</style>
</head>
<body>
{{$view := .}}
{{range .Docs}}
{{$d := .Doc}}
<div class="sheet">
  {{if $view.PadDataURI}}<div class="pad" style="background-image: url('{{$view.PadDataURI}}');"></div>{{end}}
  <div class="content">
    <div class="company">
      <h1>{{$d.Header.CompanyName}}</h1>
      {{if $d.Header.Tagline}}<p class="tagline">{{$d.Header.Tagline}}</p>{{end}}
      <p class="contact">{{$d.Header.Contact}}</p>
    </div>
    <div class="meta">
      <div>
        <div>No: {{$d.Meta.DocumentNumber}}</div>
        {{if $d.Meta.RefNumber}}<div>Ref: {{$d.Meta.RefNumber}}</div>{{end}}
      </div>
      <div>{{$d.Meta.DateText}}</div>
    </div>
    <div class="doc-title">{{$d.Title}}</div>
    <div class="customer">
      <div class="name">{{$d.Customer.Name}}</div>
      {{range .CustomerLines}}<div>{{.}}</div>{{end}}
    </div>
    {{if $d.Subject}}<div class="subject"><b>Subject:</b> {{$d.Subject}}</div>{{end}}
    {{$total := gridTotal $d.Table.Columns}}
    <table class="items">
      <thead>
        <tr>
          {{range $d.Table.Columns}}<th style="width: {{colPercent .Width $total}};">{{.Label}}</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{range $d.Table.Rows}}
        <tr>
          {{$row := .}}
          {{range $i, $cell := .Cells}}<td style="text-align: {{(index $d.Table.Columns $i).Align}};">{{$cell}}</td>{{end}}
        </tr>
        {{range .SubLines}}
        <tr>
          <td></td>
          <td class="sub-line" colspan="{{len $d.Table.Columns | dec}}">{{.}}</td>
        </tr>
        {{end}}
        {{end}}
      </tbody>
    </table>
    {{if $d.Totals}}
    <div class="totals">
      {{range $d.Totals.Rows}}
      <div class="row{{if .Emphasis}} grand{{end}}"><span>{{.Label}}</span><span>{{.Value}}</span></div>
      {{end}}
    </div>
    {{end}}
    {{if $d.AmountInWords}}<div class="words"><b>In Words:</b> {{$d.AmountInWords}}</div>{{end}}
    {{if .NotesLines}}
    <div class="section">
      <div class="label">NOTES</div>
      {{range .NotesLines}}<div>{{.}}</div>{{end}}
    </div>
    {{end}}
    {{if .TermsLines}}
    <div class="section">
      <div class="label">TERMS &amp; CONDITIONS</div>
      {{range .TermsLines}}<div>{{.}}</div>{{end}}
    </div>
    {{end}}
    <div class="signatures">
      <div class="signature-box">
        <div class="signature-space"></div>
        <div class="line">{{$d.Signature.LeftLabel}}</div>
      </div>
      <div class="signature-box">
        <div class="signature-space">
          {{if .SignatureDataURI}}<img src="{{.SignatureDataURI}}" style="max-width: {{.SignatureWidth}}mm;" alt="">{{end}}
        </div>
        <div class="line">{{$d.Signature.RightLabel}}</div>
      </div>
    </div>
    <div class="footer">
      <span>{{$d.Footer.DocumentNumber}}</span>
      <span>{{$d.Footer.ContactLine}}</span>
    </div>
  </div>
</div>
{{end}}
</body>
</html>
`))
