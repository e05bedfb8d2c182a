package services

import (
	"bytes"
	"testing"
)

func TestRenderPDF(t *testing.T) {
	doc, err := BuildJobDocument(testJob(), DocBill, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pdf, err := RenderPDF([]*Document{doc}, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output does not start with %PDF- header")
	}
	if len(pdf) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestRenderPDFBulk(t *testing.T) {
	docs, err := BuildBulkJobDocuments([]*JobData{testJob(), testJob(), testJob()}, DocChallan, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pdf, err := RenderPDF(docs, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output does not start with %PDF- header")
	}
}

func TestRenderPDFTopsheet(t *testing.T) {
	ts := &TopsheetData{
		Number:       "TS-2026-001",
		CustomerName: "Acme Traders Ltd",
		Jobs: []JobData{
			{Detail: "Signboard", Items: []ItemData{{Quantity: 1, UnitPrice: 5000}}},
		},
	}
	doc, err := BuildTopsheetDocument(ts, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pdf, err := RenderPDF([]*Document{doc}, DefaultRenderConfig())
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output does not start with %PDF- header")
	}
}

func TestRenderPDFMissingImagesDegrade(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.PadEnabled = true
	cfg.PadImage = "/nonexistent/pad.png"
	cfg.SignatureEnabled = true
	cfg.SignatureImage = "/nonexistent/sig.png"

	doc, err := BuildJobDocument(testJob(), DocBill, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	pdf, err := RenderPDF([]*Document{doc}, cfg)
	if err != nil {
		t.Fatalf("missing images must not fail the render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output does not start with %PDF- header")
	}
}

func TestRenderPDFEmpty(t *testing.T) {
	if _, err := RenderPDF(nil, DefaultRenderConfig()); err == nil {
		t.Error("expected error for zero documents")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#212529", 33, 37, 41},
		{"#FFFFFF", 255, 255, 255},
		{"not-a-color", 0, 0, 0},
		{"", 0, 0, 0},
	}
	for _, tt := range tests {
		c := parseHexColor(tt.in)
		if c.Red != tt.r || c.Green != tt.g || c.Blue != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d want %d,%d,%d",
				tt.in, c.Red, c.Green, c.Blue, tt.r, tt.g, tt.b)
		}
	}
}
