package services

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateNumbers(t *testing.T) {
	now := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		got     string
		pattern string
	}{
		{"ref number", GenerateRefNumber(now), `^JOB-202608-\d{4}$`},
		{"bill number", GenerateBillNumber(now), `^BILL-202608-\d{4}$`},
		{"challan number", GenerateChallanNumber(now), `^CH-202608-\d{4}$`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !regexp.MustCompile(tt.pattern).MatchString(tt.got) {
				t.Errorf("got %q, want match for %q", tt.got, tt.pattern)
			}
		})
	}
}

func TestDocumentNumber(t *testing.T) {
	date := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		docType DocType
		want    string
	}{
		{DocQuotation, "QT-2026-0109"},
		{DocChallan, "CH-2026-0109"},
		{DocBill, "INV-2026-0109"},
	}
	for _, tt := range tests {
		if got := DocumentNumber(tt.docType, date); got != tt.want {
			t.Errorf("DocumentNumber(%s) = %q, want %q", tt.docType, got, tt.want)
		}
	}
}

func TestBulkDocumentNumber(t *testing.T) {
	date := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)
	if got, want := BulkDocumentNumber(DocBill, date, 3), "INV-2026-0109-3"; got != want {
		t.Errorf("BulkDocumentNumber() = %q, want %q", got, want)
	}
}
