package services

import (
	"fmt"
	"math/rand"
	"time"
)

// Reference number generation. The scheme is fixed prefix + year +
// zero-padded month + random zero-padded digits. It is deliberately
// non-cryptographic and not globally unique; the unique index on the
// jobs collection is what actually enforces uniqueness.

func GenerateRefNumber(now time.Time) string {
	return generateNumber("JOB", now)
}

func GenerateBillNumber(now time.Time) string {
	return generateNumber("BILL", now)
}

func GenerateChallanNumber(now time.Time) string {
	return generateNumber("CH", now)
}

func generateNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d%02d-%04d", prefix, now.Year(), int(now.Month()), rand.Intn(10000))
}

// DocumentNumber derives the printed document number for a job document:
// PREFIX-YYYY-MMDD, prefix per document type (QT/CH/INV).
func DocumentNumber(docType DocType, date time.Time) string {
	return fmt.Sprintf("%s-%d-%02d%02d", docType.Prefix(), date.Year(), int(date.Month()), date.Day())
}

// BulkDocumentNumber appends the 1-based index suffix used to keep the
// documents of a bulk export distinguishable.
func BulkDocumentNumber(docType DocType, date time.Time, index int) string {
	return fmt.Sprintf("%s-%d", DocumentNumber(docType, date), index)
}
