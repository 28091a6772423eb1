package shared

import (
	"context"
	"fmt"
)

// Document types with their own yearly numbering sequence
const (
	DocumentTypeWorkOrder     = "WO"
	DocumentTypeBill          = "BILL"
	DocumentTypePurchaseOrder = "PO"
)

// DocumentSequenceRepository hands out gapless per-year sequence numbers for
// document numbering. Next must be called inside a transaction; the counter
// row is locked so concurrent callers never see the same value.
type DocumentSequenceRepository interface {
	Next(ctx context.Context, docType string, year int) (int64, error)
}

// FormatDocumentNumber renders a document number like WO/2026/0001
func FormatDocumentNumber(docType string, year int, sequence int64) string {
	return fmt.Sprintf("%s/%d/%04d", docType, year, sequence)
}
