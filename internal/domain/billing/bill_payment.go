package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode represents how a payment was made
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCheque PaymentMode = "CHEQUE"
	PaymentModeNEFT   PaymentMode = "NEFT"
	PaymentModeRTGS   PaymentMode = "RTGS"
	PaymentModeIMPS   PaymentMode = "IMPS"
	PaymentModeUPI    PaymentMode = "UPI"
	PaymentModeOther  PaymentMode = "OTHER"
)

// IsValid checks if the payment mode is known
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeNEFT,
		PaymentModeRTGS, PaymentModeIMPS, PaymentModeUPI, PaymentModeOther:
		return true
	}
	return false
}

// String returns the string representation of the payment mode
func (m PaymentMode) String() string {
	return string(m)
}

// BillPayment is one entry in a bill's append-only payment ledger
// PaymentNumber is sequential per bill; TotalPaidAfter and BalanceAfter
// snapshot the bill state after this payment so the history replays the
// bill's balance without recomputation.
type BillPayment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	BillID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bill_payment_number,priority:1"`
	PaymentNumber  int             `gorm:"not null;uniqueIndex:idx_bill_payment_number,priority:2"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMode    PaymentMode     `gorm:"type:varchar(20);not null"`
	PaymentDate    time.Time       `gorm:"not null"`
	Reference      string          `gorm:"type:varchar(100)"`
	Notes          string          `gorm:"type:text"`
	TotalPaidAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillPayment) TableName() string {
	return "bill_payments"
}

// NewBillPayment creates a ledger entry; callers are expected to have applied
// the amount to the bill first so the After snapshots are consistent
func NewBillPayment(billID uuid.UUID, paymentNumber int, amount decimal.Decimal, mode PaymentMode, paymentDate time.Time, reference, notes string, totalPaidAfter, balanceAfter decimal.Decimal) *BillPayment {
	return &BillPayment{
		ID:             uuid.New(),
		BillID:         billID,
		PaymentNumber:  paymentNumber,
		Amount:         amount,
		PaymentMode:    mode,
		PaymentDate:    paymentDate,
		Reference:      reference,
		Notes:          notes,
		TotalPaidAfter: totalPaidAfter,
		BalanceAfter:   balanceAfter,
		CreatedAt:      time.Now(),
	}
}
