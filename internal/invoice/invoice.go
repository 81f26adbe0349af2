// Package invoice is the system-of-record lookup the mandate chain
// validates against. Intents are admitted only when they match a real
// invoice, and carts are built from the merchant's open invoice lines.
package invoice

import (
	"time"

	"paychain/internal/mandate/models"
)

// Invoice is one payable obligation owed to a merchant.
type Invoice struct {
	UUID         string
	InvoiceRef   string
	MerchantName string
	Amount       models.Amount
	Currency     string
	Description  string
	DueDate      time.Time
	Paid         bool
	CreatedAt    time.Time
}
