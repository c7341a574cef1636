// Package payment is the storefront's view of the card gateway: client tokens,
// sales, transaction lookups and refunds.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvalidAmountMessage is the flash text shown when the amount to charge cannot
// be parsed.
const InvalidAmountMessage = "Error: 81503: Amount is an invalid format."

var ErrInvalidAmount = errors.New("amount is an invalid format")

// Transaction is a gateway transaction as seen by the storefront.
type Transaction struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	ProcessorResponse string          `json:"processor_response,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
}

// ValidationError is one field-level rejection reported by the gateway.
type ValidationError struct {
	Code      string `json:"code"`
	Attribute string `json:"attribute"`
	Message   string `json:"message"`
}

type SaleRequest struct {
	Amount              decimal.Decimal
	Nonce               string
	SubmitForSettlement bool
}

// SaleResult carries a gateway answer to a sale. A declined card comes back
// with Success false and a Transaction; a rejected request has no Transaction
// and lists its Errors.
type SaleResult struct {
	Success     bool
	Transaction *Transaction
	Errors      []ValidationError
	Message     string
}

// Gateway is the configured gateway handle. Errors returned directly are
// transport or credential failures; domain failures live in SaleResult.
type Gateway interface {
	GenerateClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, req SaleRequest) (*SaleResult, error)
	Find(ctx context.Context, id string) (*Transaction, error)
	Refund(ctx context.Context, id string, amount decimal.Decimal) (*Transaction, error)
}

var successStatuses = map[string]bool{
	"authorized":               true,
	"authorizing":              true,
	"settled":                  true,
	"settling":                 true,
	"settlement_confirmed":     true,
	"settlement_pending":       true,
	"submitted_for_settlement": true,
}

// IsSuccessStatus reports whether a transaction status counts as paid.
func IsSuccessStatus(status string) bool {
	return successStatuses[strings.ToLower(status)]
}

// ParseAmount reads an amount held in session state.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// DescribeErrors joins validation errors as "Error: <code> - <message>" lines.
func DescribeErrors(errs []ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "Error: %s - %s\n", e.Code, e.Message)
	}
	return b.String()
}
