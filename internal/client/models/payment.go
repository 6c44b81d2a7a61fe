package models

import "github.com/shopspring/decimal"

// PaymentOrder is the gateway order descriptor returned by create-order.
// It is handed to the external payment UI exactly once.
type PaymentOrder struct {
	LocalOrderID   string
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
	GatewayKey     string
	CustomerEmail  string
	CustomerPhone  string
	CustomerName   string
}

// Amount converts AmountMinor back to major units (2 decimal places).
func (o PaymentOrder) Amount() decimal.Decimal {
	return decimal.New(o.AmountMinor, -2)
}

// PaymentVerification is sent back after the user completes payment.
type PaymentVerification struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	LocalOrderID     string
}

// VerificationResult is the server's answer to a verification request.
type VerificationResult struct {
	Code    int
	Message string
}
