// Package gateway describes the external payment UI the client hands a
// gateway order to, and how its outcomes are reported back.
package gateway

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Gateway opens the payment UI for an order and blocks until the user
// finishes. A failed or abandoned payment is returned as *Failure.
type Gateway interface {
	Open(ctx context.Context, order models.PaymentOrder) (Success, error)
}

// Success is what the payment UI reports after the user paid.
type Success struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// Verification pairs a gateway success with the local order it pays for.
func (s Success) Verification(localOrderID string) models.PaymentVerification {
	return models.PaymentVerification{
		GatewayOrderID:   s.GatewayOrderID,
		GatewayPaymentID: s.PaymentID,
		Signature:        s.Signature,
		LocalOrderID:     localOrderID,
	}
}

type Category int

const (
	CategoryOther Category = iota
	CategoryNetwork
	CategoryCancelled
	CategorySecurity
)

func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryCancelled:
		return "cancelled"
	case CategorySecurity:
		return "security"
	default:
		return "other"
	}
}

// Gateway SDK error codes.
const (
	CodeCancelled = 0
	CodeNetwork   = 2
	CodeInvalid   = 3
	CodeTLS       = 6
)

// Failure is a categorized payment UI outcome other than success.
type Failure struct {
	Category Category
	Code     int
	Detail   string
}

// FailureFromCode classifies a gateway SDK error code.
func FailureFromCode(code int, detail string) *Failure {
	c := CategoryOther
	switch code {
	case CodeNetwork:
		c = CategoryNetwork
	case CodeCancelled:
		c = CategoryCancelled
	case CodeTLS:
		c = CategorySecurity
	}
	return &Failure{Category: c, Code: code, Detail: detail}
}

// Cancelled is the outcome of the user closing the payment UI.
func Cancelled() *Failure {
	return &Failure{Category: CategoryCancelled, Code: CodeCancelled}
}

// Message is the user-facing copy for the failure.
func (f *Failure) Message() string {
	switch f.Category {
	case CategoryNetwork:
		return "Please check your internet connection"
	case CategoryCancelled:
		return "Payment was cancelled"
	case CategorySecurity:
		return "Please update the app"
	default:
		if f.Detail == "" {
			return "Payment failed: Please try again"
		}
		return "Payment failed: " + f.Detail
	}
}

func (f *Failure) Error() string {
	return f.Message()
}

func (f *Failure) Unwrap() error {
	switch f.Category {
	case CategoryNetwork:
		return common.ErrPaymentNetwork
	case CategoryCancelled:
		return common.ErrPaymentCancelled
	case CategorySecurity:
		return common.ErrPaymentSecurity
	default:
		return common.ErrPaymentFailed
	}
}

// Retryable is false for a cancellation: the user chose to stop.
func (f *Failure) Retryable() bool {
	return f.Category != CategoryCancelled
}

// AsFailure extracts a *Failure from err. Any other non-nil error becomes a
// CategoryOther failure carrying its text.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Category: CategoryOther, Code: -1, Detail: err.Error()}
}
