// Package payment is the remote payment repository: gateway order creation
// and server-side verification. Both calls are fail-loud.
package payment

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, localOrderID string) (models.PaymentOrder, error)
	Verify(ctx context.Context, v models.PaymentVerification) (models.VerificationResult, error)
}

var (
	createMessages = repositories.Messages{
		Status: map[int]string{
			404: "Payment service not found. Please check backend setup.",
			401: "Authentication failed. Please login again.",
			500: repositories.MsgServer,
		},
		Fallback:    "Failed to create payment order: %d",
		Unavailable: "Network error: cannot reach the payment service",
		Timeout:     "Network error: payment service timed out",
	}
	verifyMessages = repositories.Messages{
		Status: map[int]string{
			404: "Payment verification service not found.",
			401: "Authentication failed.",
		},
		Fallback:    "Payment verification failed: %d",
		Unavailable: "Network error: cannot reach the payment service",
		Timeout:     "Network error: payment service timed out",
	}
)

type RemoteRepository struct {
	api client.PaymentAPI
	log logging.Logger
}

func NewRemoteRepository(api client.PaymentAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

func (r *RemoteRepository) CreateOrder(ctx context.Context, amount decimal.Decimal, localOrderID string) (models.PaymentOrder, error) {
	if !amount.IsPositive() {
		return models.PaymentOrder{}, common.Validation("Order amount must be greater than zero")
	}
	if localOrderID == "" {
		return models.PaymentOrder{}, common.Validation("Missing order ID")
	}
	order, err := r.api.CreatePaymentOrder(ctx, amount, localOrderID)
	if err != nil {
		r.log.Error(ctx, "create payment order failed", "order", localOrderID, "error", err)
		return models.PaymentOrder{}, repositories.Normalize(err, createMessages)
	}
	r.log.Info(ctx, "payment order created", "order", localOrderID, "gateway_order", order.GatewayOrderID)
	return order, nil
}

func (r *RemoteRepository) Verify(ctx context.Context, v models.PaymentVerification) (models.VerificationResult, error) {
	if v.GatewayOrderID == "" || v.GatewayPaymentID == "" || v.Signature == "" {
		return models.VerificationResult{}, common.Validation("Incomplete payment details")
	}
	res, err := r.api.VerifyPayment(ctx, v)
	if err != nil {
		r.log.Error(ctx, "payment verification failed", "order", v.LocalOrderID, "gateway_order", v.GatewayOrderID, "error", err)
		return models.VerificationResult{}, repositories.Normalize(err, verifyMessages)
	}
	return res, nil
}
